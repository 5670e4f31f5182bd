package main

import (
	"context"
	"fmt"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/clipkeep/clipkeep/internal/cli"
	"github.com/clipkeep/clipkeep/internal/clipboard/mockboard"
	"github.com/clipkeep/clipkeep/internal/history"
	"github.com/clipkeep/clipkeep/internal/httpserver"
	"github.com/clipkeep/clipkeep/internal/monitor"
	"github.com/clipkeep/clipkeep/internal/store/filestore"
)

// Runs the full watcher stack against a scripted clipboard and checks
// each step: capture, restore with its suppressed echo, persistence,
// and the control API. Exits non-zero on the first failed step.
func main() {
	fmt.Println("clipkeep integration check")
	fmt.Println("==========================")

	dir, err := os.MkdirTemp("", "clipkeep-integration-*")
	if err != nil {
		log.Fatalf("create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	st := filestore.New(filepath.Join(dir, "history.json"))
	board := mockboard.New()
	hist := history.NewManager(st, board)
	defer hist.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	monDone := make(chan struct{})
	go func() {
		defer close(monDone)
		monitor.New(board, hist, 10*time.Millisecond).Run(ctx)
	}()

	step := func(name string, ok bool) {
		if !ok {
			fmt.Printf("  FAIL %s\n", name)
			os.Exit(1)
		}
		fmt.Printf("  ok   %s\n", name)
	}

	waitLen := func(n int) bool {
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if hist.Len() == n {
				return true
			}
			time.Sleep(5 * time.Millisecond)
		}
		return false
	}

	// Two external copies become two entries, newest first.
	board.SetText("hello")
	step("captures first copy", waitLen(1))

	board.SetText("world")
	step("captures second copy", waitLen(2))

	// Restoring re-copies without growing the history.
	helloID := hist.Entries()[1].ID
	step("restore succeeds", hist.Restore(helloID) == nil)

	time.Sleep(100 * time.Millisecond)
	step("restore echo not recorded", hist.Len() == 2)
	step("clipboard holds restored text", board.ReadText() == "hello")

	// Suppression was single shot.
	board.SetText("again")
	step("captures after restore", waitLen(3))

	// The history document mirrors memory.
	persisted, err := st.Load()
	step("history file readable", err == nil)
	step("history file matches memory",
		len(persisted) == 3 && persisted[0].Content.Value == "again")

	// Stop the poller before the api checks so the restore below leaves
	// its self-write mark for us to observe instead of the next tick.
	cancel()
	<-monDone

	// Control API round trip through the CLI client.
	srv := httptest.NewServer(httpserver.New("127.0.0.1:0", hist).Handler())
	defer srv.Close()
	client := cli.NewClient(strings.TrimPrefix(srv.URL, "http://"))

	entries, err := client.List()
	step("control api lists history", err == nil && len(entries) == 3)

	step("control api restores", client.Restore(entries[2].ID) == nil)
	step("restore over api arms suppression", hist.ConsumeSelfWrite())

	step("control api clears", client.Clear() == nil)
	step("history empty after clear", hist.Len() == 0)

	persisted, err = st.Load()
	step("history file empty after clear", err == nil && len(persisted) == 0)

	fmt.Println()
	fmt.Println("all checks passed")
}
