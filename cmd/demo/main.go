package main

import (
	"fmt"
	"log"

	"github.com/clipkeep/clipkeep/internal/clipboard/mockboard"
	"github.com/clipkeep/clipkeep/internal/domain"
	"github.com/clipkeep/clipkeep/internal/history"
	"github.com/clipkeep/clipkeep/internal/store/memstore"
)

// The demo walks through the core clipboard-history flow without
// touching the real clipboard: capture, restore with its suppressed
// echo, and clear.
func main() {
	fmt.Println("clipkeep History Demo")
	fmt.Println()

	board := mockboard.New()
	hist := history.NewManager(memstore.New(), board)
	defer hist.Close()

	unsubscribe := hist.Subscribe(func(entries []domain.Entry) {
		fmt.Printf("  (history changed, now %d entries)\n", len(entries))
	})
	defer unsubscribe()

	// Simulate a user copying things in other applications.
	copies := []string{
		"Hello, World! This is the first copied text.",
		"package main\n\nfunc main() {}\n",
		"SELECT * FROM users ORDER BY created_at DESC LIMIT 10;",
	}

	fmt.Println("Capturing clipboard changes:")
	for _, text := range copies {
		payload, ok := domain.NewText(text)
		if !ok {
			log.Fatalf("empty clipboard text cannot be captured")
		}
		entry := hist.Capture(payload)
		fmt.Printf("  captured %s: %s\n",
			entry.ID[:8], history.Preview(entry.Content, 48))
	}

	fmt.Println()
	fmt.Println("History (newest first):")
	entries := hist.Entries()
	for i, entry := range entries {
		fmt.Printf("  %d. [%s] %s\n",
			i, entry.Date.Format("15:04:05"), history.Preview(entry.Content, 48))
	}

	// Restore the oldest entry and show the suppression handshake the
	// poller would perform on the change the restore wrote.
	oldest := entries[len(entries)-1]
	fmt.Println()
	fmt.Printf("Restoring %s back onto the clipboard...\n", oldest.ID[:8])
	if err := hist.Restore(oldest.ID); err != nil {
		log.Fatalf("restore failed: %v", err)
	}
	fmt.Printf("  clipboard now holds: %q\n", board.ReadText())
	fmt.Printf("  poller would skip this change: %v\n", hist.ConsumeSelfWrite())
	fmt.Printf("  history still has %d entries (no duplicate recorded)\n", hist.Len())

	fmt.Println()
	fmt.Println("Clearing the history...")
	hist.Clear()
	fmt.Printf("  %d entries remain\n", hist.Len())

	fmt.Println()
	fmt.Println("Demo complete! (Using the in-memory store and mock clipboard)")
}
