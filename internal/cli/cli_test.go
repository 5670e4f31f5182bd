package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/clipkeep/clipkeep/internal/clipboard/mockboard"
	"github.com/clipkeep/clipkeep/internal/config"
	"github.com/clipkeep/clipkeep/internal/domain"
	"github.com/clipkeep/clipkeep/internal/history"
	"github.com/clipkeep/clipkeep/internal/httpserver"
	"github.com/clipkeep/clipkeep/internal/store/filestore"
	"github.com/clipkeep/clipkeep/internal/store/memstore"
)

// newTestCLI builds a CLI around a temp config file and captured
// output.
func newTestCLI(t *testing.T, cfg *config.Config) (*CLI, *bytes.Buffer) {
	t.Helper()

	manager := config.NewManagerWithPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err := manager.Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	out := &bytes.Buffer{}
	return &CLI{
		args:     &Args{},
		manager:  manager,
		cfg:      cfg,
		levelVar: &slog.LevelVar{},
		out:      out,
		in:       strings.NewReader(""),
	}, out
}

// offlineConfig returns a config whose listen address nothing answers
// on and whose history lives in a temp file.
func offlineConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.ListenAddr = unreachableAddr(t)
	cfg.HistoryLocation = filepath.Join(t.TempDir(), "history.json")
	return cfg
}

// unreachableAddr returns a loopback address that refuses connections.
func unreachableAddr(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	addr := l.Addr().String()
	l.Close()
	return addr
}

// seedHistory writes entries into the configured history file.
func seedHistory(t *testing.T, cfg *config.Config, values ...string) []domain.Entry {
	t.Helper()

	entries := make([]domain.Entry, 0, len(values))
	for _, v := range values {
		payload, ok := domain.NewText(v)
		if !ok {
			t.Fatalf("NewText(%q) rejected non-empty value", v)
		}
		entries = append([]domain.Entry{domain.NewEntry(payload)}, entries...)
	}

	st := filestore.New(cfg.HistoryLocation)
	if err := st.Save(entries); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	return entries
}

func TestArgsValidation_ValidCases(t *testing.T) {
	tests := []struct {
		name string
		args Args
	}{
		{name: "watch", args: Args{Watch: &WatchCmd{}}},
		{name: "bare list", args: Args{List: &ListCmd{}}},
		{name: "list with limit", args: Args{List: &ListCmd{Limit: 10}}},
		{name: "list json", args: Args{List: &ListCmd{JSON: true}}},
		{name: "restore", args: Args{Restore: &RestoreCmd{ID: "abc"}}},
		{name: "clear forced", args: Args{Clear: &ClearCmd{Force: true}}},
		{name: "config get", args: Args{Config: &ConfigCmd{Get: &ConfigGetCmd{Key: "storage"}}}},
		{name: "log level override", args: Args{LogLevel: "debug", List: &ListCmd{}}},
		{name: "log format override", args: Args{LogFormat: "json", List: &ListCmd{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.args.Validate(); err != nil {
				t.Errorf("Validate() error: %v", err)
			}
		})
	}
}

func TestArgsValidation_InvalidCases(t *testing.T) {
	tests := []struct {
		name string
		args Args
	}{
		{name: "negative limit", args: Args{List: &ListCmd{Limit: -1}}},
		{name: "bad log level", args: Args{LogLevel: "loud"}},
		{name: "bad log format", args: Args{LogFormat: "xml"}},
		{name: "config without subcommand", args: Args{Config: &ConfigCmd{}}},
		{
			name: "config with two subcommands",
			args: Args{Config: &ConfigCmd{
				Get:  &ConfigGetCmd{Key: "storage"},
				List: &ConfigListCmd{},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.args.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

// TestMatchEntry tests id resolution including prefixes.
func TestMatchEntry(t *testing.T) {
	mk := func(id string) domain.Entry {
		payload, _ := domain.NewText("content of " + id)
		return domain.Entry{ID: id, Content: payload}
	}
	entries := []domain.Entry{mk("abc123"), mk("abc456"), mk("xyz789")}

	tests := []struct {
		name    string
		id      string
		wantID  string
		wantErr bool
	}{
		{name: "exact match", id: "abc123", wantID: "abc123"},
		{name: "unique prefix", id: "xyz", wantID: "xyz789"},
		{name: "ambiguous prefix", id: "abc", wantErr: true},
		{name: "no match", id: "zzz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := matchEntry(entries, tt.id)
			if tt.wantErr {
				if err == nil {
					t.Errorf("matchEntry(%q) = %q, want error", tt.id, got.ID)
				}
				return
			}
			if err != nil {
				t.Fatalf("matchEntry(%q) error: %v", tt.id, err)
			}
			if got.ID != tt.wantID {
				t.Errorf("matchEntry(%q) = %q, want %q", tt.id, got.ID, tt.wantID)
			}
		})
	}
}

// TestFormatAge tests the relative timestamps shown by list.
func TestFormatAge(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want string
	}{
		{500 * time.Millisecond, "now"},
		{42 * time.Second, "42s ago"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{49 * time.Hour, "2d ago"},
	}

	for _, tt := range tests {
		if got := formatAge(tt.age); got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.age, got, tt.want)
		}
	}
}

// TestListOffline tests that list falls back to the history document
// when no watcher answers.
func TestListOffline(t *testing.T) {
	cfg := offlineConfig(t)
	seedHistory(t, cfg, "first copy", "second copy")

	c, out := newTestCLI(t, cfg)
	if err := c.runList(&ListCmd{}); err != nil {
		t.Fatalf("runList() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("list printed %d lines, want 2:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "second copy") {
		t.Errorf("first line = %q, want the newest entry", lines[0])
	}
	if !strings.Contains(lines[1], "first copy") {
		t.Errorf("second line = %q, want the oldest entry", lines[1])
	}
}

// TestListOfflineLimit tests the limit flag on the offline path.
func TestListOfflineLimit(t *testing.T) {
	cfg := offlineConfig(t)
	seedHistory(t, cfg, "one", "two", "three")

	c, out := newTestCLI(t, cfg)
	if err := c.runList(&ListCmd{Limit: 1}); err != nil {
		t.Fatalf("runList() error: %v", err)
	}

	output := strings.TrimSpace(out.String())
	if strings.Count(output, "\n") != 0 {
		t.Fatalf("limited list printed more than one line:\n%s", output)
	}
	if !strings.Contains(output, "three") {
		t.Errorf("limited list = %q, want the newest entry", output)
	}
}

// TestListJSON tests that --json emits the raw document shape.
func TestListJSON(t *testing.T) {
	cfg := offlineConfig(t)
	seedHistory(t, cfg, "as json")

	c, out := newTestCLI(t, cfg)
	if err := c.runList(&ListCmd{JSON: true}); err != nil {
		t.Fatalf("runList() error: %v", err)
	}

	var entries []domain.Entry
	if err := json.Unmarshal(out.Bytes(), &entries); err != nil {
		t.Fatalf("output is not a history document: %v\n%s", err, out.String())
	}
	if len(entries) != 1 || entries[0].Content.Value != "as json" {
		t.Errorf("decoded %d entries, want the seeded one", len(entries))
	}
}

// TestListJSONEmpty tests that an empty history prints as an array.
func TestListJSONEmpty(t *testing.T) {
	cfg := offlineConfig(t)

	c, out := newTestCLI(t, cfg)
	if err := c.runList(&ListCmd{JSON: true}); err != nil {
		t.Fatalf("runList() error: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "[]" {
		t.Errorf("output = %q, want %q", got, "[]")
	}
}

// TestListEmptyMessage tests the hint shown when nothing was recorded.
func TestListEmptyMessage(t *testing.T) {
	cfg := offlineConfig(t)

	c, out := newTestCLI(t, cfg)
	if err := c.runList(&ListCmd{}); err != nil {
		t.Fatalf("runList() error: %v", err)
	}
	if !strings.Contains(out.String(), "History is empty.") {
		t.Errorf("output = %q, want the empty-history hint", out.String())
	}
}

// TestClearOffline tests clearing the history document directly.
func TestClearOffline(t *testing.T) {
	cfg := offlineConfig(t)
	seedHistory(t, cfg, "one", "two")

	c, out := newTestCLI(t, cfg)
	if err := c.runClear(&ClearCmd{Force: true}); err != nil {
		t.Fatalf("runClear() error: %v", err)
	}

	if !strings.Contains(out.String(), "Cleared 2 item(s)") {
		t.Errorf("output = %q, want cleared confirmation", out.String())
	}

	entries, err := filestore.New(cfg.HistoryLocation).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("history holds %d entries after clear, want 0", len(entries))
	}
}

// TestClearCancelled tests that answering no keeps the history.
func TestClearCancelled(t *testing.T) {
	cfg := offlineConfig(t)
	seedHistory(t, cfg, "survivor")

	c, out := newTestCLI(t, cfg)
	c.in = strings.NewReader("n\n")

	if err := c.runClear(&ClearCmd{}); err != nil {
		t.Fatalf("runClear() error: %v", err)
	}
	if !strings.Contains(out.String(), "Cancelled.") {
		t.Errorf("output = %q, want cancellation notice", out.String())
	}

	entries, err := filestore.New(cfg.HistoryLocation).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("history holds %d entries after cancel, want 1", len(entries))
	}
}

// TestRestoreViaWatcher tests the restore round trip against a live
// control API.
func TestRestoreViaWatcher(t *testing.T) {
	board := mockboard.New()
	hist := history.NewManager(memstore.New(), board)
	payload, _ := domain.NewText("bring me back")
	entry := hist.Capture(payload)

	srv := httptest.NewServer(httpserver.New("127.0.0.1:0", hist).Handler())
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.ListenAddr = strings.TrimPrefix(srv.URL, "http://")

	c, out := newTestCLI(t, cfg)
	if err := c.runRestore(&RestoreCmd{ID: entry.ID[:8]}); err != nil {
		t.Fatalf("runRestore() error: %v", err)
	}

	if board.ReadText() != "bring me back" {
		t.Errorf("clipboard text = %q, want %q", board.ReadText(), "bring me back")
	}
	if !strings.Contains(out.String(), "Restored:") {
		t.Errorf("output = %q, want restore confirmation", out.String())
	}
}

// TestRestoreWithoutWatcher tests that restore refuses to run when no
// watcher answers.
func TestRestoreWithoutWatcher(t *testing.T) {
	cfg := offlineConfig(t)

	c, _ := newTestCLI(t, cfg)
	err := c.runRestore(&RestoreCmd{ID: "whatever"})
	if err == nil {
		t.Fatal("runRestore() = nil, want error")
	}
	if !strings.Contains(err.Error(), "no running watcher") {
		t.Errorf("error = %v, want a no-running-watcher hint", err)
	}
}

// TestConfigCommands tests the set, get, and list cycle over a temp
// config file.
func TestConfigCommands(t *testing.T) {
	cfg := config.DefaultConfig()
	c, out := newTestCLI(t, cfg)

	if err := c.runConfig(&ConfigCmd{Set: &ConfigSetCmd{Key: "poll-interval-ms", Value: "500"}}); err != nil {
		t.Fatalf("config set error: %v", err)
	}
	if !strings.Contains(out.String(), "Set poll-interval-ms = 500") {
		t.Errorf("set output = %q, want confirmation", out.String())
	}

	out.Reset()
	if err := c.runConfig(&ConfigCmd{Get: &ConfigGetCmd{Key: "poll-interval-ms"}}); err != nil {
		t.Fatalf("config get error: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "500" {
		t.Errorf("get output = %q, want %q", got, "500")
	}

	out.Reset()
	if err := c.runConfig(&ConfigCmd{List: &ConfigListCmd{}}); err != nil {
		t.Fatalf("config list error: %v", err)
	}
	for _, key := range []string{"poll-interval-ms", "storage", "listen-addr", "log-level"} {
		if !strings.Contains(out.String(), key) {
			t.Errorf("list output missing key %q:\n%s", key, out.String())
		}
	}
}

// TestConfigRejectsInvalid tests that bad values never reach the file.
func TestConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"poll-interval-ms", "not-a-number"},
		{"poll-interval-ms", "50"},
		{"storage", "redis"},
		{"log-level", "loud"},
		{"unknown-key", "anything"},
	}

	cfg := config.DefaultConfig()
	c, _ := newTestCLI(t, cfg)

	for _, tt := range tests {
		if err := c.runConfig(&ConfigCmd{Set: &ConfigSetCmd{Key: tt.key, Value: tt.value}}); err == nil {
			t.Errorf("config set %s=%s succeeded, want error", tt.key, tt.value)
		}
	}
}

// TestExecuteDefaultsToList tests that a bare invocation behaves like
// the list command.
func TestExecuteDefaultsToList(t *testing.T) {
	cfg := offlineConfig(t)

	c, out := newTestCLI(t, cfg)
	if err := c.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(out.String(), "History is empty.") {
		t.Errorf("output = %q, want the empty-history hint", out.String())
	}
}
