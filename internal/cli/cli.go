// Package cli wires the clipkeep commands together: the watcher
// daemon, the client commands that talk to it, and the offline
// fallbacks that read the history document directly.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/clipkeep/clipkeep/internal/clipboard/sysboard"
	"github.com/clipkeep/clipkeep/internal/config"
	"github.com/clipkeep/clipkeep/internal/domain"
	"github.com/clipkeep/clipkeep/internal/history"
	"github.com/clipkeep/clipkeep/internal/logging"
	"github.com/clipkeep/clipkeep/internal/paths"
	"github.com/clipkeep/clipkeep/internal/store"
	"github.com/clipkeep/clipkeep/internal/store/dbstore"
	"github.com/clipkeep/clipkeep/internal/store/filestore"
)

// CLI handles the command-line interface
type CLI struct {
	args     *Args
	manager  *config.Manager
	cfg      *config.Config
	levelVar *slog.LevelVar
	out      io.Writer
	in       io.Reader
}

// New creates a CLI instance from parsed arguments: it resolves the
// config file, loads it, and installs the logger.
func New(args *Args) (*CLI, error) {
	if args == nil {
		args = &Args{}
	}

	var manager *config.Manager
	if args.ConfigPath != "" {
		manager = config.NewManagerWithPath(args.ConfigPath)
	} else {
		m, err := config.NewManager()
		if err != nil {
			return nil, err
		}
		manager = m
	}

	cfg, err := manager.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	// Command-line overrides win over the file.
	if args.LogLevel != "" {
		cfg.LogLevel = args.LogLevel
	}
	if args.LogFormat != "" {
		cfg.LogFormat = args.LogFormat
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	levelVar := logging.Setup(level, format, os.Stderr)

	return &CLI{
		args:     args,
		manager:  manager,
		cfg:      cfg,
		levelVar: levelVar,
		out:      os.Stdout,
		in:       os.Stdin,
	}, nil
}

// Execute runs the command selected by the parsed arguments.
func (c *CLI) Execute(ctx context.Context) error {
	if err := c.args.Validate(); err != nil {
		return err
	}

	switch {
	case c.args.Watch != nil:
		return c.runWatch(ctx)
	case c.args.List != nil:
		return c.runList(c.args.List)
	case c.args.Restore != nil:
		return c.runRestore(c.args.Restore)
	case c.args.Clear != nil:
		return c.runClear(c.args.Clear)
	case c.args.Config != nil:
		return c.runConfig(c.args.Config)
	default:
		// Bare invocation shows the history.
		return c.runList(&ListCmd{})
	}
}

// runList prints the history, newest first.
func (c *CLI) runList(cmd *ListCmd) error {
	entries, err := c.fetchEntries()
	if err != nil {
		return err
	}
	if cmd.Limit > 0 && cmd.Limit < len(entries) {
		entries = entries[:cmd.Limit]
	}

	if cmd.JSON {
		if entries == nil {
			entries = []domain.Entry{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("encode history: %w", err)
		}
		fmt.Fprintln(c.out, string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(c.out, "History is empty.")
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "Start recording clipboard changes with:")
		fmt.Fprintln(c.out, "  clipkeep watch")
		return nil
	}

	for i, e := range entries {
		fmt.Fprintf(c.out, "%3d  %s  %-8s  %s\n",
			i, shortID(e.ID), formatAge(time.Since(e.Date)),
			history.Preview(e.Content, history.DefaultPreviewLength))
	}
	return nil
}

// runRestore copies an entry back onto the clipboard through a running
// watcher. Restoring needs the watcher: it is the watcher that must
// skip the clipboard change the restore causes.
func (c *CLI) runRestore(cmd *RestoreCmd) error {
	client := NewClient(c.cfg.ListenAddr)

	entries, err := client.List()
	if err != nil {
		return fmt.Errorf("no running watcher at %s (start one with 'clipkeep watch'): %w",
			c.cfg.ListenAddr, err)
	}

	entry, err := matchEntry(entries, cmd.ID)
	if err != nil {
		return err
	}

	if err := client.Restore(entry.ID); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Restored: %s\n", history.Preview(entry.Content, history.DefaultPreviewLength))
	return nil
}

// runClear deletes all history entries, preferring a running watcher
// so that its in-memory history and subscribers stay in sync.
func (c *CLI) runClear(cmd *ClearCmd) error {
	entries, err := c.fetchEntries()
	if err != nil {
		return err
	}

	if len(entries) == 0 && !cmd.Clipboard {
		fmt.Fprintln(c.out, "History is already empty.")
		return nil
	}

	if len(entries) > 0 && !cmd.Force {
		fmt.Fprintf(c.out, "This will delete %d item(s) from history. Continue? [y/N]: ", len(entries))
		var response string
		fmt.Fscanln(c.in, &response)
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(c.out, "Cancelled.")
			return nil
		}
	}

	client := NewClient(c.cfg.ListenAddr)
	if err := client.Clear(); err != nil {
		// No watcher running; rewrite the history document directly.
		st, err := c.openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Save(nil); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
	}

	if cmd.Clipboard {
		board, err := sysboard.New()
		if err != nil {
			return fmt.Errorf("open system clipboard: %w", err)
		}
		if err := board.Clear(); err != nil {
			return fmt.Errorf("empty system clipboard: %w", err)
		}
	}

	if len(entries) > 0 {
		fmt.Fprintf(c.out, "Cleared %d item(s) from history.\n", len(entries))
	}
	return nil
}

// runConfig handles the 'clipkeep config' command
func (c *CLI) runConfig(cmd *ConfigCmd) error {
	switch {
	case cmd.Get != nil:
		value, err := c.manager.Get(cmd.Get.Key)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, value)
		return nil

	case cmd.Set != nil:
		if err := c.manager.Update(cmd.Set.Key, cmd.Set.Value); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Set %s = %s\n", cmd.Set.Key, cmd.Set.Value)
		return nil

	default:
		values, err := c.manager.List()
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		fmt.Fprintf(c.out, "Configuration (%s):\n", c.manager.ConfigPath())
		for _, key := range keys {
			fmt.Fprintf(c.out, "  %s = %s\n", key, values[key])
		}
		return nil
	}
}

// fetchEntries returns the history from a running watcher, or straight
// from the store when no watcher answers.
func (c *CLI) fetchEntries() ([]domain.Entry, error) {
	client := NewClient(c.cfg.ListenAddr)
	entries, err := client.List()
	if err == nil {
		return entries, nil
	}

	st, err := c.openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	entries, err = st.Load()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return entries, nil
}

// openStore opens the configured history backend.
func (c *CLI) openStore() (store.Store, error) {
	if c.cfg.Storage == config.StorageSQLite {
		path, err := paths.HistoryFile(c.cfg.HistoryLocation, paths.HistoryDBName)
		if err != nil {
			return nil, err
		}
		return dbstore.New(path)
	}

	path, err := paths.HistoryFile(c.cfg.HistoryLocation, paths.HistoryJSONName)
	if err != nil {
		return nil, err
	}
	return filestore.New(path), nil
}

// matchEntry resolves an id or unique id prefix against the history.
func matchEntry(entries []domain.Entry, id string) (domain.Entry, error) {
	var matches []domain.Entry
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
		if strings.HasPrefix(e.ID, id) {
			matches = append(matches, e)
		}
	}

	switch len(matches) {
	case 0:
		return domain.Entry{}, fmt.Errorf("no history entry matches %q", id)
	case 1:
		return matches[0], nil
	default:
		return domain.Entry{}, fmt.Errorf("id %q is ambiguous (%d entries match)", id, len(matches))
	}
}

// shortID returns the first eight characters of an entry id, enough to
// restore by prefix.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// formatAge renders how long ago an entry was captured.
func formatAge(age time.Duration) string {
	switch {
	case age < time.Second:
		return "now"
	case age < time.Minute:
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	}
}
