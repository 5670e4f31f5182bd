package cli

import (
	"fmt"

	"github.com/clipkeep/clipkeep/internal/logging"
	"github.com/clipkeep/clipkeep/internal/version"
)

// Args represents the top-level command structure
type Args struct {
	Watch   *WatchCmd   `arg:"subcommand:watch" help:"Watch the clipboard and record every change"`
	List    *ListCmd    `arg:"subcommand:list" help:"List recorded history entries"`
	Restore *RestoreCmd `arg:"subcommand:restore" help:"Copy an entry back onto the clipboard"`
	Clear   *ClearCmd   `arg:"subcommand:clear" help:"Delete all history entries"`
	Config  *ConfigCmd  `arg:"subcommand:config" help:"Inspect or change configuration"`

	ConfigPath string `arg:"--config" help:"Path to the configuration file"`
	LogLevel   string `arg:"--log-level" help:"Override the configured log level (debug, info, warn, error)"`
	LogFormat  string `arg:"--log-format" help:"Override the configured log format (auto, text, json)"`
}

// WatchCmd represents the 'clipkeep watch' command (runs the daemon)
type WatchCmd struct{}

// ListCmd represents the 'clipkeep list' command
type ListCmd struct {
	Limit int  `arg:"-n,--limit" help:"Show at most this many entries (0 = all)"`
	JSON  bool `arg:"--json" help:"Print the raw history document instead of a table"`
}

// RestoreCmd represents the 'clipkeep restore' command
type RestoreCmd struct {
	ID string `arg:"positional,required" help:"Entry id (a unique prefix is enough)"`
}

// ClearCmd represents the 'clipkeep clear' command
type ClearCmd struct {
	Force     bool `arg:"-f,--force" help:"Skip the confirmation prompt"`
	Clipboard bool `arg:"-c,--clipboard" help:"Also empty the system clipboard"`
}

// ConfigCmd represents the 'clipkeep config' command
type ConfigCmd struct {
	Get  *ConfigGetCmd  `arg:"subcommand:get" help:"Print one configuration value"`
	Set  *ConfigSetCmd  `arg:"subcommand:set" help:"Change one configuration value"`
	List *ConfigListCmd `arg:"subcommand:list" help:"Print all configuration values"`
}

// ConfigGetCmd represents the 'clipkeep config get' command
type ConfigGetCmd struct {
	Key string `arg:"positional,required" help:"Configuration key"`
}

// ConfigSetCmd represents the 'clipkeep config set' command
type ConfigSetCmd struct {
	Key   string `arg:"positional,required" help:"Configuration key"`
	Value string `arg:"positional,required" help:"New value"`
}

// ConfigListCmd represents the 'clipkeep config list' command
type ConfigListCmd struct{}

// Description returns the program description
func (Args) Description() string {
	return "clipkeep - records your clipboard history and copies any entry back on demand"
}

// Version returns the program version
func (Args) Version() string {
	return version.String()
}

// Epilogue returns additional help text
func (Args) Epilogue() string {
	return `Examples:
  # Run the watcher (records clipboard changes until stopped)
  clipkeep watch

  # Inspect the history
  clipkeep list                    # newest entries first
  clipkeep list -n 10              # only the ten newest
  clipkeep list --json             # raw history document

  # Work with entries
  clipkeep restore 3f2a9c1e        # copy an entry back (id prefix)
  clipkeep clear -f                # wipe the history without asking

  # Configuration
  clipkeep config list
  clipkeep config set poll-interval-ms 500

For more information, visit: https://github.com/clipkeep/clipkeep`
}

// Validate performs validation on the parsed arguments
func (args *Args) Validate() error {
	if args.LogLevel != "" {
		if _, err := logging.ParseLevel(args.LogLevel); err != nil {
			return err
		}
	}
	if args.LogFormat != "" {
		if _, err := logging.ParseFormat(args.LogFormat); err != nil {
			return err
		}
	}

	if args.List != nil {
		return args.List.Validate()
	}
	if args.Config != nil {
		return args.Config.Validate()
	}
	return nil
}

// Validate validates list command arguments
func (l *ListCmd) Validate() error {
	if l.Limit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}
	return nil
}

// Validate validates config command arguments
func (c *ConfigCmd) Validate() error {
	given := 0
	if c.Get != nil {
		given++
	}
	if c.Set != nil {
		given++
	}
	if c.List != nil {
		given++
	}
	if given == 0 {
		return fmt.Errorf("no config subcommand specified (get, set, or list)")
	}
	if given > 1 {
		return fmt.Errorf("only one config subcommand may be given")
	}
	return nil
}
