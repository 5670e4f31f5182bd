package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/clipkeep/clipkeep/internal/clipboard/sysboard"
	"github.com/clipkeep/clipkeep/internal/config"
	"github.com/clipkeep/clipkeep/internal/history"
	"github.com/clipkeep/clipkeep/internal/httpserver"
	"github.com/clipkeep/clipkeep/internal/logging"
	"github.com/clipkeep/clipkeep/internal/monitor"
	"github.com/clipkeep/clipkeep/internal/version"
)

const shutdownTimeout = 5 * time.Second

// runWatch assembles and runs the watcher daemon: clipboard poller,
// history manager, control API, and config hot reload. It blocks until
// the context is cancelled or a fatal component error occurs.
func (c *CLI) runWatch(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.With("component", "daemon")
	log.Info("starting clipkeep",
		"version", version.Version,
		"storage", c.cfg.Storage,
		"poll_interval", c.cfg.PollInterval(),
		"listen_addr", c.cfg.ListenAddr,
	)

	st, err := c.openStore()
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}

	board, err := sysboard.New()
	if err != nil {
		st.Close()
		return fmt.Errorf("open system clipboard: %w", err)
	}

	hist := history.NewManager(st, board)
	defer func() {
		if err := hist.Close(); err != nil {
			log.Warn("could not close history store", "error", err)
		}
	}()

	mon := monitor.New(board, hist, c.cfg.PollInterval())
	server := httpserver.New(c.cfg.ListenAddr, hist)
	watcher := config.NewWatcher(c.manager)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		mon.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		watcher.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case cfg := <-watcher.Updates():
				c.applyConfigUpdate(cfg, mon, log)
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errCh <- fmt.Errorf("control api: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case runErr = <-errCh:
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Warn("control api did not stop cleanly", "error", err)
	}

	wg.Wait()
	log.Info("stopped")
	return runErr
}

// applyConfigUpdate carries a reloaded configuration into the running
// daemon. Poll interval and log level apply live; the rest needs a
// restart.
func (c *CLI) applyConfigUpdate(cfg *config.Config, mon *monitor.Monitor, log *slog.Logger) {
	if cfg.PollIntervalMS != c.cfg.PollIntervalMS {
		mon.SetInterval(cfg.PollInterval())
	}

	if cfg.LogLevel != c.cfg.LogLevel {
		if level, err := logging.ParseLevel(cfg.LogLevel); err == nil {
			c.levelVar.Set(level)
			log.Info("log level changed", "level", cfg.LogLevel)
		}
	}

	if cfg.Storage != c.cfg.Storage ||
		cfg.HistoryLocation != c.cfg.HistoryLocation ||
		cfg.ListenAddr != c.cfg.ListenAddr ||
		cfg.LogFormat != c.cfg.LogFormat {
		log.Info("some configuration changes need a restart to take effect")
	}

	c.cfg = cfg
}
