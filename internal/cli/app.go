package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophdiary/internal/backup"
	"github.com/dmitrijs2005/gophdiary/internal/buildinfo"
	"github.com/dmitrijs2005/gophdiary/internal/config"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/metrics"
	"github.com/dmitrijs2005/gophdiary/internal/storage"
)

// App is everything a command needs once configuration has been resolved.
type App struct {
	cfg     *config.Config
	store   *storage.Store
	backups *backup.Service
	log     logging.Logger
	reg     *prometheus.Registry
	closer  io.Closer
}

var (
	loadConfigFn = config.Load
	openAppFn    = openApp
)

func openApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log, closer, err := logging.New(cfg.LoggingOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	reg := prometheus.NewRegistry()
	col := metrics.NewCollector(reg)

	st := storage.New(storage.Options{
		Dir:      cfg.DataDir,
		Logger:   log,
		Recorder: col,
	})
	if err := st.Init(ctx); err != nil {
		_ = closer.Close()
		return nil, err
	}

	return &App{
		cfg:     cfg,
		store:   st,
		backups: backup.NewService(st, log, col),
		log:     log,
		reg:     reg,
		closer:  closer,
	}, nil
}

func (a *App) Close() error {
	return errors.Join(a.store.Close(), a.closer.Close())
}

// commandDeps is shared by every command constructor. Inside the shell, app
// is set and reused for each line instead of opening the store again.
type commandDeps struct {
	in    io.Reader
	out   io.Writer
	build buildinfo.Info
	app   *App
	now   func() time.Time
}

func (d *commandDeps) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return loadConfigFn(config.OptionsFromFlags(cmd.Flags()))
}

// withApp resolves configuration, opens the store, runs fn under the
// configured timeout and maps the result to an exit code.
func (d *commandDeps) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *App) error) error {
	a := d.app
	if a == nil {
		cfg, err := d.loadConfig(cmd)
		if err != nil {
			return mapCommandError(fmt.Errorf("load config: %w", err))
		}
		a, err = openAppFn(cmd.Context(), cfg)
		if err != nil {
			return mapCommandError(err)
		}
		defer a.Close()
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Timeout)
	defer cancel()
	return mapCommandError(fn(ctx, a))
}
