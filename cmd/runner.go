package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/sd3v/wrapped/internal/auth"
	"github.com/sd3v/wrapped/internal/shared"
	"github.com/sd3v/wrapped/internal/spotify"
	"github.com/sd3v/wrapped/internal/ui"
	"github.com/sd3v/wrapped/internal/wrapped"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	store    auth.CredentialStore
	manager  *auth.Manager
	service  ui.SnapshotService
	logger   *log.Logger
	output   io.Writer
	teardown func() error
}

// RunnerOpts contains configuration options for creating a Runner.
// Unset store/manager/service fields are wired lazily from the database
// the first time a command needs a session.
type RunnerOpts struct {
	Config  *shared.Config
	Store   auth.CredentialStore
	Manager *auth.Manager
	Service ui.SnapshotService
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		store:   opts.Store,
		manager: opts.Manager,
		service: opts.Service,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, wrappedCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// ensureSession lazily opens the credential database and wires the
// authentication manager, API client, and aggregator behind it.
func (r *Runner) ensureSession() error {
	if r.manager != nil && r.service != nil {
		return nil
	}

	if r.store == nil {
		db, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			db.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		r.store = auth.NewSQLiteStore(db)
		r.teardown = db.Close
	}

	if r.manager == nil {
		r.manager = auth.NewManager(r.config.Credentials.Spotify, r.store, shared.WithLogger(r.logger, "component", "auth"))
	}
	if r.service == nil {
		client := spotify.NewClient(r.manager, shared.WithLogger(r.logger, "component", "spotify"))
		r.service = wrapped.NewAggregator(client, shared.WithLogger(r.logger, "component", "wrapped"))
	}
	return nil
}

// reloadConfig replaces the runner's config from the given path when the
// file is readable, keeping the current settings otherwise. Commands that
// declare the config flag call this before using credentials.
func (r *Runner) reloadConfig(path string) {
	if path == "" {
		return
	}
	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, keeping current settings", "path", path, "error", err)
		return
	}
	r.config = config
}

// Close releases the lazily opened database, if any.
func (r *Runner) Close() error {
	if r.teardown != nil {
		return r.teardown()
	}
	return nil
}

// snapshot fetches a wrapped snapshot for the given time range string.
func (r *Runner) snapshot(ctx context.Context, rangeArg string) (*wrapped.Snapshot, error) {
	timeRange, err := wrapped.ParseTimeRange(rangeArg)
	if err != nil {
		return nil, err
	}
	if err := r.ensureSession(); err != nil {
		return nil, err
	}

	r.logger.Info("building snapshot", "time_range", timeRange)
	return r.service.Snapshot(ctx, timeRange, nil)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
