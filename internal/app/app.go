// Package app implements the application layer for tend.
package app

import (
	"context"
	"io"
	"os"
	"slices"
	"time"

	"github.com/muesli/termenv"
	"go.opentelemetry.io/otel"
	"go.trai.ch/tend/internal/adapters/journal"
	"go.trai.ch/tend/internal/adapters/linear"
	"go.trai.ch/tend/internal/adapters/netadapter"
	"go.trai.ch/tend/internal/adapters/store"
	"go.trai.ch/tend/internal/adapters/telemetry"
	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
	"go.trai.ch/tend/internal/engine/orchestrator"
	"go.trai.ch/tend/internal/engine/runner"
	"go.trai.ch/tend/internal/tasks"
	"go.trai.ch/tend/internal/ui/output"
	"go.trai.ch/tend/internal/ui/report"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.CommandExecutor
	logger       ports.Logger
	files        ports.Files
	volumes      ports.Volumes

	stdout  io.Writer
	stderr  io.Writer
	now     func() time.Time
	profile func() termenv.Profile
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.CommandExecutor,
	log ports.Logger,
	files ports.Files,
	volumes ports.Volumes,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		logger:       log,
		files:        files,
		volumes:      volumes,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		now:          time.Now,
		profile:      output.ColorProfile,
	}
}

// WithOutput redirects the console streams.
// This is primarily used for testing to capture the report.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.profile = func() termenv.Profile { return termenv.Ascii }
	return a
}

// WithClock replaces the time source used for run and task timestamps.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// SetLogJSON switches console logging to JSON when the logger supports it.
func (a *App) SetLogJSON(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// ConfigPath overrides tend.yaml discovery.
	ConfigPath string
	// DryRun describes commands instead of running them and leaves no trace
	// in the journal or the run store.
	DryRun bool
	// Output is the report format.
	Output string
	// Skip names tasks to leave out in addition to tasks.skip.
	Skip []string
}

// Run executes one maintenance run and renders its summary to stdout.
// It returns domain.ErrRunFailed when at least one task ended in Failure.
//
//nolint:cyclop,funlen // orchestration function
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	if err := checkFormat(opts.Output); err != nil {
		return err
	}

	// 1. Load the configuration
	cfg, err := a.loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	// 2. Select the executor
	executor := a.executor
	if opts.DryRun {
		dr, ok := a.executor.(ports.DryRunner)
		if !ok {
			return domain.ErrDryRunUnsupported
		}
		executor = dr.DryRun()
	}

	// 3. Open the journal
	jrnl, closeJournal, err := a.openJournal(cfg, opts.DryRun)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeJournal(); err != nil {
			a.logger.Error(zerr.Wrap(err, "failed to close journal"))
		}
	}()

	// 4. Build the task sequence
	catalog := tasks.Catalog(cfg, tasks.Deps{
		Executor: executor,
		Files:    a.files,
		Volumes:  a.volumes,
		Network:  netadapter.New(executor, cfg.Network),
		Journal:  jrnl,
		DryRun:   opts.DryRun,
		Now:      a.now,
	})
	selected, err := tasks.Select(catalog, slices.Concat(cfg.Tasks.Skip, opts.Skip))
	if err != nil {
		return err
	}

	// 5. Initialize Renderer
	// Command output shares stdout with the text report; a JSON report keeps
	// stdout clean.
	progressOut := a.stdout
	if opts.Output == report.FormatJSON {
		progressOut = a.stderr
	}
	renderer := linear.NewRenderer(progressOut, a.stderr)

	// 6. Initialize Telemetry
	provider := telemetry.NewProvider(telemetry.NewBridge(renderer))
	otel.SetTracerProvider(provider)
	defer func() {
		_ = provider.Shutdown(context.WithoutCancel(ctx))
	}()
	tracer := telemetry.NewOTelTracer(provider).WithRenderer(renderer)

	// 7. Initialize Orchestrator
	orch, err := orchestrator.New(orchestrator.Config{
		Tasks:   selected,
		Runner:  runner.New(jrnl, tracer, runner.WithClock(a.now)),
		Journal: jrnl,
		Tracer:  tracer,
		Clock:   a.now,
	})
	if err != nil {
		return err
	}

	// 8. Run Renderer and Orchestrator concurrently
	var run *domain.MaintenanceRun
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			_ = renderer.Stop()
		}()
		run = orch.Run(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	// 9. Persist and render the summary
	summary := run.Summarize()
	if !opts.DryRun {
		if err := store.NewStore(cfg.Store.Dir).Put(summary); err != nil {
			a.logger.Error(err)
		}
	}

	if err := report.NewWriter(a.stdout, a.profile()).Write(summary, opts.Output); err != nil {
		return err
	}

	if summary.Failed() {
		return domain.ErrRunFailed
	}
	if ctx.Err() != nil {
		return zerr.Wrap(ctx.Err(), domain.ErrRunInterrupted.Error())
	}
	return nil
}

// ListOptions configuration for the Tasks method.
type ListOptions struct {
	ConfigPath string
	Skip       []string
}

// Tasks writes the configured task sequence to stdout.
func (a *App) Tasks(opts ListOptions) error {
	cfg, err := a.loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	catalog := tasks.Catalog(cfg, tasks.Deps{Network: netadapter.New(a.executor, cfg.Network)})
	skip := slices.Concat(cfg.Tasks.Skip, opts.Skip)
	if _, err := tasks.Select(catalog, skip); err != nil {
		return err
	}
	return report.NewWriter(a.stdout, a.profile()).TaskList(catalog, skip)
}

// ReportOptions configuration for the Report method.
type ReportOptions struct {
	ConfigPath string
	// RunID selects a stored run; empty selects the latest one.
	RunID  string
	Output string
}

// Report renders a stored run summary.
func (a *App) Report(opts ReportOptions) error {
	if err := checkFormat(opts.Output); err != nil {
		return err
	}

	cfg, err := a.loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	runs := store.NewStore(cfg.Store.Dir)
	var summary *domain.Summary
	if opts.RunID != "" {
		summary, err = runs.Get(opts.RunID)
	} else {
		summary, err = runs.Latest()
	}
	if err != nil {
		return err
	}
	if summary == nil {
		return domain.ErrRunNotFound
	}

	return report.NewWriter(a.stdout, a.profile()).Write(*summary, opts.Output)
}

func (a *App) loadConfig(path string) (*domain.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get current working directory")
	}
	cfg, err := a.configLoader.Load(cwd, path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

// openJournal opens the file journal with its optional NATS and Kafka
// streams. A dry run records to memory only.
func (a *App) openJournal(cfg *domain.Config, dryRun bool) (ports.Journal, func() error, error) {
	if dryRun {
		return journal.NewMemory(), func() error { return nil }, nil
	}

	jopts := []journal.Option{journal.WithClock(a.now)}
	var streams []*journal.Stream
	if cfg.Journal.NATSURL != "" {
		s, err := journal.DialNATS(cfg.Journal.NATSURL, cfg.Journal.NATSSubject)
		if err != nil {
			a.logger.Warn("journal stream unavailable, continuing without it: " + err.Error())
		} else {
			streams = append(streams, s)
		}
	}
	if len(cfg.Journal.KafkaBrokers) > 0 {
		streams = append(streams, journal.NewKafka(cfg.Journal.KafkaBrokers, cfg.Journal.KafkaTopic))
	}
	for _, s := range streams {
		jopts = append(jopts, journal.WithStream(s))
	}

	j, err := journal.Open(cfg.Log, jopts...)
	if err != nil {
		for _, s := range streams {
			_ = s.Close()
		}
		return nil, nil, err
	}
	return j, j.Close, nil
}

func checkFormat(format string) error {
	if format != "" && !slices.Contains(report.Formats, format) {
		return zerr.With(domain.ErrUnknownOutputFormat, "format", format)
	}
	return nil
}
