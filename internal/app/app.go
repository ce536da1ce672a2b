// Package app implements the application layer for kiln.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"go.trai.ch/kiln/internal/adapters/devserver" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/scheduler"
	"go.trai.ch/kiln/internal/engine/tasks"
	"go.trai.ch/zerr"
)

// Options are the process-wide options the App runs with.
type Options struct {
	Mode domain.BuildMode
	Addr string
	// Dir is the project directory. Source globs and destination roots are relative to it.
	Dir string
}

// App represents the main application logic.
type App struct {
	opts     Options
	loader   ports.ConfigLoader
	resolver ports.InputResolver
	writer   ports.OutputWriter
	watcher  ports.Watcher
	server   ports.DevServer
	logger   ports.Logger
	out      io.Writer
	// tracer overrides the tracer built for every run.
	tracer ports.Tracer
}

// New creates a new App instance.
func New(
	opts Options,
	loader ports.ConfigLoader,
	resolver ports.InputResolver,
	writer ports.OutputWriter,
	watcher ports.Watcher,
	server ports.DevServer,
	logger ports.Logger,
) *App {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Addr == "" {
		opts.Addr = domain.DefaultAddr
	}
	return &App{
		opts:     opts,
		loader:   loader,
		resolver: resolver,
		writer:   writer,
		watcher:  watcher,
		server:   server,
		logger:   logger,
		out:      os.Stdout,
	}
}

// WithOutput sets where task progress is printed.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithTracer replaces the tracer that reports task progress to the output.
func (a *App) WithTracer(t ports.Tracer) *App {
	a.tracer = t
	return a
}

// Mode returns the build mode the App runs in.
func (a *App) Mode() domain.BuildMode {
	return a.opts.Mode
}

// Run executes the named task. Cancellation of ctx ends long-running tasks without an
// error.
func (a *App) Run(ctx context.Context, name string) error {
	layout, err := a.loader.Load(a.opts.Dir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	graph := domain.DefaultGraph()
	if _, err := graph.Task(name); err != nil {
		return err
	}

	plan := layout.Resolve(a.opts.Mode).Under(a.opts.Dir)

	var reloader ports.Reloader = devserver.NopReloader{}
	if graph.Reaches(name, domain.TaskServe) {
		reloader = a.server
	}

	tp := telemetry.Setup(linear.NewRenderer(a.out))
	defer func() { _ = tp.Shutdown(context.WithoutCancel(ctx)) }()

	tracer := a.tracer
	if tracer == nil {
		tracer = telemetry.NewOTelTracerFromProvider(tp, telemetry.InstrumentationName)
	}

	sched, err := scheduler.NewScheduler(scheduler.Config{
		Graph: graph,
		Plan:  plan,
		Tasks: tasks.New(plan, tasks.Deps{
			Resolver: a.resolver,
			Writer:   a.writer,
			Reloader: reloader,
			Logger:   a.logger,
		}),
		Dir:      a.opts.Dir,
		Addr:     a.opts.Addr,
		Resolver: a.resolver,
		Writer:   a.writer,
		Watcher:  a.watcher,
		Server:   a.server,
		Tracer:   tracer,
		Logger:   a.logger,
	})
	if err != nil {
		return err
	}

	a.logger.Info("using " + a.opts.Mode.String() + " mode, writing to " + plan.Root)

	if err := sched.Run(ctx, name); err != nil {
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrBuildExecutionFailed.Error()),
			"failed_tasks", strings.Join(sched.Failed(), ", "))
	}
	return nil
}
