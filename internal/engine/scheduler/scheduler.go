// Package scheduler orchestrates the asset group tasks along the task graph.
package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/adapters/watcher"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	// StatusPending indicates the task has not run yet.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusCompleted indicates the last execution finished successfully.
	StatusCompleted TaskStatus = "Completed"
	// StatusFailed indicates the last execution failed.
	StatusFailed TaskStatus = "Failed"
)

// Config holds the collaborators of a Scheduler.
type Config struct {
	// Graph defaults to domain.DefaultGraph.
	Graph *domain.Graph
	Plan  domain.Plan
	Tasks []ports.GroupTask

	// Dir is the project directory; the source root is watched below it.
	Dir  string
	Addr string

	Resolver ports.InputResolver
	Writer   ports.OutputWriter
	Watcher  ports.Watcher
	Server   ports.DevServer
	// Tracer defaults to a tracer that reports nothing.
	Tracer ports.Tracer
	Logger ports.Logger

	// DebounceWindow defaults to watcher.DefaultDebounceWindow.
	DebounceWindow time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Scheduler runs named tasks of the graph and owns the incremental run state.
type Scheduler struct {
	cfg   Config
	tasks map[domain.AssetGroup]ports.GroupTask
	locks map[domain.AssetGroup]*sync.Mutex
	state *domain.RunState

	mu         sync.RWMutex
	taskStatus map[string]TaskStatus
}

// NewScheduler creates a Scheduler. It validates the graph and returns an error if
// validation fails.
func NewScheduler(cfg Config) (*Scheduler, error) {
	if cfg.Graph == nil {
		cfg.Graph = domain.DefaultGraph()
	}
	if err := cfg.Graph.Validate(); err != nil {
		return nil, err
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = watcher.DefaultDebounceWindow
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Tracer == nil {
		cfg.Tracer = telemetry.NewNoOpTracer()
	}

	s := &Scheduler{
		cfg:        cfg,
		tasks:      make(map[domain.AssetGroup]ports.GroupTask, len(cfg.Tasks)),
		locks:      make(map[domain.AssetGroup]*sync.Mutex, len(cfg.Tasks)),
		state:      domain.NewRunState(),
		taskStatus: make(map[string]TaskStatus),
	}
	for _, t := range cfg.Tasks {
		s.tasks[t.Group()] = t
		s.locks[t.Group()] = &sync.Mutex{}
	}
	for _, name := range cfg.Graph.Names() {
		s.taskStatus[name] = StatusPending
	}
	return s, nil
}

// State returns the run state shared by every group run.
func (s *Scheduler) State() *domain.RunState {
	return s.state
}

// Status returns the status of the named task.
func (s *Scheduler) Status(name string) TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taskStatus[name]
}

// Failed returns the tasks whose last execution failed, in graph order.
func (s *Scheduler) Failed() []string {
	var failed []string
	for _, name := range s.cfg.Graph.Names() {
		if s.Status(name) == StatusFailed {
			failed = append(failed, name)
		}
	}
	return failed
}

func (s *Scheduler) updateStatus(name string, status TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[name] = status
}

// Run executes the named task and, depending on its kind, its steps.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	task, err := s.cfg.Graph.Task(name)
	if err != nil {
		return err
	}

	ctx, span := s.cfg.Tracer.Start(ctx, name)
	defer span.End()

	s.updateStatus(name, StatusRunning)
	if err := s.execute(ctx, task); err != nil {
		s.updateStatus(name, StatusFailed)
		span.RecordError(err)
		return err
	}
	s.updateStatus(name, StatusCompleted)
	return nil
}

func (s *Scheduler) execute(ctx context.Context, task domain.Task) error {
	switch task.Kind {
	case domain.KindSeries:
		for _, step := range task.Steps {
			if err := s.Run(ctx, step); err != nil {
				return err
			}
		}
		return nil
	case domain.KindParallel:
		return s.parallel(ctx, task.Steps)
	default:
		return s.leaf(ctx, task.Name)
	}
}

// parallel runs steps concurrently. The first failure cancels the remaining steps;
// every failure other than the resulting cancellations is reported.
func (s *Scheduler) parallel(ctx context.Context, steps []string) error {
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	var errs []error
	for _, step := range steps {
		g.Go(func() error {
			err := s.Run(gctx, step)
			if err != nil && (gctx.Err() == nil || !errors.Is(err, context.Canceled)) {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return err
		})
	}
	_ = g.Wait()

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return ctx.Err()
}

func (s *Scheduler) leaf(ctx context.Context, name string) error {
	switch name {
	case domain.TaskClean:
		return s.Clean(ctx)
	case domain.TaskWatch:
		return s.Watch(ctx)
	case domain.TaskServe:
		return s.Serve(ctx)
	}

	group, err := domain.ParseGroup(name)
	if err != nil {
		return err
	}
	return s.RunGroup(ctx, group)
}

// RunGroup runs the task of group with the start of its last successful run and records
// the start of this run when it succeeds. Runs of one group never overlap.
func (s *Scheduler) RunGroup(ctx context.Context, group domain.AssetGroup) error {
	task, ok := s.tasks[group]
	if !ok {
		return zerr.With(domain.ErrUnknownGroup, "group", string(group))
	}

	lock := s.locks[group]
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	start := s.cfg.Now()
	if err := task.Run(ctx, s.state.LastRun(group)); err != nil {
		return err
	}
	s.state.Record(group, start)
	return nil
}

// Clean removes every destination root and forgets all recorded runs.
func (s *Scheduler) Clean(_ context.Context) error {
	if err := s.cfg.Writer.RemoveAll(s.cfg.Plan.Roots...); err != nil {
		return err
	}
	s.state.Reset()
	return nil
}

// Serve runs the development server over the destination root of the current mode
// until ctx is cancelled.
func (s *Scheduler) Serve(ctx context.Context) error {
	if s.cfg.Server == nil {
		return zerr.New("no development server configured")
	}
	return s.cfg.Server.Serve(ctx, s.cfg.Addr, s.cfg.Plan.Root)
}

// Watch re-runs the groups whose watch globs match changed files until ctx is
// cancelled. Changes are debounced per group. Failed runs are logged and watching
// continues.
func (s *Scheduler) Watch(ctx context.Context) error {
	root := filepath.Join(s.cfg.Dir, s.cfg.Plan.SourceRoot)
	if err := s.cfg.Watcher.Start(ctx, root); err != nil {
		return err
	}
	defer func() { _ = s.cfg.Watcher.Stop() }()

	debouncers := make(map[domain.AssetGroup]*watcher.Debouncer, len(s.tasks))
	for _, group := range domain.Groups {
		if _, ok := s.tasks[group]; !ok {
			continue
		}
		debouncers[group] = watcher.NewDebouncer(s.cfg.DebounceWindow, func([]string) {
			s.rerun(ctx, group)
		})
	}

	s.cfg.Logger.Info("watching " + root)

	for event := range s.cfg.Watcher.Events() {
		for group, d := range debouncers {
			if s.cfg.Resolver.Match(s.cfg.Plan.Groups[group].Watch, event.Path) {
				d.Add(event.Path)
			}
		}
	}

	for _, d := range debouncers {
		d.Stop()
	}
	// Wait for runs that are still in flight.
	for _, lock := range s.locks {
		lock.Lock()
		lock.Unlock() //nolint:staticcheck // Only waits for the holder.
	}
	return nil
}

func (s *Scheduler) rerun(ctx context.Context, group domain.AssetGroup) {
	if ctx.Err() != nil {
		return
	}
	if err := s.Run(ctx, string(group)); err != nil && ctx.Err() == nil {
		s.cfg.Logger.Error(err)
	}
}
