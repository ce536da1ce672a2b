package domain

// Names of the built-in tasks that are not asset groups.
const (
	TaskClean      = "clean"
	TaskBuild      = "build"
	TaskCleanBuild = "cbuild"
	TaskWatch      = "watch"
	TaskServe      = "serve"
	TaskDevelop    = "develop"
	TaskDefault    = "default"
)

// TaskKind describes how a task executes its steps.
type TaskKind uint8

const (
	// KindLeaf tasks perform work themselves and have no steps.
	KindLeaf TaskKind = iota
	// KindSeries tasks run their steps one after another, stopping at the first failure.
	KindSeries
	// KindParallel tasks run their steps concurrently and wait for all of them.
	KindParallel
)

// String returns a short label for the kind.
func (k TaskKind) String() string {
	switch k {
	case KindSeries:
		return "series"
	case KindParallel:
		return "parallel"
	default:
		return "leaf"
	}
}

// Task is a named node in the task graph.
type Task struct {
	Name  string
	Kind  TaskKind
	Steps []string
}

// Leaf declares a task that does its own work.
func Leaf(name string) Task {
	return Task{Name: name, Kind: KindLeaf}
}

// Series declares a task running steps in order.
func Series(name string, steps ...string) Task {
	return Task{Name: name, Kind: KindSeries, Steps: steps}
}

// Parallel declares a task running steps concurrently.
func Parallel(name string, steps ...string) Task {
	return Task{Name: name, Kind: KindParallel, Steps: steps}
}
