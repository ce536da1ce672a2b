// Package domain contains the core domain models of the asset pipeline: build modes,
// asset groups, the path layout, run state and the task graph.
package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph holds named task definitions and the references between them.
type Graph struct {
	tasks map[string]Task
	order []string
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		tasks: make(map[string]Task),
	}
}

// AddTask adds a task to the graph.
// It returns an error if a task with the same name already exists.
func (g *Graph) AddTask(t Task) error {
	if _, exists := g.tasks[t.Name]; exists {
		return zerr.With(ErrTaskAlreadyExists, "task_name", t.Name)
	}
	g.tasks[t.Name] = t
	g.order = append(g.order, t.Name)
	return nil
}

// Task returns the definition registered under name.
func (g *Graph) Task(name string) (Task, error) {
	t, ok := g.tasks[name]
	if !ok {
		return Task{}, zerr.With(ErrTaskNotFound, "task_name", name)
	}
	return t, nil
}

// Names returns the names of all tasks in insertion order.
func (g *Graph) Names() []string {
	return slices.Clone(g.order)
}

// Validate checks that every referenced task exists and that no task reaches itself.
func (g *Graph) Validate() error {
	visited := make(map[string]int) // 0: unvisited, 1: visiting, 2: visited
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		visited[name] = 1
		path = append(path, name)

		task, exists := g.tasks[name]
		if !exists {
			return zerr.With(ErrMissingDependency, "dependency", name)
		}

		for _, step := range task.Steps {
			switch visited[step] {
			case 1:
				return buildCycleError(path, step)
			case 0:
				if err := visit(step); err != nil {
					return err
				}
			}
		}

		visited[name] = 2
		path = path[:len(path)-1]
		return nil
	}

	for _, name := range g.order {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// Reaches reports whether running name runs target, directly or through its steps.
func (g *Graph) Reaches(name, target string) bool {
	seen := make(map[string]bool)
	var walk func(string) bool
	walk = func(n string) bool {
		if n == target {
			return true
		}
		if seen[n] {
			return false
		}
		seen[n] = true
		return slices.ContainsFunc(g.tasks[n].Steps, walk)
	}
	return walk(name)
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []string, dep string) error {
	start := slices.Index(path, dep)
	cycle := append(slices.Clone(path[start:]), dep)
	return zerr.With(ErrCycleDetected, "cycle", strings.Join(cycle, " -> "))
}

// DefaultGraph declares the built-in tasks.
func DefaultGraph() *Graph {
	g := NewGraph()

	leaves := []string{TaskClean}
	for _, grp := range Groups {
		leaves = append(leaves, string(grp))
	}
	leaves = append(leaves, TaskWatch, TaskServe)

	for _, name := range leaves {
		_ = g.AddTask(Leaf(name))
	}

	groups := make([]string, 0, len(Groups))
	for _, grp := range Groups {
		groups = append(groups, string(grp))
	}

	_ = g.AddTask(Parallel(TaskBuild, groups...))
	_ = g.AddTask(Series(TaskCleanBuild, TaskClean, TaskBuild))
	_ = g.AddTask(Parallel(TaskDevelop, TaskServe, TaskWatch))
	_ = g.AddTask(Series(TaskDefault, TaskClean, TaskBuild, TaskDevelop))

	return g
}
