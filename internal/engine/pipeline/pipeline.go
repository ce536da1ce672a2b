// Package pipeline runs assets through ordered, mode-aware transformation stages.
package pipeline

import (
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// Asset is a unit of content moving through a pipeline.
type Asset struct {
	// Path is the source location, used for error reporting and relative resolution.
	Path string
	// Rel is the slash separated path relative to the group base.
	Rel string
	// Content is the current content of the asset.
	Content []byte
}

// Transform converts an asset. It must not mutate the input content in place.
type Transform func(asset Asset, mode domain.BuildMode) (Asset, error)

// Stage is a named transform that only runs when its predicate accepts the mode.
type Stage struct {
	Name string
	// When selects the modes the stage runs in; nil means every mode.
	When  func(domain.BuildMode) bool
	Apply Transform
}

// Always is the predicate of stages that run in every mode.
func Always(domain.BuildMode) bool { return true }

// ProductionOnly is the predicate of stages that only run in production.
func ProductionOnly(mode domain.BuildMode) bool { return mode.IsProduction() }

// Active reports whether the stage runs for mode.
func (s Stage) Active(mode domain.BuildMode) bool {
	return s.When == nil || s.When(mode)
}

// Pipeline is an explicit, ordered list of stages.
type Pipeline struct {
	stages []Stage
}

// New creates a Pipeline from stages in execution order.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Active returns the names of the stages that run for mode, in order.
func (p *Pipeline) Active(mode domain.BuildMode) []string {
	names := make([]string, 0, len(p.stages))
	for _, s := range p.stages {
		if s.Active(mode) {
			names = append(names, s.Name)
		}
	}
	return names
}

// Run applies the active stages to asset in order. The first failing stage aborts the run;
// its error carries the stage name and the source path.
func (p *Pipeline) Run(asset Asset, mode domain.BuildMode) (Asset, error) {
	for _, s := range p.stages {
		if !s.Active(mode) {
			continue
		}
		out, err := s.Apply(asset, mode)
		if err != nil {
			wrapped := zerr.Wrap(err, domain.ErrStageFailed.Error())
			wrapped = zerr.With(wrapped, "stage", s.Name)
			return asset, zerr.With(wrapped, "path", asset.Path)
		}
		asset = out
	}
	return asset, nil
}
