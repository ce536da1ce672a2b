package tasks

import (
	"context"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/sourcemap"
	"go.trai.ch/zerr"
)

var _ ports.GroupTask = (*Scripts)(nil)

// Scripts concatenates vendor and project scripts. Scripts are never minified.
type Scripts struct {
	plan domain.GroupPlan
	mode domain.BuildMode
	deps Deps
}

// NewScripts creates the scripts task.
func NewScripts(plan domain.Plan, deps Deps) *Scripts {
	return &Scripts{
		plan: plan.Groups[domain.GroupScripts],
		mode: plan.Mode,
		deps: deps,
	}
}

// Group returns domain.GroupScripts.
func (t *Scripts) Group() domain.AssetGroup { return domain.GroupScripts }

// Run writes the concatenation of every matched script.
func (t *Scripts) Run(ctx context.Context, _ time.Time) error {
	files, err := t.deps.Resolver.Resolve(t.plan.Patterns, t.plan.Base)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	parts := make([]sourcemap.Part, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		content, err := readSource(f)
		if err != nil {
			return err
		}
		parts = append(parts, sourcemap.Part{Path: f.Path, Original: content, Output: content})
	}

	bundle, err := sourcemap.Append(t.plan.Output, parts, sourcemap.SyntaxJS, t.mode.SourceMaps())
	if err != nil {
		return zerr.With(err, "path", t.plan.Output)
	}

	_, err = t.deps.Writer.Write(t.plan.Output, bundle)
	return err
}
