package tasks

import (
	"context"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/markup"
)

var _ ports.GroupTask = (*Markup)(nil)

// Markup expands include directives in HTML pages.
type Markup struct {
	plan     domain.GroupPlan
	deps     Deps
	includer *markup.Includer
}

// NewMarkup creates the markup task.
func NewMarkup(plan domain.Plan, deps Deps) *Markup {
	return &Markup{
		plan:     plan.Groups[domain.GroupMarkup],
		deps:     deps,
		includer: markup.NewIncluder(),
	}
}

// Group returns domain.GroupMarkup.
func (t *Markup) Group() domain.AssetGroup { return domain.GroupMarkup }

// Run writes every page and then asks clients for one full reload.
// Pages depend on their includes, so every run processes all pages.
func (t *Markup) Run(ctx context.Context, _ time.Time) error {
	files, err := t.deps.Resolver.Resolve(t.plan.Patterns, t.plan.Base)
	if err != nil {
		return err
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		content, err := readSource(f)
		if err != nil {
			return err
		}

		page, err := t.includer.Expand(f.Path, content)
		if err != nil {
			return err
		}

		if _, err := t.deps.Writer.Write(destination(t.plan.DestDir, f), page); err != nil {
			return err
		}
	}

	if len(files) > 0 {
		t.deps.Reloader.Reload()
	}
	return nil
}
