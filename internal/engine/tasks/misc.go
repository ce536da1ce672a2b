package tasks

import (
	"context"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.GroupTask = (*Misc)(nil)

// Misc copies top-level passthrough files.
type Misc struct {
	plan domain.GroupPlan
	deps Deps
}

// NewMisc creates the misc task.
func NewMisc(plan domain.Plan, deps Deps) *Misc {
	return &Misc{plan: plan.Groups[domain.GroupMisc], deps: deps}
}

// Group returns domain.GroupMisc.
func (t *Misc) Group() domain.AssetGroup { return domain.GroupMisc }

// Run copies the files modified after since.
func (t *Misc) Run(ctx context.Context, since time.Time) error {
	files, err := t.deps.Resolver.Resolve(t.plan.Patterns, t.plan.Base)
	if err != nil {
		return err
	}
	return copyFiles(ctx, t.deps.Writer, files, t.plan.DestDir, since)
}
