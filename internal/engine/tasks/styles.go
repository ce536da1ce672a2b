package tasks

import (
	"context"
	"path/filepath"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/kiln/internal/adapters/css"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/kiln/internal/engine/sourcemap"
	"go.trai.ch/zerr"
)

var _ ports.GroupTask = (*Styles)(nil)

// Styles bundles vendor and project stylesheets into one file.
type Styles struct {
	plan     domain.GroupPlan
	root     string
	mode     domain.BuildMode
	deps     Deps
	pipeline *pipeline.Pipeline
}

// NewStyles creates the styles task. A nil engines list selects css.DefaultEngines.
func NewStyles(plan domain.Plan, deps Deps, engines []api.Engine) *Styles {
	return &Styles{
		plan:     plan.Groups[domain.GroupStyles],
		root:     plan.Root,
		mode:     plan.Mode,
		deps:     deps,
		pipeline: css.Pipeline(engines),
	}
}

// Group returns domain.GroupStyles.
func (t *Styles) Group() domain.AssetGroup { return domain.GroupStyles }

// Run transforms each stylesheet and writes the concatenation. A stylesheet failing a
// stage is logged and left out of the bundle.
func (t *Styles) Run(ctx context.Context, _ time.Time) error {
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

		asset, err := t.pipeline.Run(pipeline.Asset{Path: f.Path, Rel: f.Rel, Content: content}, t.mode)
		if err != nil {
			t.deps.Logger.Error(err)
			continue
		}

		parts = append(parts, sourcemap.Part{Path: f.Path, Original: content, Output: asset.Content})
	}

	bundle, err := sourcemap.Append(t.plan.Output, parts, sourcemap.SyntaxCSS, t.mode.SourceMaps())
	if err != nil {
		return zerr.With(err, "path", t.plan.Output)
	}

	written, err := t.deps.Writer.Write(t.plan.Output, bundle)
	if err != nil {
		return err
	}

	if written && t.mode.IsDevelopment() {
		t.deps.Reloader.Inject(t.servedPath())
	}
	return nil
}

// servedPath returns the output path as seen by the development server.
func (t *Styles) servedPath() string {
	rel, err := filepath.Rel(t.root, t.plan.Output)
	if err != nil {
		return filepath.ToSlash(filepath.Base(t.plan.Output))
	}
	return filepath.ToSlash(rel)
}
