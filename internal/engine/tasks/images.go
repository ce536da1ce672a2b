package tasks

import (
	"context"
	"time"

	"go.trai.ch/kiln/internal/adapters/sprite"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.GroupTask = (*Images)(nil)

// Images copies changed images and rebuilds the symbol sprite.
type Images struct {
	plan          domain.GroupPlan
	mode          domain.BuildMode
	spriteSources []string
	spriteOutput  string
	deps          Deps
	builder       *sprite.Builder
}

// NewImages creates the images task.
func NewImages(plan domain.Plan, deps Deps) *Images {
	return &Images{
		plan:          plan.Groups[domain.GroupImages],
		mode:          plan.Mode,
		spriteSources: plan.SpriteSources,
		spriteOutput:  plan.SpriteOutput,
		deps:          deps,
		builder:       sprite.NewBuilder(),
	}
}

// Group returns domain.GroupImages.
func (t *Images) Group() domain.AssetGroup { return domain.GroupImages }

// Run copies the images modified after since and builds the sprite concurrently.
// It returns once both are done.
func (t *Images) Run(ctx context.Context, since time.Time) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		files, err := t.deps.Resolver.Resolve(t.plan.Patterns, t.plan.Base)
		if err != nil {
			return err
		}
		return copyFiles(ctx, t.deps.Writer, files, t.plan.DestDir, since)
	})

	g.Go(func() error {
		return t.buildSprite(ctx)
	})

	return g.Wait()
}

func (t *Images) buildSprite(ctx context.Context) error {
	if len(t.spriteSources) == 0 || t.spriteOutput == "" {
		return nil
	}

	files, err := t.deps.Resolver.Resolve(t.spriteSources, "")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	sources := make([]sprite.Source, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		content, err := readSource(f)
		if err != nil {
			return err
		}
		sources = append(sources, sprite.Source{ID: sprite.IDFor(f.Path), Path: f.Path, Content: content})
	}

	res, err := t.builder.Build(sources, t.mode.Minify())
	if err != nil {
		return zerr.With(err, "path", t.spriteOutput)
	}

	for _, dup := range res.Duplicates {
		t.deps.Logger.Warn("sprite: skipped " + dup + ", symbol id " + sprite.IDFor(dup) + " already taken")
	}

	_, err = t.deps.Writer.Write(t.spriteOutput, res.Content)
	return err
}
