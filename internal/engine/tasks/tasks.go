// Package tasks implements the transformations of the five asset groups.
package tasks

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Deps are the ports shared by every group task.
type Deps struct {
	Resolver ports.InputResolver
	Writer   ports.OutputWriter
	Reloader ports.Reloader
	Logger   ports.Logger
}

// New returns the tasks of every asset group for plan, in group declaration order.
func New(plan domain.Plan, deps Deps) []ports.GroupTask {
	return []ports.GroupTask{
		NewMarkup(plan, deps),
		NewStyles(plan, deps, nil),
		NewScripts(plan, deps),
		NewImages(plan, deps),
		NewMisc(plan, deps),
	}
}

// readSource reads a resolved source file.
func readSource(f domain.SourceFile) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read source"), "path", f.Path)
	}
	return data, nil
}

// destination returns where f lands below dir.
func destination(dir string, f domain.SourceFile) string {
	return filepath.Join(dir, filepath.FromSlash(f.Rel))
}

// copyFiles copies every file changed after since into dir, preserving relative paths.
func copyFiles(ctx context.Context, w ports.OutputWriter, files []domain.SourceFile, dir string, since time.Time) error {
	for _, f := range domain.FilterChanged(files, since) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := w.Copy(f.Path, destination(dir, f)); err != nil {
			return err
		}
	}
	return nil
}
