package fs

import (
	"errors"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.OutputWriter = (*Writer)(nil)

// Writer implements ports.OutputWriter. Files whose content would not change are left
// untouched so repeated builds keep destination timestamps stable.
type Writer struct {
	hasher *Hasher
}

// NewWriter creates a new Writer.
func NewWriter(hasher *Hasher) *Writer {
	return &Writer{hasher: hasher}
}

// Write stores data at path unless the file already holds it.
func (w *Writer) Write(path string, data []byte) (bool, error) {
	same, err := w.hasher.Matches(path, data)
	if err != nil {
		return false, err
	}
	if same {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", path)
	}

	//nolint:gosec // Path is derived from the configured destination root
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to write output"), "path", path)
	}

	return true, nil
}

// Copy copies src to dest unless dest already holds the same content.
func (w *Writer) Copy(src, dest string) (bool, error) {
	data, err := os.ReadFile(src) //nolint:gosec // Path comes from resolved source globs
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to read source"), "path", src)
	}
	return w.Write(dest, data)
}

// RemoveAll removes every path, joining the errors of the ones that could not be removed.
func (w *Writer) RemoveAll(paths ...string) error {
	var errs error
	for _, path := range paths {
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "failed to remove"), "path", path))
		}
	}
	return errs
}
