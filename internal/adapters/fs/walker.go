// Package fs provides file system adapters for resolving source globs and writing output.
package fs

import (
	"errors"
	"io/fs"
	"iter"
	"path/filepath"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields all files below root, skipping VCS metadata, node_modules and ignored
// entries. A missing root yields nothing; other access errors are yielded with an empty path
// and end the walk.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root && errors.Is(err, fs.ErrNotExist) {
					return filepath.SkipAll
				}
				return err
			}

			if skip, action := w.shouldSkip(d, ignores); skip {
				return action
			}

			if d.IsDir() {
				return nil
			}

			if !yield(path, nil) {
				return filepath.SkipAll
			}

			return nil
		})
		if err != nil {
			yield("", err)
		}
	}
}

// shouldSkip reports whether the entry is ignored. For directories the returned action is
// filepath.SkipDir so the whole subtree is pruned.
func (w *Walker) shouldSkip(d fs.DirEntry, ignores []string) (bool, error) {
	name := d.Name()

	if d.IsDir() && (name == ".git" || name == ".jj" || name == "node_modules") {
		return true, filepath.SkipDir
	}

	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			if d.IsDir() {
				return true, filepath.SkipDir
			}
			return true, nil
		}
	}

	return false, nil
}
