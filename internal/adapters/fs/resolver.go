package fs

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements the InputResolver interface using doublestar globs.
// Patterns are interpreted relative to the resolver root.
type Resolver struct {
	root   string
	walker *Walker
}

// NewResolver creates a new Resolver rooted at root.
func NewResolver(root string, walker *Walker) *Resolver {
	if root == "" {
		root = "."
	}
	return &Resolver{root: root, walker: walker}
}

// Root returns the directory patterns are resolved against.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve expands the ordered patterns into de-duplicated source files.
func (r *Resolver) Resolve(patterns []string, base string) ([]domain.SourceFile, error) {
	includes, excludes, err := splitPatterns(patterns)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var result []domain.SourceFile

	for _, pattern := range includes {
		matches, err := r.match(pattern)
		if err != nil {
			return nil, err
		}

		relBase := base
		if relBase == "" {
			relBase, _ = doublestar.SplitPattern(pattern)
		}

		for _, match := range matches {
			if seen[match] || excluded(match, excludes) {
				continue
			}
			seen[match] = true

			file, err := r.sourceFile(match, relBase)
			if err != nil {
				return nil, err
			}
			result = append(result, file)
		}
	}

	return result, nil
}

// Match reports whether the slash separated, root relative path is selected by patterns.
func Match(patterns []string, path string) bool {
	includes, excludes, err := splitPatterns(patterns)
	if err != nil || excluded(path, excludes) {
		return false
	}
	for _, pattern := range includes {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// Match reports whether the file at path, relative to the working directory or absolute,
// lies below the resolver root and is selected by patterns.
func (r *Resolver) Match(patterns []string, path string) bool {
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return false
	}
	return Match(patterns, rel)
}

// match walks the static prefix of pattern and returns the sorted, root relative, slash
// separated paths of the files it selects.
func (r *Resolver) match(pattern string) ([]string, error) {
	dir, _ := doublestar.SplitPattern(pattern)

	var matches []string
	for path, err := range r.walker.WalkFiles(filepath.Join(r.root, filepath.FromSlash(dir)), nil) {
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to walk source directory"), "pattern", pattern)
		}
		rel, err := filepath.Rel(r.root, path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
		}
		rel = filepath.ToSlash(rel)
		if ok, _ := doublestar.Match(pattern, rel); ok {
			matches = append(matches, rel)
		}
	}

	slices.Sort(matches)
	return matches, nil
}

func (r *Resolver) sourceFile(match, relBase string) (domain.SourceFile, error) {
	path := filepath.Join(r.root, filepath.FromSlash(match))
	info, err := os.Stat(path)
	if err != nil {
		return domain.SourceFile{}, zerr.With(zerr.Wrap(err, "failed to stat source"), "path", path)
	}

	rel := match
	if relBase != "" && relBase != "." {
		rel = strings.TrimPrefix(match, strings.TrimSuffix(relBase, "/")+"/")
	}

	return domain.SourceFile{
		Path:    path,
		Rel:     rel,
		ModTime: info.ModTime(),
	}, nil
}

func splitPatterns(patterns []string) (includes, excludes []string, err error) {
	for _, p := range patterns {
		negated := strings.HasPrefix(p, "!")
		p = strings.TrimPrefix(p, "!")
		if !doublestar.ValidatePattern(p) {
			return nil, nil, zerr.With(zerr.New("invalid glob pattern"), "pattern", p)
		}
		if negated {
			excludes = append(excludes, p)
		} else {
			includes = append(includes, p)
		}
	}
	return includes, excludes, nil
}

func excluded(path string, excludes []string) bool {
	for _, ex := range excludes {
		if ok, _ := doublestar.Match(ex, path); ok {
			return true
		}
	}
	return false
}
