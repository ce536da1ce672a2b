package ports

import "go.trai.ch/kiln/internal/core/domain"

// InputResolver expands source globs into concrete files.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type InputResolver interface {
	// Resolve expands the ordered patterns into de-duplicated files.
	// Files matched by an earlier pattern come first; patterns starting with "!" exclude
	// files regardless of their position. base, when set, is the directory relative
	// paths are computed from. Patterns matching nothing are not an error.
	Resolve(patterns []string, base string) ([]domain.SourceFile, error)

	// Match reports whether the file at path is selected by patterns. path is a file
	// system path; patterns are interpreted like in Resolve.
	Match(patterns []string, path string) bool
}
