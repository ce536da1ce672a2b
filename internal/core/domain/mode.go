package domain

import "strings"

// BuildMode selects where output is written and how intensely assets are transformed.
// It is resolved once at startup and never changes for the lifetime of the process.
type BuildMode uint8

const (
	// ModeDevelopment writes to the development root with source maps and live injection.
	ModeDevelopment BuildMode = iota
	// ModeProduction writes to the production root with minification.
	ModeProduction
)

// ParseMode maps an environment value to a BuildMode.
// Only "production" selects production; anything else, including empty, is development.
func ParseMode(value string) BuildMode {
	if strings.EqualFold(strings.TrimSpace(value), "production") {
		return ModeProduction
	}
	return ModeDevelopment
}

// String returns the canonical name of the mode.
func (m BuildMode) String() string {
	if m == ModeProduction {
		return "production"
	}
	return "development"
}

// IsDevelopment reports whether m is the development mode.
func (m BuildMode) IsDevelopment() bool { return m == ModeDevelopment }

// IsProduction reports whether m is the production mode.
func (m BuildMode) IsProduction() bool { return m == ModeProduction }

// SourceMaps reports whether concatenated output carries source maps.
func (m BuildMode) SourceMaps() bool { return m == ModeDevelopment }

// Minify reports whether minifying stages are active.
func (m BuildMode) Minify() bool { return m == ModeProduction }
