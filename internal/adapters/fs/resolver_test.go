package fs_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
)

func rels(files []domain.SourceFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Rel)
	}
	return out
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()
	mustWriteFile(t, rootDir, "src/index.html", "<p>")
	mustWriteFile(t, rootDir, "src/about.html", "<p>")
	mustWriteFile(t, rootDir, "src/robots.txt", "User-agent: *")
	mustWriteFile(t, rootDir, "src/partials/head.html", "<head>")
	mustWriteFile(t, rootDir, "src/js/vendor/jquery-3.7.js", "$")
	mustWriteFile(t, rootDir, "src/js/vendor/zepto.js", "z")
	mustWriteFile(t, rootDir, "src/js/app/main.js", "main()")
	mustWriteFile(t, rootDir, "src/js/app/util.js", "util()")

	resolver := fs.NewResolver(rootDir, fs.NewWalker())

	t.Run("sorted matches relative to base", func(t *testing.T) {
		t.Parallel()
		files, err := resolver.Resolve([]string{"src/*.html"}, "src")
		require.NoError(t, err)

		assert.Equal(t, []string{"about.html", "index.html"}, rels(files))
		assert.Equal(t, filepath.Join(rootDir, "src", "about.html"), files[0].Path)
		assert.False(t, files[0].ModTime.IsZero())
	})

	t.Run("pattern order wins over sort order", func(t *testing.T) {
		t.Parallel()
		files, err := resolver.Resolve([]string{
			"src/js/vendor/**/*.js",
			"src/js/**/main.js",
			"src/js/**/*.*",
			"!src/js/vendor/**/jquery-*.js",
		}, "")
		require.NoError(t, err)

		assert.Equal(t, []string{"zepto.js", "app/main.js", "app/util.js"}, rels(files))
	})

	t.Run("exclusions apply to the whole list", func(t *testing.T) {
		t.Parallel()
		files, err := resolver.Resolve([]string{"src/*.*", "!src/*.html"}, "src")
		require.NoError(t, err)

		assert.Equal(t, []string{"robots.txt"}, rels(files))
	})

	t.Run("no matches is not an error", func(t *testing.T) {
		t.Parallel()
		files, err := resolver.Resolve([]string{"src/styles/**/*.css"}, "")
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		t.Parallel()
		_, err := resolver.Resolve([]string{"src/[*.html"}, "")
		require.Error(t, err)
		assert.ErrorContains(t, err, "invalid glob pattern")
	})
}

func TestMatch(t *testing.T) {
	t.Parallel()

	patterns := []string{"src/*.*", "!src/*.html"}

	assert.True(t, fs.Match(patterns, "src/robots.txt"))
	assert.False(t, fs.Match(patterns, "src/index.html"))
	assert.False(t, fs.Match(patterns, "src/img/logo.png"))
	assert.True(t, fs.Match([]string{"src/styles/**/*.*"}, "src/styles/base/reset.css"))
}

func TestResolver_Match(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	r := fs.NewResolver(root, fs.NewWalker())
	patterns := []string{"src/styles/**/*.*"}

	assert.True(t, r.Match(patterns, filepath.Join(root, "src", "styles", "app.css")))
	assert.False(t, r.Match(patterns, filepath.Join(root, "src", "js", "main.js")))
	assert.False(t, r.Match(patterns, filepath.Join(filepath.Dir(root), "src", "styles", "app.css")))
}
