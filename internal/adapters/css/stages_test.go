package css_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/css"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

func writeStyles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func TestImport_InlinesImports(t *testing.T) {
	dir := writeStyles(t, map[string]string{
		"app.css":             "@import \"base/reset.css\";\n.app { background: url(../img/bg.png); }\n",
		"base/reset.css":      "@import \"./typography.css\";\nhtml { margin: 0; }\n",
		"base/typography.css": "body { font-family: serif; }\n",
	})
	path := filepath.Join(dir, "app.css")
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	out, err := css.Import(pipeline.Asset{Path: path, Content: content}, domain.ModeDevelopment)
	require.NoError(t, err)

	got := string(out.Content)
	assert.NotContains(t, got, "@import")
	assert.Contains(t, got, "font-family: serif")
	assert.Contains(t, got, "margin: 0")
	assert.Contains(t, got, "../img/bg.png")
	assert.Less(t, strings.Index(got, "font-family"), strings.Index(got, ".app"))
}

func TestImport_MissingImportFails(t *testing.T) {
	dir := writeStyles(t, map[string]string{"app.css": "@import \"missing.css\";\n"})
	path := filepath.Join(dir, "app.css")

	_, err := css.Import(pipeline.Asset{Path: path, Content: []byte("@import \"missing.css\";\n")}, domain.ModeDevelopment)
	require.Error(t, err)
	assert.ErrorContains(t, err, "missing.css")
}

func TestCompat_LowersNesting(t *testing.T) {
	out, err := css.Compat(css.DefaultEngines)(pipeline.Asset{
		Path:    "app.css",
		Content: []byte(".card { .title { color: red; } }\n"),
	}, domain.ModeDevelopment)
	require.NoError(t, err)
	assert.Contains(t, string(out.Content), ".card .title")
}

func TestMinify_DropsWhitespaceAndDuplicates(t *testing.T) {
	src := "a {\n  color: red;\n}\n\na {\n  color: red;\n}\n.btn { -webkit-appearance: none; appearance: none; }\n"

	out, err := css.Minify(css.DefaultEngines)(pipeline.Asset{Path: "app.css", Content: []byte(src)}, domain.ModeProduction)
	require.NoError(t, err)

	got := string(out.Content)
	assert.Equal(t, 1, strings.Count(got, "color:red"))
	assert.NotContains(t, got, "\n  ")
	assert.Contains(t, got, "-webkit-appearance:none")
}

func TestPipeline_StagesPerMode(t *testing.T) {
	p := css.Pipeline(nil)

	assert.Equal(t, []string{css.StageImport, css.StageCompat, css.StagePack}, p.Active(domain.ModeDevelopment))
	assert.Equal(t, []string{css.StageImport, css.StageCompat, css.StagePack, css.StageMinify}, p.Active(domain.ModeProduction))
}

func TestPipeline_ErrorNamesStage(t *testing.T) {
	dir := writeStyles(t, map[string]string{"broken.css": "@import \"nowhere.css\";\n"})
	path := filepath.Join(dir, "broken.css")

	_, err := css.Pipeline(nil).Run(pipeline.Asset{Path: path, Content: []byte("@import \"nowhere.css\";\n")}, domain.ModeProduction)
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, css.StageImport, zErr.Metadata()["stage"])
	assert.Equal(t, path, zErr.Metadata()["path"])
}

func TestPipeline_FlattensNestedImports(t *testing.T) {
	dir := writeStyles(t, map[string]string{
		"styles/app.css":     "@import \"parts/a.css\";\n.app { color: blue; }\n",
		"styles/parts/a.css": "@import \"b.css\";\n.a { color: red; }\n",
		"styles/parts/b.css": ".b { backdrop-filter: blur(2px); }\n",
	})
	path := filepath.Join(dir, "styles", "app.css")
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	out, err := css.Pipeline(nil).Run(pipeline.Asset{Path: path, Content: content}, domain.ModeDevelopment)
	require.NoError(t, err)

	got := string(out.Content)
	assert.NotContains(t, got, "@import")
	assert.Contains(t, got, ".a {")
	assert.Contains(t, got, "-webkit-backdrop-filter")
	assert.Less(t, strings.Index(got, ".b {"), strings.Index(got, ".a {"))
	assert.Less(t, strings.Index(got, ".a {"), strings.Index(got, ".app {"))
}
