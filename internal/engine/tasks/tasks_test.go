package tasks_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/tasks"
	"go.uber.org/mock/gomock"
)

const iconSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="16" height="16"><path d="M0 0h16v16H0z"/></svg>`

type fixture struct {
	root     string
	plan     domain.Plan
	logger   *mocks.MockLogger
	reloader *mocks.MockReloader
	deps     tasks.Deps
}

func newFixture(t *testing.T, mode domain.BuildMode) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	root := t.TempDir()

	f := &fixture{
		root:     root,
		plan:     domain.DefaultLayout().Resolve(mode).Under(root),
		logger:   mocks.NewMockLogger(ctrl),
		reloader: mocks.NewMockReloader(ctrl),
	}
	f.deps = tasks.Deps{
		Resolver: fs.NewResolver(root, fs.NewWalker()),
		Writer:   fs.NewWriter(fs.NewHasher()),
		Reloader: f.reloader,
		Logger:   f.logger,
	}
	return f
}

func (f *fixture) write(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(f.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (f *fixture) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func (f *fixture) exists(rel string) bool {
	_, err := os.Stat(filepath.Join(f.root, filepath.FromSlash(rel)))
	return err == nil
}

func TestNew_GroupOrder(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)

	all := tasks.New(f.plan, f.deps)

	require.Len(t, all, len(domain.Groups))
	for i, task := range all {
		assert.Equal(t, domain.Groups[i], task.Group())
	}
}

func TestMarkup_ExpandsAndReloadsOnce(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)
	f.write(t, "src/index.html", "<body>@@include('partials/nav.html', {\"title\": \"Home\"})</body>\n")
	f.write(t, "src/about.html", "<body>@@include('partials/nav.html', {\"title\": \"About\"})</body>\n")
	f.write(t, "src/partials/nav.html", "<nav>@@title</nav>")

	f.reloader.EXPECT().Reload().Times(1)

	err := tasks.NewMarkup(f.plan, f.deps).Run(context.Background(), time.Time{})
	require.NoError(t, err)

	assert.Equal(t, "<body><nav>Home</nav></body>\n", f.read(t, "dist/index.html"))
	assert.Equal(t, "<body><nav>About</nav></body>\n", f.read(t, "dist/about.html"))
	assert.False(t, f.exists("dist/partials/nav.html"))
}

func TestMarkup_NoPagesIsNoOp(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)

	err := tasks.NewMarkup(f.plan, f.deps).Run(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.False(t, f.exists("dist"))
}

func TestMarkup_IncludeCycleFails(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)
	f.write(t, "src/index.html", "@@include('a.html')")
	f.write(t, "src/a.html", "@@include('index.html')")

	err := tasks.NewMarkup(f.plan, f.deps).Run(context.Background(), time.Time{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrIncludeCycle.Error())
}

func TestStyles_VendorFirstWithSourceMap(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)
	f.write(t, "src/styles/app.css", ".app {\n  color: blue;\n}\n")
	f.write(t, "src/styles/vendor/z/reset.css", ".reset {\n  margin: 0;\n}\n")

	f.reloader.EXPECT().Inject("styles.css").Times(1)

	task := tasks.NewStyles(f.plan, f.deps, nil)
	require.NoError(t, task.Run(context.Background(), time.Time{}))

	out := f.read(t, "dist/styles.css")
	reset := strings.Index(out, ".reset")
	app := strings.Index(out, ".app")
	require.GreaterOrEqual(t, reset, 0)
	require.GreaterOrEqual(t, app, 0)
	assert.Less(t, reset, app)
	assert.Contains(t, out, "/*# sourceMappingURL=data:application/json;charset=utf-8;base64,")

	// Unchanged output is not rewritten and not injected again.
	require.NoError(t, task.Run(context.Background(), time.Time{}))
}

func TestStyles_MalformedFileIsSkipped(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)
	f.write(t, "src/styles/app.css", ".app {\n  color: blue;\n}\n")
	f.write(t, "src/styles/vendor/broken.css", "@import \"missing.css\";\n")

	f.logger.EXPECT().Error(gomock.Any()).Times(1)
	f.reloader.EXPECT().Inject("styles.css").Times(1)

	err := tasks.NewStyles(f.plan, f.deps, nil).Run(context.Background(), time.Time{})
	require.NoError(t, err)

	out := f.read(t, "dist/styles.css")
	assert.Contains(t, out, ".app")
	assert.NotContains(t, out, "missing.css")
}

func TestStyles_ProductionMinifiesWithoutMap(t *testing.T) {
	f := newFixture(t, domain.ModeProduction)
	f.write(t, "src/styles/app.css", ".app {\n  color: blue;\n}\n\n.app {\n  color: blue;\n}\n")

	err := tasks.NewStyles(f.plan, f.deps, nil).Run(context.Background(), time.Time{})
	require.NoError(t, err)

	out := f.read(t, "prod/styles.css")
	assert.NotContains(t, out, "sourceMappingURL")
	assert.Equal(t, 1, strings.Count(out, ".app"))
	assert.False(t, f.exists("dist"))
}

func TestScripts_OrderAndExclusion(t *testing.T) {
	f := newFixture(t, domain.ModeProduction)
	f.write(t, "src/js/util.js", "var util;\n")
	f.write(t, "src/js/app/main.js", "var main;\n")
	f.write(t, "src/js/vendor/lib.js", "var lib;\n")
	f.write(t, "src/js/vendor/jquery-3.7.1.js", "var jquery;\n")

	err := tasks.NewScripts(f.plan, f.deps).Run(context.Background(), time.Time{})
	require.NoError(t, err)

	assert.Equal(t, "var lib;\nvar main;\nvar util;\n", f.read(t, "prod/js/main.js"))
}

func TestScripts_DevelopmentAppendsMap(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)
	f.write(t, "src/js/main.js", "var main;\n")

	err := tasks.NewScripts(f.plan, f.deps).Run(context.Background(), time.Time{})
	require.NoError(t, err)

	out := f.read(t, "dist/js/main.js")
	assert.True(t, strings.HasPrefix(out, "var main;\n//# sourceMappingURL=data:application/json"))
}

func TestImages_CopiesOnlyChangedFiles(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	old := f.write(t, "src/img/old.png", "old")
	fresh := f.write(t, "src/img/photos/new.jpg", "new")
	f.write(t, "src/img/notes.txt", "ignored")
	require.NoError(t, os.Chtimes(old, base, base))
	require.NoError(t, os.Chtimes(fresh, base.Add(2*time.Hour), base.Add(2*time.Hour)))

	err := tasks.NewImages(f.plan, f.deps).Run(context.Background(), base.Add(time.Hour))
	require.NoError(t, err)

	assert.False(t, f.exists("dist/img/old.png"))
	assert.Equal(t, "new", f.read(t, "dist/img/photos/new.jpg"))
	assert.False(t, f.exists("dist/img/notes.txt"))
}

func TestImages_SpriteWithDuplicates(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)
	f.write(t, "src/img/sprites/svg/b/home.svg", iconSVG)
	f.write(t, "src/img/sprites/svg/a/menu.svg", iconSVG)
	f.write(t, "src/img/sprites/svg/c/menu.svg", iconSVG)

	f.logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, filepath.Join("c", "menu.svg"))
	}).Times(1)

	err := tasks.NewImages(f.plan, f.deps).Run(context.Background(), time.Time{})
	require.NoError(t, err)

	sprite := f.read(t, "dist/img/icons.svg")
	assert.Equal(t, 1, strings.Count(sprite, `id="menu"`))
	assert.Equal(t, 1, strings.Count(sprite, `id="home"`))
	assert.Less(t, strings.Index(sprite, `id="home"`), strings.Index(sprite, `id="menu"`))
	assert.Contains(t, sprite, `viewBox="0 0 16 16"`)
}

func TestImages_InvalidSpriteFails(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)
	f.write(t, "src/img/sprites/svg/bad.svg", "<html></html>")

	err := tasks.NewImages(f.plan, f.deps).Run(context.Background(), time.Time{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidSprite.Error())
}

func TestMisc_CopiesTopLevelFilesExceptMarkup(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)
	f.write(t, "src/robots.txt", "User-agent: *\n")
	f.write(t, "src/index.html", "<html></html>")
	f.write(t, "src/styles/app.css", ".app{}")

	err := tasks.NewMisc(f.plan, f.deps).Run(context.Background(), time.Time{})
	require.NoError(t, err)

	assert.Equal(t, "User-agent: *\n", f.read(t, "dist/robots.txt"))
	assert.False(t, f.exists("dist/index.html"))
	assert.False(t, f.exists("dist/styles/app.css"))
}

func TestMisc_CancelledContext(t *testing.T) {
	f := newFixture(t, domain.ModeDevelopment)
	f.write(t, "src/robots.txt", "User-agent: *\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tasks.NewMisc(f.plan, f.deps).Run(ctx, time.Time{})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, f.exists("dist/robots.txt"))
}
