package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/cmd/kiln/commands"
	"go.trai.ch/kiln/internal/adapters/config"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/build"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newCLI(t *testing.T) (*commands.CLI, string) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	ctrl := gomock.NewController(t)
	dir := t.TempDir()
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	a := app.New(
		app.Options{Mode: domain.ModeDevelopment, Dir: dir},
		config.NewLoader(""),
		fs.NewResolver(dir, fs.NewWalker()),
		fs.NewWriter(fs.NewHasher()),
		mocks.NewMockWatcher(ctrl),
		mocks.NewMockDevServer(ctrl),
		log,
	).WithOutput(&bytes.Buffer{})

	return commands.New(a), dir
}

func TestTaskCommand_RunsTask(t *testing.T) {
	cli, dir := newCLI(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "robots.txt"), []byte("User-agent: *\n"), 0o600))

	cli.SetArgs([]string{"misc"})
	require.NoError(t, cli.Execute(context.Background()))

	assert.FileExists(t, filepath.Join(dir, "dist", "robots.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "dist", "index.html"))
}

func TestTaskCommand_Clean(t *testing.T) {
	cli, dir := newCLI(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dist"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "prod"), 0o750))

	cli.SetArgs([]string{"clean"})
	require.NoError(t, cli.Execute(context.Background()))

	assert.NoDirExists(t, filepath.Join(dir, "dist"))
	assert.NoDirExists(t, filepath.Join(dir, "prod"))
}

func TestTaskCommand_RejectsArguments(t *testing.T) {
	cli, _ := newCLI(t)

	cli.SetArgs([]string{"build", "extra"})
	require.Error(t, cli.Execute(context.Background()))
}

func TestRoot_UnknownCommand(t *testing.T) {
	cli, _ := newCLI(t)

	cli.SetArgs([]string{"deploy"})
	err := cli.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unknown command")
}

func TestVersion(t *testing.T) {
	cli, _ := newCLI(t)
	var out bytes.Buffer
	cli.SetArgs([]string{"version"})

	commands.Root(cli).SetOut(&out)
	require.NoError(t, cli.Execute(context.Background()))

	assert.Equal(t, "kiln version "+build.Version+"\n", out.String())
}
