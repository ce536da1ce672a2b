package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/app"
)

func TestRun(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		setup        func(t *testing.T, dir string)
		args         []string
		expectedExit int
		expectedFile string
	}{
		{
			name: "Success building styles",
			setup: func(t *testing.T, dir string) {
				t.Helper()
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "styles"), 0o750))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "styles", "app.css"), []byte(".a{color:red}\n"), 0o600))
			},
			args:         []string{"kiln", "styles"},
			expectedExit: 0,
			expectedFile: filepath.Join("dist", "styles.css"),
		},
		{
			name: "Invalid layout file",
			setup: func(t *testing.T, dir string) {
				t.Helper()
				require.NoError(t, os.WriteFile(filepath.Join(dir, "kiln.yaml"), []byte("version: \"9\"\n"), 0o600))
			},
			args:         []string{"kiln", "build"},
			expectedExit: 1,
		},
		{
			name:         "Unknown command",
			setup:        func(*testing.T, string) {},
			args:         []string{"kiln", "deploy"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")
			t.Setenv("NODE_ENV", "development")
			tmpDir := t.TempDir()
			tt.setup(t, tmpDir)

			// Change to tmpDir for relative path resolution
			t.Chdir(tmpDir)

			os.Args = tt.args

			exitCode := run(func(a *app.App) {
				a.WithOutput(&bytes.Buffer{})
			})
			assert.Equal(t, tt.expectedExit, exitCode)

			if tt.expectedFile != "" {
				assert.FileExists(t, filepath.Join(tmpDir, tt.expectedFile))
			}
		})
	}
}
