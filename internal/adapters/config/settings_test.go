package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/config"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestLoadSettings_Defaults(t *testing.T) {
	for _, key := range []string{"NODE_ENV", "KILN_ADDR", "KILN_CONFIG"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	s, err := config.LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultAddr, s.Addr)
	assert.Equal(t, domain.ConfigFileName, s.Config)
	assert.Equal(t, domain.ModeDevelopment, s.Mode())
}

func TestLoadSettings_FromEnvironment(t *testing.T) {
	t.Setenv("NODE_ENV", "production")
	t.Setenv("KILN_ADDR", "0.0.0.0:8080")
	t.Setenv("KILN_CONFIG", "assets.yaml")

	s, err := config.LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", s.Addr)
	assert.Equal(t, "assets.yaml", s.Config)
	assert.Equal(t, domain.ModeProduction, s.Mode())
}

func TestSettings_ModeIgnoresOtherValues(t *testing.T) {
	for _, env := range []string{"", "dev", "staging", "prod"} {
		s := &config.Settings{Env: env}
		assert.Equal(t, domain.ModeDevelopment, s.Mode(), env)
	}
}
