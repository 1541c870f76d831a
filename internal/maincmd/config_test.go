package maincmd_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kp000vinay/pybc/internal/maincmd"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := maincmd.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "compact", cfg.DefaultPosMode)
	assert.Equal(t, 0, cfg.MaxSteps)
}

func TestLoadConfigYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pybc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_pos_mode: full\nmax_steps: 500\n"), 0o600))

	cfg, err := maincmd.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "full", cfg.DefaultPosMode)
	assert.Equal(t, 500, cfg.MaxSteps)
}

func TestLoadConfigEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pybc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_pos_mode: full\n"), 0o600))

	t.Setenv("PYBC_DEFAULT_POS_MODE", "none")

	cfg, err := maincmd.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.DefaultPosMode)
}
