package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingOptional(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.Server)
	assert.Equal(t, "xlsx", cfg.Format)
	assert.False(t, cfg.SkipSoftware)
}

func TestLoadMissingRequired(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), true)
	assert.Error(t, err)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpescan.yaml")
	body := "server: http://scanhub:9090\nformat: json\nskip_software: true\nlimit_software: 25\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "http://scanhub:9090", cfg.Server)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.SkipSoftware)
	assert.Equal(t, 25, cfg.LimitSoftware)
	assert.False(t, cfg.Detailed)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpescan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path, true)
	assert.Error(t, err)
}
