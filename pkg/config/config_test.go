package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngld/vklaunch/pkg/launcher"
)

func missingFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.toml")
}

func TestDefaultsMatchLauncher(t *testing.T) {
	cfg, err := Load(missingFile(t))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, launcher.DefaultOptions(), cfg.Options())
	assert.False(t, cfg.PropagateExitCode)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vklaunch.toml")
	err := os.WriteFile(path, []byte(`
compiler = "gcc"
output = "demo"
trigger = "go"
`), 0o644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gcc", cfg.Compiler)
	assert.Equal(t, "demo", cfg.Output)
	assert.Equal(t, "go", cfg.Trigger)
	assert.Equal(t, "xcb_vulkan.c", cfg.Source)
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("VKLAUNCH_COMPILER", "tcc")
	t.Setenv("VKLAUNCH_PROPAGATE_EXIT_CODE", "true")

	cfg, err := Load(missingFile(t))
	require.NoError(t, err)

	assert.Equal(t, "tcc", cfg.Compiler)
	assert.True(t, cfg.PropagateExitCode)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(missingFile(t))
	require.NoError(t, err)

	broken := *cfg
	broken.Compiler = ""
	assert.Error(t, broken.Validate())

	broken = *cfg
	broken.Trigger = ""
	assert.Error(t, broken.Validate())

	broken = *cfg
	broken.Log.Level = "loud"
	assert.Error(t, broken.Validate())

	valid := *cfg
	valid.Log.Level = "warning"
	require.NoError(t, valid.Validate())
	assert.Equal(t, zerolog.WarnLevel, valid.LogLevel())
}

func TestUnrelatedEnvIsIgnored(t *testing.T) {
	t.Setenv("VKLAUNCH_SOMETHING_ELSE", "x")

	cfg, err := Load(missingFile(t))
	require.NoError(t, err)
	assert.Equal(t, launcher.DefaultOptions(), cfg.Options())
}

func TestTraceAndDebugSymbolsAreSeparate(t *testing.T) {
	t.Setenv("VKLAUNCH_DEBUG", "false")

	cfg, err := Load(missingFile(t))
	require.NoError(t, err)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.Log.Trace)
	assert.NotContains(t, cfg.Options().CompileArgs(), "-g")

	t.Setenv("VKLAUNCH_DEBUG", "true")
	t.Setenv("VKLAUNCH_LOG_TRACE", "true")

	cfg, err = Load(missingFile(t))
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.Log.Trace)
	assert.Contains(t, cfg.Options().CompileArgs(), "-g")
}
