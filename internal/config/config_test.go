package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slocd.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
tick_rate = "100ms"

[logging]
format = "json"

[database]
enabled = true

[[scripting.handlers]]
action = "KillPlayer"
function = "smite"
targets = ["Player", "Ragdoll"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "slocd", cfg.Server.Name)
	assert.Equal(t, 100*time.Millisecond, cfg.Server.TickRate)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "assets", cfg.Assets.Dir)

	require.Len(t, cfg.Scripting.Handlers, 1)
	assert.Equal(t, ScriptHandler{Action: "KillPlayer", Function: "smite", Targets: []string{"Player", "Ragdoll"}}, cfg.Scripting.Handlers[0])
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "read config")

	_, err = Load(writeConfig(t, "[server\n"))
	assert.ErrorContains(t, err, "parse config")

	_, err = Load(writeConfig(t, "[server]\ntick_rate = \"0s\"\n"))
	assert.ErrorContains(t, err, "tick_rate")
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv("SLOC_CONFIG", "")
	assert.Equal(t, DefaultPath, Path())
	t.Setenv("SLOC_CONFIG", "/etc/slocd.toml")
	assert.Equal(t, "/etc/slocd.toml", Path())
}
