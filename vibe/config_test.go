package vibe

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := Config{}.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.NumTries)
	assert.Equal(t, ModeChill, cfg.Mode)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	require.NotNil(t, cfg.Sink)
}

func TestConfigRejectsNegativeTries(t *testing.T) {
	_, err := Config{NumTries: -2}.withDefaults()
	require.Error(t, err)
}

func TestConfigRejectsUnknownMode(t *testing.T) {
	_, err := Config{Mode: "zealous"}.withDefaults()
	require.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vibe.yaml")
	data := "num_tries: 3\nmode: eager\ntimeout: 30s\nsystem_instruction: answer briefly\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.NumTries)
	assert.Equal(t, ModeEager, cfg.Mode)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "answer briefly", cfg.SystemInstruction)
}

func TestLoadConfigBadMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vibe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: zen\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDefaultSinkFromEnv(t *testing.T) {
	t.Setenv("VIBE_LOG_LEVEL", "")
	assert.IsType(t, NopSink{}, DefaultSink())

	t.Setenv("VIBE_LOG_LEVEL", "debug")
	assert.IsType(t, &ZapSink{}, DefaultSink())

	t.Setenv("VIBE_LOG_LEVEL", "shouting")
	assert.IsType(t, NopSink{}, DefaultSink())
}
