package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("diary", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestParseFlags_OnlyChangedFlagsApply(t *testing.T) {
	fs := newFlagSet(t, "--data-dir", "/flag/data", "--timeout", "3s")

	c := Config{LogLevel: "warn", DataDir: "/before"}
	require.NoError(t, parseFlags(&c, fs))

	assert.Equal(t, "/flag/data", c.DataDir)
	assert.Equal(t, 3*time.Second, c.Timeout)
	assert.Equal(t, "warn", c.LogLevel, "unset flag defaults do not clobber earlier layers")
}

func TestParseFlags_BadValue(t *testing.T) {
	fs := pflag.NewFlagSet("diary", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	BindFlags(fs)
	require.Error(t, fs.Parse([]string{"--timeout", "abc"}))
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"data_dir":  "/json/data",
		"log_level": "error",
		"timeout":   "1m",
	})
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DIARY_LOG_LEVEL=warn\nDIARY_TIMEOUT=2m\n"), 0o600))

	fs := newFlagSet(t, "-c", path, "--env-file", envFile, "--timeout", "10s")
	opts := OptionsFromFlags(fs)
	opts.LookupEnv = noEnv

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, "/json/data", cfg.DataDir)
	assert.Equal(t, "warn", cfg.LogLevel, "env beats json")
	assert.Equal(t, 10*time.Second, cfg.Timeout, "flags beat env")
	assert.Equal(t, filepath.Join("/json/data", "backups"), cfg.BackupDir)
}

func TestOptionsFromFlags_Nil(t *testing.T) {
	opts := OptionsFromFlags(nil)
	assert.Empty(t, opts.ConfigPath)
	assert.Nil(t, opts.Flags)
}
