package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.NotEmpty(t, c.DataDir)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
	assert.Equal(t, 10, c.LogMaxSizeMB)
	assert.Equal(t, 3, c.LogMaxFiles)
	assert.Equal(t, 30*time.Second, c.Timeout)
	assert.Equal(t, "us-east-1", c.S3Region)
}

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load(LoadOptions{LookupEnv: noEnv})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cfg.DataDir, "backups"), cfg.BackupDir)
	assert.False(t, cfg.S3Configured())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data dir", func(c *Config) { c.DataDir = " " }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"negative rotation", func(c *Config) { c.LogMaxFiles = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			require.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoggingOptions(t *testing.T) {
	c := Config{LogLevel: "debug", LogFormat: "json", LogFile: "/tmp/x.log", LogMaxSizeMB: 5, LogMaxFiles: 2}
	o := c.LoggingOptions()

	assert.Equal(t, "debug", o.Level)
	assert.Equal(t, "json", o.Format)
	assert.Equal(t, "/tmp/x.log", o.File)
	assert.Equal(t, 5, o.MaxSizeMB)
	assert.Equal(t, 2, o.MaxFiles)
}
