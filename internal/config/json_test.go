package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestParseJSON_OverlaysPresentFields(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"data_dir": "/data/diary",
		"timeout":  "5s",
		"log":      map[string]any{"format": "json", "max_files": 7},
		"s3":       map[string]any{"bucket": "journal", "endpoint": "http://127.0.0.1:9000"},
	})

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseJSON(&c, path))

	assert.Equal(t, "/data/diary", c.DataDir)
	assert.Equal(t, 5*time.Second, c.Timeout)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, 7, c.LogMaxFiles)
	assert.Equal(t, "info", c.LogLevel, "absent fields keep their defaults")
	assert.Equal(t, 10, c.LogMaxSizeMB)
	assert.Equal(t, "journal", c.S3Bucket)
	assert.Equal(t, "http://127.0.0.1:9000", c.S3Endpoint)
	assert.Equal(t, "us-east-1", c.S3Region)
}

func TestParseJSON_NumericTimeout(t *testing.T) {
	path := writeTempJSON(t, map[string]any{"timeout": int64(2 * time.Second)})

	var c Config
	require.NoError(t, parseJSON(&c, path))
	assert.Equal(t, 2*time.Second, c.Timeout)
}

func TestParseJSON_Errors(t *testing.T) {
	var c Config
	require.Error(t, parseJSON(&c, filepath.Join(t.TempDir(), "missing.json")))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	require.ErrorIs(t, parseJSON(&c, bad), ErrInvalidConfig)

	badDur := writeTempJSON(t, map[string]any{"timeout": "soon"})
	require.ErrorIs(t, parseJSON(&c, badDur), ErrInvalidConfig)
}

func TestParseJSON_EmptyPathIsNoop(t *testing.T) {
	c := Config{DataDir: "keep"}
	require.NoError(t, parseJSON(&c, ""))
	assert.Equal(t, "keep", c.DataDir)
}
