package migrations

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var destructive = regexp.MustCompile(`(?i)\b(DROP\s+(TABLE|COLUMN|INDEX)|DELETE\s+FROM|UPDATE\s+\w+\s+SET|RENAME)\b`)

func TestMigrations_OrderedAndAdditive(t *testing.T) {
	names, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	require.Len(t, names, 3)

	for i, name := range names {
		assert.True(t, strings.HasPrefix(name, []string{"00001_", "00002_", "00003_"}[i]), name)

		body, err := fs.ReadFile(Migrations, name)
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", name)
		assert.NotContains(t, string(body), "-- +goose Down", "steps are forward-only: %s", name)
		assert.False(t, destructive.Match(body), "destructive statement in %s", name)
	}
}
