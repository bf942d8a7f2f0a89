package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSink_PutGetList(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "backups")

	sink, err := NewFileSink(dir)
	require.NoError(t, err)

	require.NoError(t, sink.Put(ctx, "b.json", []byte(`{"n":2}`)))
	require.NoError(t, sink.Put(ctx, "a.json", []byte(`{"n":1}`)))
	require.NoError(t, os.WriteFile(filepath.Join(sink.Dir(), "notes.txt"), []byte("x"), 0o600))

	data, err := sink.Get(ctx, "a.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(data))

	fi, err := os.Stat(filepath.Join(sink.Dir(), "a.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	names, err := sink.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json"}, names)
}

func TestFileSink_Overwrite(t *testing.T) {
	ctx := context.Background()
	sink, err := NewFileSink(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, sink.Put(ctx, "x.json", []byte("old")))
	require.NoError(t, sink.Put(ctx, "x.json", []byte("new")))

	data, err := sink.Get(ctx, "x.json")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestFileSink_RejectsPathNames(t *testing.T) {
	ctx := context.Background()
	sink, err := NewFileSink(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "../escape.json", "sub/dir.json"} {
		assert.Error(t, sink.Put(ctx, name, []byte("{}")), name)
		_, err := sink.Get(ctx, name)
		assert.Error(t, err, name)
	}
}

func TestFileSink_NotFound(t *testing.T) {
	sink, err := NewFileSink(t.TempDir())
	require.NoError(t, err)

	_, err = sink.Get(context.Background(), "missing.json")
	require.ErrorIs(t, err, ErrBackupNotFound)
}

func TestNewFileSink_DirIsAFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(f, nil, 0o600))

	_, err := NewFileSink(f)
	require.Error(t, err)
}
