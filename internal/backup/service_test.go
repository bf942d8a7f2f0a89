package backup

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophdiary/internal/metrics"
	"github.com/dmitrijs2005/gophdiary/internal/models"
	"github.com/dmitrijs2005/gophdiary/internal/storage"
)

func newStore(t *testing.T) *storage.Store {
	t.Helper()
	s := storage.New(storage.Options{Dir: t.TempDir(), Now: func() time.Time { return now }})
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestService(st Store) *Service {
	svc := NewService(st, nil, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func TestExport_WritesSnapshotAndRecordsTimestamp(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	id, err := st.CreateEntry(ctx, models.NewEntry{Content: "one two"})
	require.NoError(t, err)
	require.NoError(t, st.ToggleArchived(ctx, id))

	var buf bytes.Buffer
	require.NoError(t, newTestService(st).Export(ctx, &buf))

	snap, err := Decode(buf.Bytes(), now)
	require.NoError(t, err)
	require.Len(t, snap.Entries, 1, "archived entries are exported")
	assert.Equal(t, id, snap.Entries[0].ID)
	assert.Nil(t, snap.Settings.LastBackupTimestamp, "snapshot is taken before the timestamp is recorded")

	last, err := st.GetLastBackupTimestamp(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.True(t, last.Equal(now))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestExport_WriteFailureLeavesTimestamp(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	reg := prometheus.NewRegistry()
	svc := NewService(st, nil, metrics.NewCollector(reg))

	require.Error(t, svc.Export(ctx, failingWriter{}))

	last, err := st.GetLastBackupTimestamp(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP gophdiary_backups_total Exports and restores by result.
# TYPE gophdiary_backups_total counter
gophdiary_backups_total{kind="export",result="error"} 1
`), "gophdiary_backups_total"))
}

func TestRestore_InvalidDocumentLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	id, err := st.CreateEntry(ctx, models.NewEntry{Content: "keep me"})
	require.NoError(t, err)
	require.NoError(t, st.SetTheme(ctx, models.ThemeDark))

	svc := newTestService(st)
	for _, doc := range []string{"garbage", `{"diaries":{}}`, `{"diaries":[{"id":"x"},"y"]}`} {
		err := svc.Restore(ctx, strings.NewReader(doc))
		require.ErrorIs(t, err, ErrInvalidBackupFormat, doc)
		assert.NotErrorIs(t, err, ErrRestoreFailed)
	}

	all, err := st.GetAllEntries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, id, all[0].ID)
	theme, err := st.GetTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, theme)
}

func TestRestore_DuplicateIDsRollBack(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	_, err := st.CreateEntry(ctx, models.NewEntry{Content: "original"})
	require.NoError(t, err)

	doc := `{"diaries":[{"id":"d","content":"a"},{"id":"d","content":"b"}],"settings":{"theme":"dark"}}`
	err = newTestService(st).Restore(ctx, strings.NewReader(doc))
	require.ErrorIs(t, err, ErrRestoreFailed)

	all, err := st.GetAllEntries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "original", all[0].Content)
	theme, err := st.GetTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeLight, theme)
}

func TestRestore_MergesOnlyPresentSettings(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	require.NoError(t, st.SetShowOnThisDay(ctx, false))

	doc := `{"diaries":[{"id":"r1","content":"<b>hello</b> there","wordCount":99}],"settings":{"theme":"dark","lastBackupTimestamp":null}}`
	require.NoError(t, newTestService(st).Restore(ctx, strings.NewReader("\ufeff"+doc)))

	got, err := st.GetEntry(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.WordCount, "word count is recomputed")

	cur, err := st.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, *cur.Theme)
	assert.False(t, *cur.ShowOnThisDay)
	assert.True(t, *cur.ShowTitleField)
	assert.Nil(t, cur.LastBackupTimestamp)
}

func TestRestore_KeepsLastBackupTimestampWhenAbsentOrNull(t *testing.T) {
	tests := []struct {
		name     string
		settings string
	}{
		{"no settings object", ``},
		{"field absent", `,"settings":{"theme":"dark"}`},
		{"field null", `,"settings":{"lastBackupTimestamp":null}`},
		{"field unreadable", `,"settings":{"lastBackupTimestamp":"yesterday-ish"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			st := newStore(t)
			require.NoError(t, st.SetLastBackupTimestamp(ctx, t0))

			doc := `{"diaries":[{"id":"k","content":"kept"}]` + tt.settings + `}`
			require.NoError(t, newTestService(st).Restore(ctx, strings.NewReader(doc)))

			got, err := st.GetLastBackupTimestamp(ctx)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, t0.Equal(*got), "got %v", *got)
		})
	}
}

func TestRestore_WrongTypedEntryFieldsUseDefaults(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	_, err := st.CreateEntry(ctx, models.NewEntry{Content: "before restore"})
	require.NoError(t, err)

	doc := `{"diaries":[{"id":"a","content":"x y","wordCount":"3","isStarred":"true","title":5}]}`
	require.NoError(t, newTestService(st).Restore(ctx, strings.NewReader(doc)))

	all, err := st.GetAllEntries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	got := all[0]
	assert.Equal(t, "a", got.ID)
	assert.Equal(t, "", got.Title)
	assert.Equal(t, 2, got.WordCount)
	assert.False(t, got.IsStarred)
}

func TestScenario_ExportThenRestoreIntoFreshStore(t *testing.T) {
	ctx := context.Background()
	src := newStore(t)

	id, err := src.CreateEntry(ctx, models.NewEntry{Content: "今天天氣很好 today nice"})
	require.NoError(t, err)
	require.NoError(t, src.UpdateEntry(ctx, id, models.EntryPatch{Content: models.Ptr("今天天氣很好 today was nice")}))
	require.NoError(t, src.ToggleArchived(ctx, id))

	var buf bytes.Buffer
	require.NoError(t, newTestService(src).Export(ctx, &buf))

	dst := newStore(t)
	_, err = dst.CreateEntry(ctx, models.NewEntry{Content: "to be replaced"})
	require.NoError(t, err)
	require.NoError(t, newTestService(dst).Restore(ctx, &buf))

	all, err := dst.GetAllEntries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	got := all[0]
	assert.Equal(t, id, got.ID)
	assert.True(t, got.IsArchived)
	assert.True(t, got.IsEdited)
	assert.Equal(t, 9, got.WordCount)
	require.Len(t, got.EditHistory, 1)
	assert.Equal(t, "+1", got.EditHistory[0].Changes)
}

func TestExportTo_RestoreFrom_FileSink(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	_, err := st.CreateEntry(ctx, models.NewEntry{Content: "via file"})
	require.NoError(t, err)

	sink, err := NewFileSink(t.TempDir())
	require.NoError(t, err)
	svc := newTestService(st)

	name := BackupName(now)
	require.NoError(t, svc.ExportTo(ctx, sink, name))
	require.NoError(t, st.ClearAll(ctx))

	require.NoError(t, svc.RestoreFrom(ctx, sink, name))
	all, err := st.GetAllEntries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "via file", all[0].Content)

	err = svc.RestoreFrom(ctx, sink, "nope.json")
	require.ErrorIs(t, err, ErrBackupNotFound)
}

type stubStore struct {
	replaceErr error
	replaced   bool
}

func (s *stubStore) Snapshot(context.Context) ([]models.Entry, models.Settings, error) {
	return nil, models.Settings{}, errors.New("snapshot failed")
}

func (s *stubStore) ReplaceAll(context.Context, []models.Entry, *models.Settings) error {
	s.replaced = true
	return s.replaceErr
}

func (s *stubStore) SetLastBackupTimestamp(context.Context, time.Time) error { return nil }

func TestService_StoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("database is locked")
	st := &stubStore{replaceErr: cause}
	svc := newTestService(st)

	require.Error(t, svc.Export(ctx, &bytes.Buffer{}))

	err := svc.Restore(ctx, strings.NewReader(`{"diaries":[]}`))
	require.ErrorIs(t, err, ErrRestoreFailed)
	require.ErrorIs(t, err, cause)
	assert.True(t, st.replaced)
}
