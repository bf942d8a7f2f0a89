package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophdiary/internal/models"
)

func TestSnapshot_IncludesArchivedAndSettings(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateEntry(ctx, models.NewEntry{Content: "kept"})
	require.NoError(t, err)
	require.NoError(t, s.ToggleArchived(ctx, id))
	require.NoError(t, s.SetTheme(ctx, models.ThemeDark))

	list, st, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsArchived)
	assert.Equal(t, models.ThemeDark, st.ThemeOrDefault())
	assert.True(t, st.ShowTitleFieldOrDefault())
}

func TestReplaceAll_ReplacesAndMerges(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	old, err := s.CreateEntry(ctx, models.NewEntry{Content: "old"})
	require.NoError(t, err)
	require.NoError(t, s.SetShowTitleField(ctx, false))

	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	incoming := []models.Entry{
		{ID: "r1", Content: "restored words here", CreatedAt: created, UpdatedAt: created, WordCount: 999, IsStarred: true},
		{ID: "r2", Content: "two", CreatedAt: created, UpdatedAt: created},
	}
	require.NoError(t, s.ReplaceAll(ctx, incoming, &models.Settings{Theme: models.Ptr(models.ThemeDark)}))

	_, err = s.GetEntry(ctx, old)
	require.ErrorIs(t, err, ErrEntryNotFound, "restore is a replace, not a merge")

	r1, err := s.GetEntry(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 3, r1.WordCount, "word count is recomputed")
	assert.True(t, r1.IsStarred)
	assert.Equal(t, []models.EditRecord{}, r1.EditHistory)

	st, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, st.ThemeOrDefault())
	assert.False(t, st.ShowTitleFieldOrDefault(), "fields absent from the patch are preserved")
}

func TestReplaceAll_FailureRollsBackBothCollections(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	keep, err := s.CreateEntry(ctx, models.NewEntry{Content: "precious"})
	require.NoError(t, err)

	now := time.Now().UTC()
	dup := []models.Entry{
		{ID: "same", Content: "a", CreatedAt: now, UpdatedAt: now},
		{ID: "same", Content: "b", CreatedAt: now, UpdatedAt: now},
	}
	err = s.ReplaceAll(ctx, dup, &models.Settings{Theme: models.Ptr(models.ThemeDark)})
	require.Error(t, err)

	got, err := s.GetEntry(ctx, keep)
	require.NoError(t, err)
	assert.Equal(t, "precious", got.Content)

	keys, err := s.Keys(ctx, CollectionEntries)
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, keys)

	theme, err := s.GetTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeLight, theme)
}

func TestReplaceAll_RejectsMissingID(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.ReplaceAll(context.Background(), []models.Entry{{Content: "x"}}, nil)
	require.ErrorIs(t, err, errMissingID)
}
