package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/models"
	"github.com/dmitrijs2005/gophdiary/internal/repositories/entries"
	"github.com/dmitrijs2005/gophdiary/internal/repositories/settings"
)

var errMissingID = errors.New("entry without id")

// Snapshot reads every entry, archived included, and the normalized settings
// inside one transaction.
func (s *Store) Snapshot(ctx context.Context) ([]models.Entry, models.Settings, error) {
	var (
		list []models.Entry
		cur  models.Settings
	)
	err := s.run(ctx, "snapshot", func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if list, err = entries.NewSQLiteRepository(tx).GetAll(ctx); err != nil {
			return err
		}
		loaded, err := settings.NewSQLiteRepository(tx).Load(ctx)
		if err != nil {
			return err
		}
		if loaded != nil {
			cur = *loaded
		}
		return nil
	})
	if err != nil {
		return nil, models.Settings{}, fmt.Errorf("snapshot: %w", err)
	}
	return s.recount(list), cur.Normalized(), nil
}

// ReplaceAll clears the entries collection, inserts list and merges the
// present fields of patch into the settings record, all in one transaction.
// Word counts are recomputed from content. Any failure rolls everything back.
func (s *Store) ReplaceAll(ctx context.Context, list []models.Entry, patch *models.Settings) error {
	err := s.run(ctx, "replace_all", func(ctx context.Context, tx dbx.DBTX) error {
		er := entries.NewSQLiteRepository(tx)
		if err := er.Clear(ctx); err != nil {
			return err
		}
		for i := range list {
			e := list[i]
			if e.ID == "" {
				return fmt.Errorf("record %d: %w", i, errMissingID)
			}
			e.WordCount = s.count(e.Content)
			e.Normalize()
			if err := er.Insert(ctx, &e); err != nil {
				return err
			}
		}

		if patch == nil || patch.Empty() {
			return nil
		}
		sr := settings.NewSQLiteRepository(tx)
		cur, err := sr.Load(ctx)
		if err != nil {
			return err
		}
		merged := models.DefaultSettings()
		if cur != nil {
			merged = *cur
		}
		merged.Merge(*patch)
		return sr.Save(ctx, merged)
	})
	if err != nil {
		return fmt.Errorf("replace all: %w", err)
	}
	s.log.Info(ctx, "entries replaced", "count", len(list), "settings_merged", patch != nil && !patch.Empty())
	return nil
}
