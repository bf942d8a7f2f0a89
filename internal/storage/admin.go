package storage

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/models"
	"github.com/dmitrijs2005/gophdiary/internal/repositories/entries"
	"github.com/dmitrijs2005/gophdiary/internal/repositories/settings"
)

// Collection names a record collection for administrative operations.
type Collection string

const (
	CollectionEntries  Collection = "entries"
	CollectionSettings Collection = "settings"
)

func ParseCollection(s string) (Collection, error) {
	switch c := Collection(s); c {
	case CollectionEntries, CollectionSettings:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, s)
	}
}

// Keys lists the primary keys of a collection in ascending order.
func (s *Store) Keys(ctx context.Context, c Collection) ([]string, error) {
	var keys []string
	err := s.run(ctx, "keys", func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		switch c {
		case CollectionEntries:
			keys, err = entries.NewSQLiteRepository(tx).IDs(ctx)
		case CollectionSettings:
			keys, err = settings.NewSQLiteRepository(tx).Keys(ctx)
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownCollection, c)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("keys %s: %w", c, err)
	}
	return keys, nil
}

// DeleteByKey removes one record. Deleting the settings key resets the
// singleton to its defaults instead of leaving the collection empty.
func (s *Store) DeleteByKey(ctx context.Context, c Collection, key string) error {
	err := s.run(ctx, "delete_by_key", func(ctx context.Context, tx dbx.DBTX) error {
		switch c {
		case CollectionEntries:
			return entries.NewSQLiteRepository(tx).Delete(ctx, key)
		case CollectionSettings:
			repo := settings.NewSQLiteRepository(tx)
			if key == models.SettingsKey {
				return repo.Save(ctx, models.DefaultSettings())
			}
			return repo.Delete(ctx, key)
		default:
			return fmt.Errorf("%w: %q", ErrUnknownCollection, c)
		}
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", c, key, err)
	}
	return nil
}

// ClearAll deletes every entry and resets settings to defaults in one
// transaction.
func (s *Store) ClearAll(ctx context.Context) error {
	err := s.run(ctx, "clear_all", func(ctx context.Context, tx dbx.DBTX) error {
		if err := entries.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		repo := settings.NewSQLiteRepository(tx)
		if err := repo.Clear(ctx); err != nil {
			return err
		}
		return repo.Save(ctx, models.DefaultSettings())
	})
	if err != nil {
		return fmt.Errorf("clear all: %w", err)
	}
	s.log.Info(ctx, "all data cleared")
	return nil
}
