package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/models"
	"github.com/dmitrijs2005/gophdiary/internal/repositories/settings"
)

// GetSettings returns the singleton record with defaults applied.
func (s *Store) GetSettings(ctx context.Context) (models.Settings, error) {
	var cur models.Settings
	err := s.run(ctx, "get_settings", func(ctx context.Context, tx dbx.DBTX) error {
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
		return models.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return cur.Normalized(), nil
}

func (s *Store) GetTheme(ctx context.Context) (models.Theme, error) {
	st, err := s.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	return st.ThemeOrDefault(), nil
}

func (s *Store) SetTheme(ctx context.Context, theme models.Theme) error {
	if _, err := models.ParseTheme(string(theme)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTheme, err)
	}
	return s.modifySettings(ctx, "set_theme", func(st *models.Settings) {
		st.Theme = models.Ptr(theme)
	})
}

func (s *Store) GetShowTitleField(ctx context.Context) (bool, error) {
	st, err := s.GetSettings(ctx)
	if err != nil {
		return false, err
	}
	return st.ShowTitleFieldOrDefault(), nil
}

func (s *Store) SetShowTitleField(ctx context.Context, show bool) error {
	return s.modifySettings(ctx, "set_show_title_field", func(st *models.Settings) {
		st.ShowTitleField = models.Ptr(show)
	})
}

func (s *Store) GetShowOnThisDay(ctx context.Context) (bool, error) {
	st, err := s.GetSettings(ctx)
	if err != nil {
		return false, err
	}
	return st.ShowOnThisDayOrDefault(), nil
}

func (s *Store) SetShowOnThisDay(ctx context.Context, show bool) error {
	return s.modifySettings(ctx, "set_show_on_this_day", func(st *models.Settings) {
		st.ShowOnThisDay = models.Ptr(show)
	})
}

// GetLastBackupTimestamp returns nil when no export has completed yet.
func (s *Store) GetLastBackupTimestamp(ctx context.Context) (*time.Time, error) {
	st, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return st.LastBackupTimestamp, nil
}

func (s *Store) SetLastBackupTimestamp(ctx context.Context, t time.Time) error {
	return s.modifySettings(ctx, "set_last_backup", func(st *models.Settings) {
		st.LastBackupTimestamp = models.Ptr(t.UTC())
	})
}

// modifySettings performs read-modify-write on the singleton. A missing
// record is logged and the change dropped; storage errors are returned.
func (s *Store) modifySettings(ctx context.Context, op string, fn func(*models.Settings)) error {
	err := s.run(ctx, op, func(ctx context.Context, tx dbx.DBTX) error {
		repo := settings.NewSQLiteRepository(tx)
		cur, err := repo.Load(ctx)
		if err != nil {
			return err
		}
		if cur == nil {
			s.log.Warn(ctx, "settings record missing, change dropped", "op", op)
			return nil
		}
		fn(cur)
		return repo.Save(ctx, *cur)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
