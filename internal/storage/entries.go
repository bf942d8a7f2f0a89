package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/models"
	"github.com/dmitrijs2005/gophdiary/internal/repositories/entries"
)

// CreateEntry stores a new entry and returns its id. A zero CreatedAt means now.
func (s *Store) CreateEntry(ctx context.Context, in models.NewEntry) (string, error) {
	id, err := s.newID()
	if err != nil {
		return "", fmt.Errorf("create entry: generate id: %w", err)
	}

	created := in.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	created = created.UTC()

	e := models.Entry{
		ID:          id,
		Title:       in.Title,
		Content:     in.Content,
		CreatedAt:   created,
		UpdatedAt:   created,
		WordCount:   s.count(in.Content),
		EditHistory: []models.EditRecord{},
	}

	err = s.run(ctx, "create_entry", func(ctx context.Context, tx dbx.DBTX) error {
		return entries.NewSQLiteRepository(tx).Insert(ctx, &e)
	})
	if err != nil {
		return "", fmt.Errorf("create entry: %w", err)
	}

	s.log.Debug(ctx, "entry created", "id", id, "words", e.WordCount)
	return id, nil
}

// UpdateEntry applies a partial update. Updating a missing id is a no-op.
func (s *Store) UpdateEntry(ctx context.Context, id string, p models.EntryPatch) error {
	err := s.run(ctx, "update_entry", func(ctx context.Context, tx dbx.DBTX) error {
		return s.patch(ctx, entries.NewSQLiteRepository(tx), id, func(*models.Entry) models.EntryPatch { return p })
	})
	if err != nil {
		return fmt.Errorf("update entry %s: %w", id, err)
	}
	return nil
}

// ToggleStarred flips isStarred. Missing ids are ignored.
func (s *Store) ToggleStarred(ctx context.Context, id string) error {
	return s.toggle(ctx, "toggle_starred", id, func(e *models.Entry) models.EntryPatch {
		return models.EntryPatch{IsStarred: models.Ptr(!e.IsStarred)}
	})
}

// ToggleArchived flips isArchived. Missing ids are ignored.
func (s *Store) ToggleArchived(ctx context.Context, id string) error {
	return s.toggle(ctx, "toggle_archived", id, func(e *models.Entry) models.EntryPatch {
		return models.EntryPatch{IsArchived: models.Ptr(!e.IsArchived)}
	})
}

func (s *Store) toggle(ctx context.Context, op, id string, fn func(*models.Entry) models.EntryPatch) error {
	err := s.run(ctx, op, func(ctx context.Context, tx dbx.DBTX) error {
		return s.patch(ctx, entries.NewSQLiteRepository(tx), id, fn)
	})
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	return nil
}

// patch is the read-then-write core shared by updates and toggles.
func (s *Store) patch(ctx context.Context, repo entries.Repository, id string, build func(*models.Entry) models.EntryPatch) error {
	cur, err := repo.GetByID(ctx, id)
	if errors.Is(err, entries.ErrNotFound) {
		s.log.Debug(ctx, "update of missing entry ignored", "id", id)
		return nil
	}
	if err != nil {
		return err
	}

	s.apply(cur, build(cur))
	return repo.Update(ctx, cur)
}

// apply mutates e according to p. Word count and history follow content
// changes; a history record is appended only when the count moves. The
// previous count is taken from the old content, not the stored column.
func (s *Store) apply(e *models.Entry, p models.EntryPatch) {
	now := s.now().UTC()

	if p.Title != nil {
		e.Title = *p.Title
	}

	if p.Content != nil && *p.Content != e.Content {
		before := s.count(e.Content)
		after := s.count(*p.Content)
		e.Content = *p.Content
		e.WordCount = after
		if after != before {
			e.EditHistory = append(e.EditHistory, models.EditRecord{
				Timestamp: laterOf(now, e.LastEdit()),
				Changes:   models.FormatDelta(before, after),
			})
			e.IsEdited = true
		}
	}

	if p.IsStarred != nil {
		e.IsStarred = *p.IsStarred
	}
	if p.IsArchived != nil {
		e.IsArchived = *p.IsArchived
	}
	if p.IsEdited != nil && *p.IsEdited {
		e.IsEdited = true
	}

	e.UpdatedAt = laterOf(now, e.CreatedAt)
}

// DeleteEntry hard-deletes an entry. Missing ids are ignored.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	err := s.run(ctx, "delete_entry", func(ctx context.Context, tx dbx.DBTX) error {
		return entries.NewSQLiteRepository(tx).Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	return nil
}

// GetEntry returns the normalized entry or ErrEntryNotFound.
func (s *Store) GetEntry(ctx context.Context, id string) (*models.Entry, error) {
	var e *models.Entry
	err := s.run(ctx, "get_entry", func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		e, err = entries.NewSQLiteRepository(tx).GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get entry %s: %w", id, err)
	}
	e.WordCount = s.count(e.Content)
	return e, nil
}

// recount recomputes word counts in place. Rows written by older versions
// may carry a stale word_count column.
func (s *Store) recount(list []models.Entry) []models.Entry {
	for i := range list {
		list[i].WordCount = s.count(list[i].Content)
	}
	return list
}

// GetAllEntries returns every entry, archived included, in no guaranteed order.
func (s *Store) GetAllEntries(ctx context.Context) ([]models.Entry, error) {
	var out []models.Entry
	err := s.run(ctx, "get_all_entries", func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		out, err = entries.NewSQLiteRepository(tx).GetAll(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get all entries: %w", err)
	}
	return s.recount(out), nil
}

// ListEntries returns the entries matching f in the order f requests.
func (s *Store) ListEntries(ctx context.Context, f entries.Filter) ([]models.Entry, error) {
	var out []models.Entry
	err := s.run(ctx, "list_entries", func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		out, err = entries.NewSQLiteRepository(tx).Query(ctx, f)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return s.recount(out), nil
}
