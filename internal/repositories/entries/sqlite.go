package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/models"
)

var _ Repository = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, e *models.Entry) error {
	history, err := encodeHistory(e.EditHistory)
	if err != nil {
		return fmt.Errorf("failed to encode history of entry %s: %w", e.ID, err)
	}

	query, args, err := sq.Insert("entries").
		Columns(columns...).
		Values(
			e.ID, e.Title, e.Content,
			models.FormatTimestamp(e.CreatedAt), models.FormatTimestamp(e.UpdatedAt),
			e.WordCount, e.IsStarred, e.IsArchived, e.IsEdited, history,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert for entry %s: %w", e.ID, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert entry %s: %w", e.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, e *models.Entry) error {
	history, err := encodeHistory(e.EditHistory)
	if err != nil {
		return fmt.Errorf("failed to encode history of entry %s: %w", e.ID, err)
	}

	query, args, err := sq.Update("entries").
		SetMap(map[string]any{
			"title":        e.Title,
			"content":      e.Content,
			"updated_at":   models.FormatTimestamp(e.UpdatedAt),
			"word_count":   e.WordCount,
			"is_starred":   e.IsStarred,
			"is_archived":  e.IsArchived,
			"is_edited":    e.IsEdited,
			"edit_history": history,
		}).
		Where(sq.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update for entry %s: %w", e.ID, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update entry %s: %w", e.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to update entry %s: %w", e.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	query, args, err := sq.Select(columns...).From("entries").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select for entry %s: %w", id, err)
	}

	var row entryRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get entry %s: %w", id, err)
	}

	e := row.toModel()
	return &e, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Entry, error) {
	query, args, err := sq.Select(columns...).From("entries").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}
	return r.selectEntries(ctx, query, args)
}

func (r *SQLiteRepository) Query(ctx context.Context, f Filter) ([]models.Entry, error) {
	query, args, err := f.build().ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build entry query: %w", err)
	}
	return r.selectEntries(ctx, query, args)
}

func (r *SQLiteRepository) selectEntries(ctx context.Context, query string, args []any) ([]models.Entry, error) {
	var rows []entryRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}

	out := make([]models.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	query, args, err := sq.Delete("entries").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete for entry %s: %w", id, err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) IDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	if err := sqlx.SelectContext(ctx, r.db, &ids, `SELECT id FROM entries ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list entry ids: %w", err)
	}
	return ids, nil
}
