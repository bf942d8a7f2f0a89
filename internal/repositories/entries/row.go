package entries

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/models"
)

// entryRow mirrors the entries table with every column nullable, so rows
// written under any schema version scan without error.
type entryRow struct {
	ID          string         `db:"id"`
	Title       sql.NullString `db:"title"`
	Content     sql.NullString `db:"content"`
	CreatedAt   sql.NullString `db:"created_at"`
	UpdatedAt   sql.NullString `db:"updated_at"`
	WordCount   sql.NullInt64  `db:"word_count"`
	IsStarred   sql.NullBool   `db:"is_starred"`
	IsArchived  sql.NullBool   `db:"is_archived"`
	IsEdited    sql.NullBool   `db:"is_edited"`
	EditHistory sql.NullString `db:"edit_history"`
}

var columns = []string{
	"id", "title", "content", "created_at", "updated_at", "word_count",
	"is_starred", "is_archived", "is_edited", "edit_history",
}

func (r entryRow) toModel() models.Entry {
	created, createdOK := parseTime(r.CreatedAt)
	updated, updatedOK := parseTime(r.UpdatedAt)
	switch {
	case !createdOK && updatedOK:
		created = updated
	case createdOK && !updatedOK:
		updated = created
	case !createdOK && !updatedOK:
		created = time.Unix(0, 0).UTC()
		updated = created
	}

	e := models.Entry{
		ID:          r.ID,
		Title:       r.Title.String,
		Content:     r.Content.String,
		CreatedAt:   created,
		UpdatedAt:   updated,
		WordCount:   int(r.WordCount.Int64),
		IsStarred:   r.IsStarred.Valid && r.IsStarred.Bool,
		IsArchived:  r.IsArchived.Valid && r.IsArchived.Bool,
		IsEdited:    r.IsEdited.Valid && r.IsEdited.Bool,
		EditHistory: decodeHistory(r.EditHistory),
	}
	e.Normalize()
	return e
}

func parseTime(s sql.NullString) (time.Time, bool) {
	if !s.Valid {
		return time.Time{}, false
	}
	t, err := models.ParseTimestamp(s.String)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func decodeHistory(s sql.NullString) []models.EditRecord {
	out := []models.EditRecord{}
	if !s.Valid || s.String == "" {
		return out
	}
	if err := json.Unmarshal([]byte(s.String), &out); err != nil || out == nil {
		return []models.EditRecord{}
	}
	return out
}

func encodeHistory(h []models.EditRecord) (string, error) {
	if h == nil {
		h = []models.EditRecord{}
	}
	b, err := json.Marshal(h)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
