package models

import (
	"fmt"
	"time"
)

// Entry is one journal record as returned to callers: every field is
// populated and typed regardless of the schema era the row was written in.
type Entry struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	WordCount   int          `json:"wordCount"`
	IsStarred   bool         `json:"isStarred"`
	IsArchived  bool         `json:"isArchived"`
	IsEdited    bool         `json:"isEdited"`
	EditHistory []EditRecord `json:"editHistory"`
}

// EditRecord is one line of an entry's edit history. Changes holds the
// signed word-count delta, e.g. "+12" or "-4".
type EditRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Changes   string    `json:"changes"`
}

// NewEntry carries the caller-supplied fields of a create. A zero CreatedAt
// means "now".
type NewEntry struct {
	Title     string
	Content   string
	CreatedAt time.Time
}

// EntryPatch is a partial update. Nil fields are left untouched. The id and
// creation time are deliberately absent: they cannot be changed.
//
// IsEdited can only force the flag on; a false value is ignored.
type EntryPatch struct {
	Title      *string
	Content    *string
	IsStarred  *bool
	IsArchived *bool
	IsEdited   *bool
}

// Empty reports whether the patch carries no fields at all.
func (p EntryPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.IsStarred == nil && p.IsArchived == nil && p.IsEdited == nil
}

// Normalize fills defaults and repairs ordering invariants in place.
func (e *Entry) Normalize() {
	if e.EditHistory == nil {
		e.EditHistory = []EditRecord{}
	}
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	if e.UpdatedAt.Before(e.CreatedAt) {
		e.UpdatedAt = e.CreatedAt
	}
	if e.WordCount < 0 {
		e.WordCount = 0
	}
}

// LastEdit returns the timestamp of the newest history record, or the zero
// time if there is none.
func (e *Entry) LastEdit() time.Time {
	if len(e.EditHistory) == 0 {
		return time.Time{}
	}
	return e.EditHistory[len(e.EditHistory)-1].Timestamp
}

// FormatDelta renders the signed change between two word counts.
func FormatDelta(before, after int) string {
	return fmt.Sprintf("%+d", after-before)
}

// Ptr is a small helper for building patches.
func Ptr[T any](v T) *T {
	return &v
}
