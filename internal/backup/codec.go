package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/dmitrijs2005/gophdiary/internal/models"
)

var (
	ErrInvalidBackupFormat = errors.New("invalid backup format")
	ErrRestoreFailed       = errors.New("restore failed")
)

// Snapshot is the in-memory form of a backup file. Settings fields are
// pointers: a field left nil by Decode was absent or unusable in the file.
type Snapshot struct {
	Entries    []models.Entry
	Settings   models.Settings
	ExportDate time.Time
}

type wireSnapshot struct {
	Diaries    []wireEntry  `json:"diaries"`
	Settings   wireSettings `json:"settings"`
	ExportDate string       `json:"exportDate"`
}

type wireEntry struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	CreatedAt   flexTime   `json:"createdAt"`
	UpdatedAt   flexTime   `json:"updatedAt"`
	WordCount   float64    `json:"wordCount"`
	IsStarred   bool       `json:"isStarred"`
	IsArchived  bool       `json:"isArchived"`
	IsEdited    bool       `json:"isEdited"`
	EditHistory []wireEdit `json:"editHistory"`
}

type wireEdit struct {
	Timestamp flexTime `json:"timestamp"`
	Changes   string   `json:"changes"`
}

type wireSettings struct {
	Theme               models.Theme `json:"theme"`
	LastBackupTimestamp *string      `json:"lastBackupTimestamp"`
	ShowTitleField      bool         `json:"showTitleField"`
	ShowOnThisDay       bool         `json:"showOnThisDay"`
}

// flexTime decodes an ISO string, a numeric Unix time or null. A value it
// cannot read leaves it unset rather than failing the whole document.
type flexTime struct {
	t  time.Time
	ok bool
}

func (f flexTime) MarshalJSON() ([]byte, error) {
	if !f.ok {
		return []byte("null"), nil
	}
	return json.Marshal(models.FormatTimestamp(f.t))
}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	*f = flexTime{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	var raw string
	if b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil
		}
	} else {
		n, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return nil
		}
		raw = strconv.FormatInt(int64(n), 10)
	}

	if t, err := models.ParseTimestamp(raw); err == nil {
		f.t, f.ok = t, true
	}
	return nil
}

func stamp(t time.Time) flexTime {
	return flexTime{t: t, ok: true}
}

// Encode renders s as indented JSON. Settings are written in normalized form.
func Encode(s Snapshot) ([]byte, error) {
	st := s.Settings.Normalized()
	w := wireSnapshot{
		Diaries: lo.Map(s.Entries, func(e models.Entry, _ int) wireEntry {
			return wireEntry{
				ID:         e.ID,
				Title:      e.Title,
				Content:    e.Content,
				CreatedAt:  stamp(e.CreatedAt),
				UpdatedAt:  stamp(e.UpdatedAt),
				WordCount:  float64(e.WordCount),
				IsStarred:  e.IsStarred,
				IsArchived: e.IsArchived,
				IsEdited:   e.IsEdited,
				EditHistory: lo.Map(e.EditHistory, func(r models.EditRecord, _ int) wireEdit {
					return wireEdit{Timestamp: stamp(r.Timestamp), Changes: r.Changes}
				}),
			}
		}),
		Settings: wireSettings{
			Theme:          st.ThemeOrDefault(),
			ShowTitleField: st.ShowTitleFieldOrDefault(),
			ShowOnThisDay:  st.ShowOnThisDayOrDefault(),
		},
		ExportDate: models.FormatTimestamp(s.ExportDate),
	}
	if w.Diaries == nil {
		w.Diaries = []wireEntry{}
	}
	if st.LastBackupTimestamp != nil {
		w.Settings.LastBackupTimestamp = lo.ToPtr(models.FormatTimestamp(*st.LastBackupTimestamp))
	}

	return json.MarshalIndent(w, "", "  ")
}

// Decode parses a backup document. Only the document shape is checked
// strictly: the fields inside each entry and the settings object are read
// best-effort.
// now fills timestamps an entry does not carry.
func Decode(data []byte, now time.Time) (*Snapshot, error) {
	var raw struct {
		Diaries    json.RawMessage `json:"diaries"`
		Settings   json.RawMessage `json:"settings"`
		ExportDate flexTime        `json:"exportDate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackupFormat, err)
	}

	diaries := bytes.TrimSpace(raw.Diaries)
	if len(diaries) == 0 || diaries[0] != '[' {
		return nil, fmt.Errorf("%w: diaries must be an array", ErrInvalidBackupFormat)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(diaries, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackupFormat, err)
	}

	snap := &Snapshot{
		Entries:  make([]models.Entry, 0, len(items)),
		Settings: decodeSettings(raw.Settings),
	}
	if raw.ExportDate.ok {
		snap.ExportDate = raw.ExportDate.t
	}

	for i, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			return nil, fmt.Errorf("%w: diaries[%d] is not an object", ErrInvalidBackupFormat, i)
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			return nil, fmt.Errorf("%w: diaries[%d]: %v", ErrInvalidBackupFormat, i, err)
		}
		e, err := decodeEntry(fields, now)
		if err != nil {
			return nil, err
		}
		snap.Entries = append(snap.Entries, e)
	}

	return snap, nil
}

// decodeEntry reads each field of an entry on its own. A value of the wrong
// type is treated as absent.
func decodeEntry(fields map[string]json.RawMessage, now time.Time) (models.Entry, error) {
	e := models.Entry{
		ID:          decodeString(fields["id"]),
		Title:       decodeString(fields["title"]),
		Content:     decodeString(fields["content"]),
		WordCount:   decodeInt(fields["wordCount"]),
		IsStarred:   lo.FromPtr(decodeBool(fields["isStarred"])),
		IsArchived:  lo.FromPtr(decodeBool(fields["isArchived"])),
		IsEdited:    lo.FromPtr(decodeBool(fields["isEdited"])),
		EditHistory: []models.EditRecord{},
	}
	if e.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return models.Entry{}, fmt.Errorf("generate id: %w", err)
		}
		e.ID = id.String()
	}

	created, updated := decodeTime(fields["createdAt"]), decodeTime(fields["updatedAt"])
	switch {
	case created.ok && updated.ok:
		e.CreatedAt, e.UpdatedAt = created.t, updated.t
	case created.ok:
		e.CreatedAt, e.UpdatedAt = created.t, created.t
	case updated.ok:
		e.CreatedAt, e.UpdatedAt = updated.t, updated.t
	default:
		e.CreatedAt, e.UpdatedAt = now, now
	}

	var history []json.RawMessage
	if json.Unmarshal(fields["editHistory"], &history) != nil {
		history = nil
	}
	var prev time.Time
	for _, item := range history {
		var rec map[string]json.RawMessage
		if json.Unmarshal(item, &rec) != nil || rec == nil {
			continue
		}
		ts := e.UpdatedAt
		if ft := decodeTime(rec["timestamp"]); ft.ok {
			ts = ft.t
		}
		if ts.Before(prev) {
			ts = prev
		}
		prev = ts
		e.EditHistory = append(e.EditHistory, models.EditRecord{Timestamp: ts.UTC(), Changes: decodeString(rec["changes"])})
	}

	e.Normalize()
	return e, nil
}

func decodeString(v json.RawMessage) string {
	var s string
	if len(v) == 0 || json.Unmarshal(v, &s) != nil {
		return ""
	}
	return s
}

func decodeInt(v json.RawMessage) int {
	var n float64
	if len(v) == 0 || json.Unmarshal(v, &n) != nil {
		return 0
	}
	return int(n)
}

func decodeTime(v json.RawMessage) flexTime {
	var ft flexTime
	if len(v) == 0 || json.Unmarshal(v, &ft) != nil {
		return flexTime{}
	}
	return ft
}

// decodeSettings reads each field on its own so one bad value does not
// discard the others.
func decodeSettings(raw json.RawMessage) models.Settings {
	var out models.Settings

	var fields map[string]json.RawMessage
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' || json.Unmarshal(raw, &fields) != nil {
		return out
	}

	var s string
	if v, ok := fields["theme"]; ok && json.Unmarshal(v, &s) == nil {
		if theme, err := models.ParseTheme(s); err == nil {
			out.Theme = &theme
		}
	}
	if ft := decodeTime(fields["lastBackupTimestamp"]); ft.ok {
		out.LastBackupTimestamp = &ft.t
	}
	out.ShowTitleField = decodeBool(fields["showTitleField"])
	out.ShowOnThisDay = decodeBool(fields["showOnThisDay"])
	return out
}

func decodeBool(v json.RawMessage) *bool {
	var b *bool
	if len(v) == 0 || json.Unmarshal(v, &b) != nil {
		return nil
	}
	return b
}
