package entries

import (
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/dmitrijs2005/gophdiary/internal/models"
)

// SortField selects the ordering column of a Query.
type SortField string

const (
	SortCreated SortField = "created"
	SortUpdated SortField = "updated"
	SortTitle   SortField = "title"
	SortWords   SortField = "words"
)

var sortColumns = map[SortField]string{
	SortCreated: "created_at",
	SortUpdated: "updated_at",
	SortTitle:   "title COLLATE NOCASE",
	SortWords:   "word_count",
}

// ParseSortField validates a user supplied sort key.
func ParseSortField(s string) (SortField, bool) {
	f := SortField(strings.ToLower(strings.TrimSpace(s)))
	_, ok := sortColumns[f]
	return f, ok
}

// Filter narrows a Query. Zero values mean "no constraint".
//
// From is inclusive and To is exclusive. OnThisDay matches entries created
// on the same month and day in earlier years (UTC calendar).
type Filter struct {
	Starred   *bool
	Archived  *bool
	Search    string
	From      time.Time
	To        time.Time
	OnThisDay *time.Time
	Sort      SortField
	Desc      bool
	Limit     uint64
	Offset    uint64
}

func (f Filter) build() sq.SelectBuilder {
	q := sq.Select(columns...).From("entries")

	if f.Starred != nil {
		q = q.Where(sq.Expr("COALESCE(is_starred, 0) = ?", *f.Starred))
	}
	if f.Archived != nil {
		q = q.Where(sq.Expr("COALESCE(is_archived, 0) = ?", *f.Archived))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + escapeLike(s) + "%"
		q = q.Where(sq.Or{
			sq.Expr(`title LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`content LIKE ? ESCAPE '\'`, pattern),
		})
	}
	if !f.From.IsZero() {
		q = q.Where(sq.GtOrEq{"created_at": models.FormatTimestamp(f.From)})
	}
	if !f.To.IsZero() {
		q = q.Where(sq.Lt{"created_at": models.FormatTimestamp(f.To)})
	}
	if f.OnThisDay != nil {
		day := f.OnThisDay.UTC()
		q = q.Where(sq.Eq{"substr(created_at, 6, 5)": day.Format("01-02")}).
			Where(sq.Lt{"substr(created_at, 1, 4)": day.Format("2006")})
	}

	col, ok := sortColumns[f.Sort]
	if !ok {
		col = sortColumns[SortCreated]
	}
	dir := " ASC"
	if f.Desc {
		dir = " DESC"
	}
	q = q.OrderBy(col+dir, "id"+dir)

	switch {
	case f.Limit > 0:
		q = q.Limit(f.Limit)
		if f.Offset > 0 {
			q = q.Offset(f.Offset)
		}
	case f.Offset > 0:
		q = q.Suffix("LIMIT -1 OFFSET ?", f.Offset)
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
