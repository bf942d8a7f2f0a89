// Package stats derives writing statistics from a list of entries.
package stats

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/dmitrijs2005/gophdiary/internal/models"
)

type Summary struct {
	Total    int
	Active   int
	Starred  int
	Archived int
	Edited   int

	Words        int
	AverageWords float64

	// Streaks count consecutive calendar days with at least one entry.
	// The current streak survives until the end of the day after the last entry.
	CurrentStreak int
	LongestStreak int

	ByHour [24]int

	First time.Time
	Last  time.Time
}

// Compute summarizes list as of now. Days and hours are taken in loc.
func Compute(list []models.Entry, now time.Time, loc *time.Location) Summary {
	if loc == nil {
		loc = time.UTC
	}

	s := Summary{
		Total:    len(list),
		Starred:  lo.CountBy(list, func(e models.Entry) bool { return e.IsStarred }),
		Archived: lo.CountBy(list, func(e models.Entry) bool { return e.IsArchived }),
		Edited:   lo.CountBy(list, func(e models.Entry) bool { return e.IsEdited }),
		Words:    lo.SumBy(list, func(e models.Entry) int { return e.WordCount }),
	}
	s.Active = s.Total - s.Archived
	if s.Total == 0 {
		return s
	}
	s.AverageWords = float64(s.Words) / float64(s.Total)

	for _, e := range list {
		c := e.CreatedAt.In(loc)
		s.ByHour[c.Hour()]++
		if s.First.IsZero() || e.CreatedAt.Before(s.First) {
			s.First = e.CreatedAt
		}
		if e.CreatedAt.After(s.Last) {
			s.Last = e.CreatedAt
		}
	}

	days := lo.Uniq(lo.Map(list, func(e models.Entry, _ int) time.Time {
		return day(e.CreatedAt, loc)
	}))
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	run := 0
	for i, d := range days {
		if i > 0 && days[i-1].AddDate(0, 0, 1).Equal(d) {
			run++
		} else {
			run = 1
		}
		s.LongestStreak = max(s.LongestStreak, run)
	}

	today := day(now, loc)
	lastDay := days[len(days)-1]
	if lastDay.Equal(today) || lastDay.AddDate(0, 0, 1).Equal(today) {
		s.CurrentStreak = run
	}

	return s
}

func day(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
