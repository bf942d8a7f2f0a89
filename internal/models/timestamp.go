package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StorageLayout is the fixed-width UTC layout used for persisted timestamps.
// Fixed width keeps lexical order equal to chronological order, which the
// created_at range filters rely on.
const StorageLayout = "2006-01-02T15:04:05.000000000Z07:00"

var ErrEmptyTimestamp = errors.New("empty timestamp")

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// FormatTimestamp renders t in StorageLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(StorageLayout)
}

// ParseTimestamp accepts every representation older records may carry:
// RFC 3339 with or without fraction, SQLite's "YYYY-MM-DD HH:MM:SS", a bare
// date, or Unix time as digits (milliseconds, or seconds for short values).
// The result is always UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyTimestamp
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n >= 1e11 || n <= -1e11 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}

	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
