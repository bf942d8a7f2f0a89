package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophdiary/internal/models"
	"github.com/dmitrijs2005/gophdiary/internal/wordcount"
)

const (
	listTimeLayout = "2006-01-02 15:04"
	headlineRunes  = 60
)

func printJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func boolToState(v bool, yes, no string) string {
	if v {
		return yes
	}
	return no
}

// headline is the title, or the first line of the plain-text content.
func headline(e models.Entry) string {
	s := strings.TrimSpace(e.Title)
	if s == "" {
		s = strings.TrimSpace(wordcount.PlainText(e.Content))
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = strings.TrimSpace(s[:i])
		}
	}
	if utf8.RuneCountInString(s) > headlineRunes {
		s = string([]rune(s)[:headlineRunes-1]) + "…"
	}
	return s
}

func entryLine(e models.Entry) string {
	return fmt.Sprintf("%s  %s  %s%s  %5d  %s",
		e.ID,
		e.CreatedAt.Local().Format(listTimeLayout),
		boolToState(e.IsStarred, "*", "-"),
		boolToState(e.IsArchived, "A", "-"),
		e.WordCount,
		headline(e),
	)
}

func printEntry(w io.Writer, e models.Entry) error {
	var b strings.Builder
	fmt.Fprintf(&b, "id:       %s\n", e.ID)
	if e.Title != "" {
		fmt.Fprintf(&b, "title:    %s\n", e.Title)
	}
	fmt.Fprintf(&b, "created:  %s\n", e.CreatedAt.Local().Format(listTimeLayout))
	fmt.Fprintf(&b, "updated:  %s\n", e.UpdatedAt.Local().Format(listTimeLayout))
	fmt.Fprintf(&b, "words:    %d\n", e.WordCount)
	fmt.Fprintf(&b, "starred:  %s\n", boolToState(e.IsStarred, "yes", "no"))
	fmt.Fprintf(&b, "archived: %s\n", boolToState(e.IsArchived, "yes", "no"))
	fmt.Fprintf(&b, "edited:   %s\n", boolToState(e.IsEdited, "yes", "no"))
	for _, r := range e.EditHistory {
		fmt.Fprintf(&b, "  %s  %s\n", r.Timestamp.Local().Format(listTimeLayout), r.Changes)
	}
	b.WriteString("\n")
	b.WriteString(e.Content)
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
