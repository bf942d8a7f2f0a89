// Package wordcount implements the word-count function applied to every
// entry content write.
//
// Markup is stripped first: block-level tags become spaces, inline tags are
// removed without a separator and entities are decoded. Each
// Han ideograph and each kana counts as one word; everything else is split on
// whitespace and every token holding at least one letter or digit counts once.
package wordcount

import (
	"html"
	"regexp"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicy = bluemonday.StrictPolicy()

	// blockTag matches opening and closing tags that break a line when
	// rendered, so words on either side stay apart.
	blockTag = regexp.MustCompile(`(?i)</?\s*(?:p|div|br|hr|li|ul|ol|dl|dt|dd|h[1-6]|blockquote|pre|table|thead|tbody|tr|td|th|section|article|header|footer|aside|nav|figure|figcaption)\b[^>]*>`)
)

// Count returns the number of word units in markup.
func Count(markup string) int {
	if markup == "" {
		return 0
	}
	return countText(PlainText(markup))
}

// PlainText strips tags and decodes entity escapes.
func PlainText(markup string) string {
	return html.UnescapeString(stripPolicy.Sanitize(blockTag.ReplaceAllString(markup, " ")))
}

func countText(text string) int {
	var (
		n        int
		inToken  bool
		hasAlnum bool
	)
	flush := func() {
		if inToken && hasAlnum {
			n++
		}
		inToken, hasAlnum = false, false
	}

	for _, r := range text {
		switch {
		case isCJK(r):
			flush()
			n++
		case unicode.IsSpace(r):
			flush()
		default:
			inToken = true
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				hasAlnum = true
			}
		}
	}
	flush()
	return n
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r)
}
