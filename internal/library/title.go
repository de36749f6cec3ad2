package library

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// normalizeTitle cleans control characters and stray separators out of a
// model-produced title and falls back to a generated one when nothing
// usable remains.
func normalizeTitle(title string, sources int) string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range strings.TrimSpace(title) {
		switch {
		case unicode.IsControl(r):
		case unicode.IsSpace(r):
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		default:
			cleaned.WriteRune(r)
			prevSpace = false
		}
	}
	result := strings.TrimSpace(cleaned.String())
	if result == "" {
		return cases.Title(language.Und).String(fmt.Sprintf("podcast from %d articles", sources))
	}
	return result
}
