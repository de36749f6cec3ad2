package script

import (
	"fmt"
	"strings"
)

// Source identifies one article that fed the script, keyed by its original
// position in the input URL list.
type Source struct {
	Index int
	URL   string
}

// RenderTranscript produces the human-readable transcript: episode title,
// source list, then one line per turn.
func RenderTranscript(title string, sources []Source, turns []Turn) string {
	var b strings.Builder
	b.WriteString("=== ")
	b.WriteString(strings.TrimSpace(title))
	b.WriteString(" ===\n\n")
	for _, src := range sources {
		fmt.Fprintf(&b, "Source %d: %s\n", src.Index+1, src.URL)
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", 40))
	b.WriteString("\n\n")
	for _, turn := range turns {
		fmt.Fprintf(&b, "%s: %s\n\n", turn.Speaker, turn.Text)
	}
	return b.String()
}
