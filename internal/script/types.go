package script

import "strings"

// Canonical speaker labels the writer prompt demands. The parser accepts
// other values; voice routing decides what to do with them.
const (
	SpeakerHostA = "Host A"
	SpeakerHostB = "Host B"
)

// Turn is one attributed utterance in the dialogue. Index is assigned by
// parse position and is the only ordering key once turns are dispatched to
// parallel synthesis workers.
type Turn struct {
	Index   int    `json:"-"`
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Mode selects the editorial style of the generated podcast.
type Mode string

const (
	ModeNewsBrief Mode = "news-brief"
	ModeDeepDive  Mode = "deep-dive"
)

// ParseMode normalizes a user-supplied mode string. Anything mentioning
// "news" selects the brief mode; everything else falls back to deep-dive.
func ParseMode(value string) Mode {
	if strings.Contains(strings.ToLower(strings.TrimSpace(value)), "news") {
		return ModeNewsBrief
	}
	return ModeDeepDive
}
