package pipeline

import (
	"strings"

	"podforge/internal/script"
)

// voiceFor maps a speaker label to a configured voice. Matching is a
// case-insensitive substring check against the canonical host labels and
// the bare voice names, so "HOST A", "Host A (excited)" and "alex" all
// route to the Host A voice. Unrecognized speakers fall back to Host A:
// content is worth more than strict attribution.
func (p *Pipeline) voiceFor(speaker string) (string, bool) {
	label := strings.ToLower(speaker)
	switch {
	case strings.Contains(label, strings.ToLower(script.SpeakerHostA)),
		bareVoiceMatches(label, p.cfg.VoiceHostA):
		return p.cfg.VoiceHostA, true
	case strings.Contains(label, strings.ToLower(script.SpeakerHostB)),
		bareVoiceMatches(label, p.cfg.VoiceHostB):
		return p.cfg.VoiceHostB, true
	}
	return p.cfg.VoiceHostA, false
}

// bareVoiceMatches reports whether the speaker label mentions the voice's
// short name, the part after the final ":" of a model-qualified id.
func bareVoiceMatches(label, voiceID string) bool {
	name := voiceID
	if i := strings.LastIndex(voiceID, ":"); i >= 0 {
		name = voiceID[i+1:]
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	return strings.Contains(label, name)
}
