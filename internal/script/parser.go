package script

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Wrapper keys the model sometimes puts around the dialogue list.
var wrapperKeys = []string{"script", "dialogue", "content"}

var fallbackTurnPattern = regexp.MustCompile(`(?s)"speaker"\s*:\s*"(Host [AB])".*?"text"\s*:\s*"(.*?)"`)

// Parse recovers an ordered list of dialogue turns from raw model output.
// It strips code fences, attempts a strict JSON decode (unwrapping a
// recognized wrapper object if present), filters elements to those carrying
// both speaker and text, and falls back to a literal pattern scan when the
// structure is broken. An empty slice means nothing was recoverable.
func Parse(raw string) []Turn {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	clean := stripCodeFence(raw)

	if turns := parseStrict(clean); len(turns) > 0 {
		return turns
	}
	return parseFallback(raw)
}

// ExtractTitle pulls the episode title out of an object-shaped payload.
// Returns "" when the payload is not an object or has no usable title.
func ExtractTitle(raw string) string {
	clean := stripCodeFence(raw)
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return ""
	}
	var title string
	if err := json.Unmarshal(payload["title"], &title); err != nil {
		return ""
	}
	return strings.TrimSpace(title)
}

func parseStrict(clean string) []Turn {
	var value any
	if err := json.Unmarshal([]byte(clean), &value); err != nil {
		return nil
	}

	if obj, ok := value.(map[string]any); ok {
		for _, key := range wrapperKeys {
			if inner, ok := obj[key].([]any); ok {
				value = inner
				break
			}
		}
	}

	list, ok := value.([]any)
	if !ok {
		return nil
	}

	turns := make([]Turn, 0, len(list))
	for _, element := range list {
		item, ok := element.(map[string]any)
		if !ok {
			continue
		}
		speaker, okSpeaker := item["speaker"].(string)
		text, okText := item["text"].(string)
		if !okSpeaker || !okText {
			continue
		}
		turns = append(turns, Turn{
			Index:   len(turns),
			Speaker: speaker,
			Text:    text,
		})
	}
	return turns
}

// parseFallback scans for literal speaker/text key pairs in occurrence order.
// Last line of defense when the JSON is slightly broken.
func parseFallback(raw string) []Turn {
	matches := fallbackTurnPattern.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil
	}
	turns := make([]Turn, 0, len(matches))
	for _, match := range matches {
		turns = append(turns, Turn{
			Index:   len(turns),
			Speaker: match[1],
			Text:    match[2],
		})
	}
	return turns
}

func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := trimmed[3:]
	if idx := strings.IndexByte(body, '\n'); idx >= 0 && !strings.ContainsAny(body[:idx], "{[") {
		// Drop the language tag on the opening fence line.
		body = body[idx+1:]
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}
