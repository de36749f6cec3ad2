package pipeline

import (
	"context"

	"podforge/internal/services/chat"
)

// Stage names reported through progress callbacks, in execution order.
const (
	StageFetching     = "fetching"
	StageAnalyzing    = "analyzing"
	StageWriting      = "writing"
	StageSynthesizing = "synthesizing"
	StageAssembling   = "assembling"
	StageComplete     = "complete"
)

// SourceItem is one input URL with its stable position in the input list.
// The index follows the article through every stage and is the ordering
// key for the script prompt and the transcript source list.
type SourceItem struct {
	Index int
	URL   string
}

// FetchResult carries the fetched article body. An empty RawText marks a
// failed fetch; the item is dropped before analysis.
type FetchResult struct {
	Index   int
	URL     string
	RawText string
}

// AnalysisResult carries one article's structured summary. An empty
// Analysis marks a failed analysis.
type AnalysisResult struct {
	Index    int
	URL      string
	Analysis string
}

// Stats counts attempted and surviving items per stage. It is populated
// as each stage completes and is returned with every Result, success or
// not, so callers can see where a run degraded.
type Stats struct {
	TotalURLs   int `json:"total_urls"`
	Fetched     int `json:"fetched"`
	Analyzed    int `json:"analyzed"`
	ScriptLines int `json:"script_lines"`
	AudioChunks int `json:"audio_segments"`
}

// Result is the terminal artifact of one run.
type Result struct {
	Success      bool
	Title        string
	Transcript   string
	Audio        []byte
	ErrorMessage string
	Stats        Stats
}

// ContentFetcher obtains an article body for a URL.
type ContentFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// ChatModel produces text from a system/user prompt pair.
type ChatModel interface {
	Complete(ctx context.Context, req chat.Request) (string, error)
}

// SpeechSynthesizer renders one turn of dialogue as audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}
