package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"podforge/internal/audio"
	"podforge/internal/logging"
	"podforge/internal/script"
	"podforge/internal/services"
	"podforge/internal/services/chat"
)

const (
	defaultFetchWorkers    = 2
	defaultAnalysisWorkers = 5
	defaultSpeechWorkers   = 5

	chatTemperature   = 0.7
	analysisMaxTokens = 2048
	scriptMaxTokens   = 4096
)

// Config carries the per-run knobs the orchestrator consumes. Voice ids
// are the fully qualified identifiers handed to the TTS collaborator.
type Config struct {
	Mode            script.Mode
	EnableAudio     bool
	FetchWorkers    int
	AnalysisWorkers int
	SpeechWorkers   int
	VoiceHostA      string
	VoiceHostB      string
}

// Pipeline runs the fetch → analyze → write → synthesize → assemble
// sequence for one episode. Construct with New; a Pipeline is safe to
// reuse across runs but a single run is not concurrent with another.
type Pipeline struct {
	cfg     Config
	fetcher ContentFetcher
	model   ChatModel
	speech  SpeechSynthesizer
	logger  *slog.Logger

	onLog      func(string)
	onProgress func(stage string, fraction float64)
}

// Option configures optional Pipeline behavior.
type Option func(*Pipeline)

// WithLogger routes the run's structured log output through logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithLogCallback delivers each rendered log line to fn. Lines are
// funneled through a single goroutine, so fn never runs concurrently
// with itself.
func WithLogCallback(fn func(string)) Option {
	return func(p *Pipeline) {
		p.onLog = fn
	}
}

// WithProgressCallback reports stage transitions and per-stage completion
// fractions in [0, 1]. Same serialization guarantee as WithLogCallback.
func WithProgressCallback(fn func(stage string, fraction float64)) Option {
	return func(p *Pipeline) {
		p.onProgress = fn
	}
}

// New builds a Pipeline around the three remote collaborators.
func New(cfg Config, fetcher ContentFetcher, model ChatModel, speech SpeechSynthesizer, opts ...Option) *Pipeline {
	if cfg.FetchWorkers <= 0 {
		cfg.FetchWorkers = defaultFetchWorkers
	}
	if cfg.AnalysisWorkers <= 0 {
		cfg.AnalysisWorkers = defaultAnalysisWorkers
	}
	if cfg.SpeechWorkers <= 0 {
		cfg.SpeechWorkers = defaultSpeechWorkers
	}
	p := &Pipeline{
		cfg:     cfg,
		fetcher: fetcher,
		model:   model,
		speech:  speech,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the full pipeline over urls and blocks until the terminal
// Result is ready. Partial failures inside a stage shrink the surviving
// set; the run fails only when fetch, analysis, or script writing leaves
// nothing to continue with.
func (p *Pipeline) Run(ctx context.Context, urls []string) Result {
	f := newFunnel(p.onLog, p.onProgress)
	defer f.close()

	log := p.logger
	if p.onLog != nil {
		log = logging.TeeLogger(p.logger, logging.NewLineHandler(f.log, slog.LevelInfo))
	}

	stats := Stats{TotalURLs: len(urls)}
	if len(urls) == 0 {
		return Result{Success: false, ErrorMessage: "no URLs provided", Stats: stats}
	}

	items := make([]SourceItem, len(urls))
	for i, u := range urls {
		items[i] = SourceItem{Index: i, URL: u}
	}

	log.Info("pipeline starting",
		logging.String("mode", string(p.cfg.Mode)),
		logging.Int("urls", len(items)),
		logging.Bool("audio", p.cfg.EnableAudio))

	fetched := p.runFetch(ctx, items, log, f)
	stats.Fetched = len(fetched)
	if len(fetched) == 0 {
		log.Error("all content fetches failed")
		return Result{Success: false, ErrorMessage: "all content fetches failed", Stats: stats}
	}

	analyses := p.runAnalysis(ctx, fetched, log, f)
	stats.Analyzed = len(analyses)
	if len(analyses) == 0 {
		log.Error("all article analyses failed")
		return Result{Success: false, ErrorMessage: "all article analyses failed", Stats: stats}
	}

	title, turns, err := p.runWriting(ctx, analyses, log, f)
	if err != nil {
		log.Error("script generation failed", logging.Error(err))
		return Result{Success: false, ErrorMessage: "script generation failed: " + err.Error(), Stats: stats}
	}
	stats.ScriptLines = len(turns)

	sources := make([]script.Source, len(analyses))
	for i, a := range analyses {
		sources[i] = script.Source{Index: a.Index, URL: a.URL}
	}
	transcript := script.RenderTranscript(title, sources, turns)

	var track []byte
	if p.cfg.EnableAudio {
		chunks := p.runSynthesis(ctx, turns, log, f)
		merged := 0
		for _, c := range chunks {
			if c.Data != nil {
				merged++
			}
		}
		stats.AudioChunks = merged
		if merged == 0 {
			log.Warn("all speech synthesis failed, returning text-only result")
		} else {
			f.progress(StageAssembling, 0)
			assembly := audio.Assemble(chunks, log)
			track = assembly.Track
			f.progress(StageAssembling, 1)
			log.Info("audio assembled",
				logging.Int("turns_merged", assembly.Merged),
				logging.Int("turns_skipped", assembly.Skipped),
				logging.Duration("duration", assembly.Duration))
		}
	} else {
		log.Info("audio generation disabled, producing transcript only")
	}

	log.Info("pipeline complete",
		logging.String("title", title),
		logging.Int("fetched", stats.Fetched),
		logging.Int("analyzed", stats.Analyzed),
		logging.Int("script_lines", stats.ScriptLines),
		logging.Int("audio_segments", stats.AudioChunks))
	f.progress(StageComplete, 1)

	return Result{
		Success:    true,
		Title:      title,
		Transcript: transcript,
		Audio:      track,
		Stats:      stats,
	}
}

// runFetch pulls every article body in parallel and returns the
// survivors in input order. Worker failures become absent slots, never
// errors, so the pool always drains completely.
func (p *Pipeline) runFetch(ctx context.Context, items []SourceItem, log *slog.Logger, f *funnel) []FetchResult {
	log.Info("fetching articles",
		logging.Int("count", len(items)),
		logging.Int("workers", p.cfg.FetchWorkers))
	f.progress(StageFetching, 0)

	results := make([]FetchResult, len(items))
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.FetchWorkers)
	for _, item := range items {
		g.Go(func() error {
			tctx := services.WithItemIndex(services.WithStage(gctx, StageFetching), item.Index)
			body, err := p.fetcher.Fetch(tctx, item.URL)
			if err != nil {
				log.Warn("fetch failed",
					logging.Int("index", item.Index),
					logging.String("url", item.URL),
					logging.Error(err))
			} else {
				log.Info("fetched article",
					logging.Int("index", item.Index),
					logging.Int("chars", len(body)))
				results[item.Index] = FetchResult{Index: item.Index, URL: item.URL, RawText: body}
			}
			f.progress(StageFetching, float64(completed.Add(1))/float64(len(items)))
			return nil
		})
	}
	_ = g.Wait()

	survivors := make([]FetchResult, 0, len(items))
	for _, r := range results {
		if strings.TrimSpace(r.RawText) != "" {
			survivors = append(survivors, r)
		}
	}
	log.Info("fetch stage complete",
		logging.Int("succeeded", len(survivors)),
		logging.Int("attempted", len(items)))
	return survivors
}

// runAnalysis summarizes every fetched article in parallel, returning
// the survivors in original article order.
func (p *Pipeline) runAnalysis(ctx context.Context, fetched []FetchResult, log *slog.Logger, f *funnel) []AnalysisResult {
	log.Info("analyzing articles",
		logging.Int("count", len(fetched)),
		logging.Int("workers", p.cfg.AnalysisWorkers))
	f.progress(StageAnalyzing, 0)

	prompts := script.PromptsFor(p.cfg.Mode)
	results := make([]AnalysisResult, len(fetched))
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.AnalysisWorkers)
	for i, item := range fetched {
		g.Go(func() error {
			tctx := services.WithItemIndex(services.WithStage(gctx, StageAnalyzing), item.Index)
			analysis, err := p.model.Complete(tctx, chat.Request{
				System:      prompts.Analyst,
				User:        item.RawText,
				Temperature: chatTemperature,
				MaxTokens:   analysisMaxTokens,
			})
			if err != nil {
				log.Warn("analysis failed",
					logging.Int("index", item.Index),
					logging.String("url", item.URL),
					logging.Error(err))
			} else {
				results[i] = AnalysisResult{Index: item.Index, URL: item.URL, Analysis: analysis}
			}
			f.progress(StageAnalyzing, float64(completed.Add(1))/float64(len(fetched)))
			return nil
		})
	}
	_ = g.Wait()

	survivors := make([]AnalysisResult, 0, len(fetched))
	for _, r := range results {
		if strings.TrimSpace(r.Analysis) != "" {
			survivors = append(survivors, r)
		}
	}
	sort.Slice(survivors, func(a, b int) bool { return survivors[a].Index < survivors[b].Index })
	log.Info("analysis stage complete",
		logging.Int("succeeded", len(survivors)),
		logging.Int("attempted", len(fetched)))
	return survivors
}

// runWriting issues the single script-synthesis call over the ordered
// analyses and parses the dialogue out of the raw model output.
func (p *Pipeline) runWriting(ctx context.Context, analyses []AnalysisResult, log *slog.Logger, f *funnel) (string, []script.Turn, error) {
	log.Info("writing script", logging.Int("sources", len(analyses)))
	f.progress(StageWriting, 0)

	prompts := script.PromptsFor(p.cfg.Mode)
	var b strings.Builder
	for _, a := range analyses {
		fmt.Fprintf(&b, "--- Source %d (%s) ---\n%s\n\n", a.Index+1, a.URL, a.Analysis)
	}

	wctx := services.WithStage(ctx, StageWriting)
	raw, err := p.model.Complete(wctx, chat.Request{
		System:      prompts.Writer,
		User:        b.String(),
		Temperature: chatTemperature,
		MaxTokens:   scriptMaxTokens,
	})
	if err != nil {
		return "", nil, err
	}

	turns := script.Parse(raw)
	if len(turns) == 0 {
		return "", nil, fmt.Errorf("no dialogue turns recovered from model output")
	}
	title := script.ExtractTitle(raw)
	if strings.TrimSpace(title) == "" {
		title = fmt.Sprintf("Podcast (%d articles)", len(analyses))
	}

	f.progress(StageWriting, 1)
	log.Info("script written",
		logging.String("title", title),
		logging.Int("lines", len(turns)))
	return title, turns, nil
}

// runSynthesis renders every turn in parallel. Each chunk lands in the
// slot matching its turn index; failed or empty turns leave nil Data
// behind and are skipped at assembly.
func (p *Pipeline) runSynthesis(ctx context.Context, turns []script.Turn, log *slog.Logger, f *funnel) []audio.Chunk {
	log.Info("synthesizing speech",
		logging.Int("turns", len(turns)),
		logging.Int("workers", p.cfg.SpeechWorkers))
	f.progress(StageSynthesizing, 0)

	chunks := make([]audio.Chunk, len(turns))
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.SpeechWorkers)
	for i, turn := range turns {
		g.Go(func() error {
			chunks[i] = audio.Chunk{TurnIndex: turn.Index}
			defer func() {
				f.progress(StageSynthesizing, float64(completed.Add(1))/float64(len(turns)))
			}()

			if strings.TrimSpace(turn.Text) == "" {
				return nil
			}
			voice, matched := p.voiceFor(turn.Speaker)
			if !matched {
				log.Warn("unknown speaker, defaulting to host A voice",
					logging.Int("turn", turn.Index),
					logging.String("speaker", turn.Speaker))
			}
			tctx := services.WithItemIndex(services.WithStage(gctx, StageSynthesizing), turn.Index)
			data, err := p.speech.Synthesize(tctx, turn.Text, voice)
			if err != nil {
				log.Warn("speech synthesis failed",
					logging.Int("turn", turn.Index),
					logging.Error(err))
				return nil
			}
			chunks[i].Data = data
			return nil
		})
	}
	_ = g.Wait()

	succeeded := 0
	for _, c := range chunks {
		if c.Data != nil {
			succeeded++
		}
	}
	log.Info("synthesis stage complete",
		logging.Int("succeeded", succeeded),
		logging.Int("attempted", len(turns)))
	return chunks
}
