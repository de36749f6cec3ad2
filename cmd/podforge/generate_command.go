package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"podforge/internal/library"
	"podforge/internal/notifications"
	"podforge/internal/pipeline"
	"podforge/internal/script"
	"podforge/internal/services/chat"
	"podforge/internal/services/reader"
	"podforge/internal/services/speech"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var modeFlag string
	var noAudio bool
	var noSave bool
	var outputDir string

	cmd := &cobra.Command{
		Use:   "generate URL [URL...]",
		Short: "Generate a podcast episode from article URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.LLM.APIKey == "" {
				return errors.New("no API key configured: set llm.api_key in config.toml or export PODFORGE_API_KEY")
			}

			logger, err := newRunLogger(cfg)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			mode := script.ParseMode(cfg.Pipeline.Mode)
			if modeFlag != "" {
				mode = script.ParseMode(modeFlag)
			}

			fetcher := reader.NewClient(
				reader.WithBaseURL(cfg.Reader.BaseURL),
				reader.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Reader.TimeoutSeconds) * time.Second}),
				reader.WithLogger(logger),
			)
			model := chat.NewClient(chat.Config{
				APIKey:         cfg.LLM.APIKey,
				BaseURL:        cfg.LLM.BaseURL,
				Model:          cfg.LLM.Model,
				TimeoutSeconds: cfg.LLM.TimeoutSeconds,
			}, chat.WithLogger(logger))
			synth := speech.NewClient(speech.Config{
				APIKey:         cfg.TTS.APIKey,
				BaseURL:        cfg.TTS.BaseURL,
				Model:          cfg.TTS.Model,
				Format:         cfg.TTS.Format,
				TimeoutSeconds: cfg.TTS.TimeoutSeconds,
			}, speech.WithLogger(logger))

			p := pipeline.New(pipeline.Config{
				Mode:            mode,
				EnableAudio:     cfg.Pipeline.EnableAudio && !noAudio,
				FetchWorkers:    cfg.Pipeline.FetchWorkers,
				AnalysisWorkers: cfg.Pipeline.AnalysisWorkers,
				SpeechWorkers:   cfg.Pipeline.SpeechWorkers,
				VoiceHostA:      cfg.VoiceHostA(),
				VoiceHostB:      cfg.VoiceHostB(),
			}, fetcher, model, synth, pipeline.WithLogger(logger))

			notifier := notifications.NewService(cfg)
			runCtx := cmd.Context()
			started := time.Now()

			_ = notifier.NotifyRunStarted(runCtx, len(args), string(mode))

			result := p.Run(runCtx, args)
			if !result.Success {
				_ = notifier.NotifyRunFailed(runCtx, result.ErrorMessage)
				return fmt.Errorf("generation failed: %s", result.ErrorMessage)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Episode: %s\n", result.Title)
			fmt.Fprintf(out, "Articles: %d/%d fetched, %d analyzed\n",
				result.Stats.Fetched, result.Stats.TotalURLs, result.Stats.Analyzed)
			fmt.Fprintf(out, "Script: %d lines\n", result.Stats.ScriptLines)
			if len(result.Audio) > 0 {
				fmt.Fprintf(out, "Audio: %d segments, %.1f KB\n",
					result.Stats.AudioChunks, float64(len(result.Audio))/1024)
			} else {
				fmt.Fprintln(out, "Audio: none (text-only result)")
			}

			if !noSave {
				store, err := library.Open(cfg)
				if err != nil {
					return fmt.Errorf("open library: %w", err)
				}
				defer store.Close()

				ep, err := store.Save(runCtx, library.SaveRequest{
					Title:      result.Title,
					Mode:       string(mode),
					Audio:      result.Audio,
					Transcript: result.Transcript,
					SourceURLs: args,
					Stats:      result.Stats,
				})
				if err != nil {
					return fmt.Errorf("save episode: %w", err)
				}
				fmt.Fprintf(out, "Saved: %s\n", ep.ID)
				fmt.Fprintf(out, "Transcript: %s\n", ep.TranscriptPath)
				if ep.AudioPath != "" {
					fmt.Fprintf(out, "Track: %s\n", ep.AudioPath)
				}
			}

			if outputDir != "" {
				if err := exportResult(outputDir, &result); err != nil {
					return err
				}
				fmt.Fprintf(out, "Exported to %s\n", outputDir)
			}

			_ = notifier.NotifyRunCompleted(runCtx, result.Title, result.Stats, time.Since(started))
			return nil
		},
	}

	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Podcast mode: news-brief or deep-dive (defaults to config)")
	cmd.Flags().BoolVar(&noAudio, "no-audio", false, "Skip speech synthesis and produce a transcript only")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not record the episode in the library")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Also write transcript and audio into this directory")
	return cmd
}

func exportResult(dir string, result *pipeline.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	transcriptPath := filepath.Join(dir, "transcript.txt")
	if err := os.WriteFile(transcriptPath, []byte(result.Transcript), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	if len(result.Audio) > 0 {
		audioPath := filepath.Join(dir, "podcast.wav")
		if err := os.WriteFile(audioPath, result.Audio, 0o644); err != nil {
			return fmt.Errorf("write audio: %w", err)
		}
	}
	return nil
}
