package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. API keys are deliberately
// not validated here so read-only commands (episodes list, config show)
// work without credentials; the generate command checks them before a run.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateServices(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.LibraryDir == "" {
		return errors.New("paths.library_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if err := ensurePositiveMap(map[string]int{
		"pipeline.fetch_workers":    c.Pipeline.FetchWorkers,
		"pipeline.analysis_workers": c.Pipeline.AnalysisWorkers,
		"pipeline.speech_workers":   c.Pipeline.SpeechWorkers,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServices() error {
	if c.Reader.BaseURL == "" {
		return errors.New("reader.base_url must be set")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model must be set")
	}
	if c.TTS.Model == "" {
		return errors.New("tts.model must be set")
	}
	if c.TTS.Format != "wav" {
		return fmt.Errorf("tts.format: unsupported value %q (only wav assembly is implemented)", c.TTS.Format)
	}
	if c.TTS.VoiceHostA == "" || c.TTS.VoiceHostB == "" {
		return errors.New("tts.voice_host_a and tts.voice_host_b must be set")
	}
	if err := ensurePositiveMap(map[string]int{
		"reader.timeout_seconds":        c.Reader.TimeoutSeconds,
		"llm.timeout_seconds":           c.LLM.TimeoutSeconds,
		"tts.timeout_seconds":           c.TTS.TimeoutSeconds,
		"notifications.request_timeout": c.Notifications.RequestTimeout,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json", "auto":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
