package config

import (
	"os"
	"strings"
)

// Environment variables honored as API key fallbacks, in priority order.
var apiKeyEnvVars = []string{"PODFORGE_API_KEY", "SILICONFLOW_API_KEY"}

func (c *Config) normalize() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(strings.TrimSpace(c.Paths.LibraryDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return err
	}

	c.Pipeline.Mode = normalizeMode(c.Pipeline.Mode)

	c.Reader.BaseURL = strings.TrimRight(strings.TrimSpace(c.Reader.BaseURL), "/")

	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = apiKeyFromEnv()
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)

	c.TTS.APIKey = strings.TrimSpace(c.TTS.APIKey)
	if c.TTS.APIKey == "" {
		c.TTS.APIKey = c.LLM.APIKey
	}
	c.TTS.BaseURL = strings.TrimSpace(c.TTS.BaseURL)
	c.TTS.Model = strings.TrimSpace(c.TTS.Model)
	c.TTS.Format = strings.ToLower(strings.TrimSpace(c.TTS.Format))
	c.TTS.VoiceHostA = strings.TrimSpace(c.TTS.VoiceHostA)
	c.TTS.VoiceHostB = strings.TrimSpace(c.TTS.VoiceHostB)

	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// normalizeMode folds mode spellings ("news_brief", "News Brief") onto the
// canonical pair.
func normalizeMode(mode string) string {
	if strings.Contains(strings.ToLower(strings.TrimSpace(mode)), "news") {
		return "news-brief"
	}
	return "deep-dive"
}

func apiKeyFromEnv() string {
	for _, name := range apiKeyEnvVars {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			return value
		}
	}
	return ""
}
