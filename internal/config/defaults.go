package config

const (
	defaultLibraryDir      = "~/.local/share/podforge/library"
	defaultLogDir          = "~/.local/share/podforge/logs"
	defaultMode            = "deep-dive"
	defaultFetchWorkers    = 2
	defaultAnalysisWorkers = 5
	defaultSpeechWorkers   = 5
	defaultReaderBaseURL   = "https://r.jina.ai"
	defaultReaderTimeout   = 20
	defaultLLMBaseURL      = "https://api.siliconflow.cn/v1/chat/completions"
	defaultLLMModel        = "deepseek-ai/DeepSeek-V3.2"
	defaultLLMTimeout      = 120
	defaultTTSBaseURL      = "https://api.siliconflow.cn/v1/audio/speech"
	defaultTTSModel        = "FunAudioLLM/CosyVoice2-0.5B"
	defaultTTSFormat       = "wav"
	defaultTTSTimeout      = 60
	defaultVoiceHostA      = "alex"
	defaultVoiceHostB      = "claire"
	defaultNotifyTimeout   = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
		},
		Pipeline: Pipeline{
			Mode:            defaultMode,
			EnableAudio:     true,
			FetchWorkers:    defaultFetchWorkers,
			AnalysisWorkers: defaultAnalysisWorkers,
			SpeechWorkers:   defaultSpeechWorkers,
		},
		Reader: Reader{
			BaseURL:        defaultReaderBaseURL,
			TimeoutSeconds: defaultReaderTimeout,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeout,
		},
		TTS: TTS{
			BaseURL:        defaultTTSBaseURL,
			Model:          defaultTTSModel,
			Format:         defaultTTSFormat,
			VoiceHostA:     defaultVoiceHostA,
			VoiceHostB:     defaultVoiceHostB,
			TimeoutSeconds: defaultTTSTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Runs:           true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
