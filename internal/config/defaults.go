package config

const (
	defaultDataDir            = "~/.local/share/scrutiny/data"
	defaultReportsDir         = "~/.local/share/scrutiny/reports"
	defaultLogDir             = "~/.local/share/scrutiny/logs"
	defaultPolicyDocumentPath = "~/.config/scrutiny/policies/company_policy.txt"
	defaultPolicyIndexPath    = "~/.local/share/scrutiny/index/policy_index.json"
	defaultChunkSize          = 500
	defaultChunkOverlap       = 50
	defaultTopK               = 3
	defaultQueryPrefixChars   = 1000
	defaultWhisperXModel      = "base"
	defaultWhisperXVADMethod  = "silero"
	defaultDiarizerModel      = "senko-v1"
	defaultTargetSampleRate   = 16000
	defaultEmbeddingBaseURL   = "http://127.0.0.1:8090/v1/embeddings"
	defaultEmbeddingModel     = "all-MiniLM-L6-v2"
	defaultEmbeddingTimeout   = 60
	defaultLLMBaseURL         = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel           = "google/gemini-3-flash-preview"
	defaultLLMReferer         = "https://github.com/scrutiny/scrutiny"
	defaultLLMTitle           = "Scrutiny Support Auditor"
	defaultLLMTimeoutSeconds  = 120
	defaultNtfyRequestTimeout = 10
	defaultCriticalScore      = 30
	defaultFlagScore          = 70
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			ReportsDir: defaultReportsDir,
			LogDir:     defaultLogDir,
		},
		Policy: Policy{
			DocumentPath:     defaultPolicyDocumentPath,
			IndexPath:        defaultPolicyIndexPath,
			ChunkSize:        defaultChunkSize,
			ChunkOverlap:     defaultChunkOverlap,
			TopK:             defaultTopK,
			QueryPrefixChars: defaultQueryPrefixChars,
		},
		WhisperX: WhisperX{
			Model:     defaultWhisperXModel,
			VADMethod: defaultWhisperXVADMethod,
		},
		Diarizer: Diarizer{
			Model:            defaultDiarizerModel,
			TargetSampleRate: defaultTargetSampleRate,
		},
		Embedding: Embedding{
			BaseURL:        defaultEmbeddingBaseURL,
			Model:          defaultEmbeddingModel,
			TimeoutSeconds: defaultEmbeddingTimeout,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Alerts: Alerts{
			RequestTimeout: defaultNtfyRequestTimeout,
			CriticalScore:  defaultCriticalScore,
			FlagScore:      defaultFlagScore,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
