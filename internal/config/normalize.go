package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizePolicy(); err != nil {
		return err
	}
	c.normalizeWhisperX()
	c.normalizeDiarizer()
	c.normalizeEmbedding()
	c.normalizeLLM()
	c.normalizeAlerts()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = ExpandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.ReportsDir, err = ExpandPath(c.Paths.ReportsDir); err != nil {
		return fmt.Errorf("paths.reports_dir: %w", err)
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePolicy() error {
	var err error
	if c.Policy.DocumentPath, err = ExpandPath(c.Policy.DocumentPath); err != nil {
		return fmt.Errorf("policy.document_path: %w", err)
	}
	if strings.TrimSpace(c.Policy.IndexPath) == "" {
		c.Policy.IndexPath = defaultPolicyIndexPath
	}
	if c.Policy.IndexPath, err = ExpandPath(c.Policy.IndexPath); err != nil {
		return fmt.Errorf("policy.index_path: %w", err)
	}
	if c.Policy.ChunkSize == 0 {
		c.Policy.ChunkSize = defaultChunkSize
	}
	if c.Policy.TopK == 0 {
		c.Policy.TopK = defaultTopK
	}
	if c.Policy.QueryPrefixChars == 0 {
		c.Policy.QueryPrefixChars = defaultQueryPrefixChars
	}
	return nil
}

func (c *Config) normalizeWhisperX() {
	c.WhisperX.Model = strings.TrimSpace(c.WhisperX.Model)
	if c.WhisperX.Model == "" {
		c.WhisperX.Model = defaultWhisperXModel
	}
	c.WhisperX.VADMethod = strings.TrimSpace(c.WhisperX.VADMethod)
	if c.WhisperX.VADMethod == "" {
		c.WhisperX.VADMethod = defaultWhisperXVADMethod
	}
}

func (c *Config) normalizeDiarizer() {
	c.Diarizer.Model = strings.TrimSpace(c.Diarizer.Model)
	if c.Diarizer.Model == "" {
		c.Diarizer.Model = defaultDiarizerModel
	}
	if c.Diarizer.TargetSampleRate <= 0 {
		c.Diarizer.TargetSampleRate = defaultTargetSampleRate
	}
}

func (c *Config) normalizeEmbedding() {
	c.Embedding.BaseURL = strings.TrimSpace(c.Embedding.BaseURL)
	if c.Embedding.BaseURL == "" {
		c.Embedding.BaseURL = defaultEmbeddingBaseURL
	}
	c.Embedding.Model = strings.TrimSpace(c.Embedding.Model)
	if c.Embedding.Model == "" {
		c.Embedding.Model = defaultEmbeddingModel
	}
	if c.Embedding.TimeoutSeconds <= 0 {
		c.Embedding.TimeoutSeconds = defaultEmbeddingTimeout
	}
	if c.Embedding.APIKey == "" {
		if value, ok := os.LookupEnv("SCRUTINY_EMBEDDING_API_KEY"); ok {
			c.Embedding.APIKey = value
		}
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("SCRUTINY_LLM_API_KEY"); ok {
			c.LLM.APIKey = value
		}
	}
}

func (c *Config) normalizeAlerts() {
	c.Alerts.NtfyTopic = strings.TrimSpace(c.Alerts.NtfyTopic)
	if c.Alerts.RequestTimeout <= 0 {
		c.Alerts.RequestTimeout = defaultNtfyRequestTimeout
	}
	if c.Alerts.CriticalScore == 0 {
		c.Alerts.CriticalScore = defaultCriticalScore
	}
	if c.Alerts.FlagScore == 0 {
		c.Alerts.FlagScore = defaultFlagScore
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
