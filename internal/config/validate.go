package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePolicy(); err != nil {
		return err
	}
	if err := c.validateDiarizer(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateAlerts(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.ReportsDir) == "" {
		return errors.New("paths.reports_dir must be set")
	}
	return nil
}

func (c *Config) validatePolicy() error {
	if strings.TrimSpace(c.Policy.DocumentPath) == "" {
		return errors.New("policy.document_path must be set")
	}
	if c.Policy.ChunkSize <= 0 {
		return errors.New("policy.chunk_size must be positive")
	}
	if c.Policy.ChunkOverlap < 0 {
		return errors.New("policy.chunk_overlap must not be negative")
	}
	if c.Policy.ChunkOverlap >= c.Policy.ChunkSize {
		return errors.New("policy.chunk_overlap must be smaller than policy.chunk_size")
	}
	if c.Policy.TopK <= 0 {
		return errors.New("policy.top_k must be positive")
	}
	if c.Policy.QueryPrefixChars <= 0 {
		return errors.New("policy.query_prefix_chars must be positive")
	}
	return nil
}

func (c *Config) validateDiarizer() error {
	if c.Diarizer.TargetSampleRate <= 0 {
		return errors.New("diarizer.target_sample_rate must be positive")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/scrutiny/config.toml"
		}
		return fmt.Errorf("llm.api_key is required. Set SCRUTINY_LLM_API_KEY env var or edit %s (create with 'scrutiny config init')", defaultPath)
	}
	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		return errors.New("llm.base_url must be set")
	}
	return nil
}

func (c *Config) validateAlerts() error {
	if c.Alerts.RequestTimeout <= 0 {
		return errors.New("alerts.request_timeout must be positive (seconds)")
	}
	if c.Alerts.CriticalScore < 0 || c.Alerts.CriticalScore > 100 {
		return errors.New("alerts.critical_score must be between 0 and 100")
	}
	if c.Alerts.FlagScore < 0 || c.Alerts.FlagScore > 100 {
		return errors.New("alerts.flag_score must be between 0 and 100")
	}
	if c.Alerts.CriticalScore > c.Alerts.FlagScore {
		return errors.New("alerts.critical_score must not exceed alerts.flag_score")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
