package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// DataDir is the root for uploads, converted audio, and the history DB.
	DataDir string `toml:"data_dir"`
	// ReportsDir receives rendered audit reports.
	ReportsDir string `toml:"reports_dir"`
	// LogDir receives the scrutiny log file.
	LogDir string `toml:"log_dir"`
}

// Policy configures the policy document, its vector index, and retrieval.
type Policy struct {
	// DocumentPath is the plain-text compliance policy.
	DocumentPath string `toml:"document_path"`
	// IndexPath is where the persisted vector index lives.
	IndexPath string `toml:"index_path"`
	// ChunkSize is the target chunk length in characters.
	ChunkSize int `toml:"chunk_size"`
	// ChunkOverlap is the character overlap between adjacent chunks.
	ChunkOverlap int `toml:"chunk_overlap"`
	// TopK is the number of passages retrieved per audit.
	TopK int `toml:"top_k"`
	// QueryPrefixChars bounds how much transcript feeds the retrieval query.
	QueryPrefixChars int `toml:"query_prefix_chars"`
}

// WhisperX configures transcription.
type WhisperX struct {
	Model       string `toml:"model"`
	CUDAEnabled bool   `toml:"cuda_enabled"`
	VADMethod   string `toml:"vad_method"`
	HFToken     string `toml:"hf_token"`
}

// Diarizer configures speaker diarization.
type Diarizer struct {
	// Model is the senko model identifier passed to the diarizer tool.
	Model string `toml:"model"`
	// TargetSampleRate is the rate audio is resampled to on format recovery.
	TargetSampleRate int `toml:"target_sample_rate"`
}

// Embedding configures the embedding endpoint used by the policy index.
type Embedding struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// LLM contains connection settings for the audit decision model.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Alerts contains ntfy push notification settings and score thresholds.
type Alerts struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	// CriticalScore triggers a push alert when an audit scores below it.
	CriticalScore float64 `toml:"critical_score"`
	// FlagScore marks an audit as Flagged in history when scored below it.
	FlagScore float64 `toml:"flag_score"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Scrutiny.
//
// Configuration sections by subsystem:
//   - Paths: data, report, and log directories
//   - Policy: policy document, chunking, index, and retrieval settings
//   - WhisperX: transcription model settings
//   - Diarizer: diarization model and recovery resample rate
//   - Embedding: embedding endpoint for the policy index
//   - LLM: audit decision model connection
//   - Alerts: ntfy push alerts and score thresholds
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Policy    Policy    `toml:"policy"`
	WhisperX  WhisperX  `toml:"whisperx"`
	Diarizer  Diarizer  `toml:"diarizer"`
	Embedding Embedding `toml:"embedding"`
	LLM       LLM       `toml:"llm"`
	Alerts    Alerts    `toml:"alerts"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/scrutiny/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("scrutiny.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories every pipeline run relies on.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.ReportsDir, c.Paths.LogDir, c.UploadDir()} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if dir := filepath.Dir(c.Policy.IndexPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create index directory %q: %w", dir, err)
		}
	}
	return nil
}

// UploadDir returns the directory artifacts are staged into before auditing.
func (c *Config) UploadDir() string {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.DataDir, "uploads")
}

// HistoryDBPath returns the SQLite database location for audit history.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.Paths.DataDir, "history.db")
}

// FFmpegBinary returns the ffmpeg executable used for format recovery.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// ExpandPath resolves ~ prefixes and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes the embedded sample configuration to the target path.
func CreateSample(target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(target, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
