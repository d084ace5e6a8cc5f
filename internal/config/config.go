package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Paths       PathsConfig       `yaml:"paths"`
	Providers   ProvidersConfig   `yaml:"providers"`
	Limits      LimitsConfig      `yaml:"limits"`
	Cache       CacheConfig       `yaml:"cache"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type PathsConfig struct {
	Export string `yaml:"export"` // chat export folder to process
	Inbox  string `yaml:"inbox"`  // optional watch-mode inbox of export folders
	Output string `yaml:"output"`
	Temp   string `yaml:"temp"`
}

type ProvidersConfig struct {
	Gemini GeminiConfig `yaml:"gemini"`
	OpenAI OpenAIConfig `yaml:"openai"`
}

// API keys are read from the environment, never from the YAML file.
type GeminiConfig struct {
	Model          string `yaml:"model"`
	RequestsPerMin int    `yaml:"requests_per_min"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	APIKey         string `yaml:"-"`
}

type OpenAIConfig struct {
	VisionModel    string `yaml:"vision_model"`
	WhisperModel   string `yaml:"whisper_model"`
	RequestsPerMin int    `yaml:"requests_per_min"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	APIKey         string `yaml:"-"`
}

type LimitsConfig struct {
	MaxImageSizeMB int `yaml:"max_image_size_mb"`
	MaxVideoSizeMB int `yaml:"max_video_size_mb"`
	MaxAudioSizeMB int `yaml:"max_audio_size_mb"`
}

type CacheConfig struct {
	Path          string `yaml:"path"`
	Enabled       *bool  `yaml:"enabled"`
	CacheFailures bool   `yaml:"cache_failures"` // also cache permanent failures
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	Mode       string `yaml:"mode"` // sequential | parallel
	MaxWorkers int    `yaml:"max_workers"`
}

// Load reads and validates a YAML config file, then pulls API keys
// from the environment.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Providers.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	cfg.Providers.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Paths.Export == "" && c.Paths.Inbox == "" {
		return fmt.Errorf("paths.export or paths.inbox is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if c.Performance.Mode != "" && c.Performance.Mode != "sequential" && c.Performance.Mode != "parallel" {
		return fmt.Errorf("performance.mode must be sequential or parallel, got %q", c.Performance.Mode)
	}

	if c.Paths.Temp == "" {
		c.Paths.Temp = os.TempDir()
	}
	if c.Providers.Gemini.Model == "" {
		c.Providers.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Providers.Gemini.RequestsPerMin == 0 {
		c.Providers.Gemini.RequestsPerMin = 15 // free tier ceiling
	}
	if c.Providers.Gemini.TimeoutSeconds == 0 {
		c.Providers.Gemini.TimeoutSeconds = 60
	}
	if c.Providers.OpenAI.VisionModel == "" {
		c.Providers.OpenAI.VisionModel = "gpt-4o"
	}
	if c.Providers.OpenAI.WhisperModel == "" {
		c.Providers.OpenAI.WhisperModel = "whisper-1"
	}
	if c.Providers.OpenAI.RequestsPerMin == 0 {
		c.Providers.OpenAI.RequestsPerMin = 60
	}
	if c.Providers.OpenAI.TimeoutSeconds == 0 {
		c.Providers.OpenAI.TimeoutSeconds = 60
	}
	if c.Limits.MaxImageSizeMB == 0 {
		c.Limits.MaxImageSizeMB = 20
	}
	if c.Limits.MaxVideoSizeMB == 0 {
		c.Limits.MaxVideoSizeMB = 10
	}
	if c.Limits.MaxAudioSizeMB == 0 {
		c.Limits.MaxAudioSizeMB = 25
	}
	if c.Cache.Path == "" {
		c.Cache.Path = "data/cache/results.db"
	}
	if c.Performance.Mode == "" {
		c.Performance.Mode = "sequential"
	}
	if c.Performance.MaxWorkers == 0 {
		c.Performance.MaxWorkers = 4
	}

	return nil
}

// CacheEnabled reports whether the result cache should be consulted.
func (c *Config) CacheEnabled() bool {
	return c.Cache.Enabled == nil || *c.Cache.Enabled
}
