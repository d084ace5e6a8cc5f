package config

import (
	"os"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				Paths: PathsConfig{
					Export: "data/export",
					Output: "data/output",
				},
			},
			wantErr: false,
		},
		{
			name: "inbox only is valid",
			config: Config{
				Paths: PathsConfig{
					Inbox:  "data/inbox",
					Output: "data/output",
				},
			},
			wantErr: false,
		},
		{
			name: "missing export and inbox",
			config: Config{
				Paths: PathsConfig{
					Output: "data/output",
				},
			},
			wantErr: true,
		},
		{
			name: "missing output",
			config: Config{
				Paths: PathsConfig{
					Export: "data/export",
				},
			},
			wantErr: true,
		},
		{
			name: "bad execution mode",
			config: Config{
				Paths: PathsConfig{
					Export: "data/export",
					Output: "data/output",
				},
				Performance: PerformanceConfig{Mode: "turbo"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{
		Paths: PathsConfig{
			Export: "data/export",
			Output: "data/output",
		},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Providers.Gemini.RequestsPerMin != 15 {
		t.Errorf("Gemini.RequestsPerMin = %d, want 15", cfg.Providers.Gemini.RequestsPerMin)
	}
	if cfg.Limits.MaxImageSizeMB != 20 {
		t.Errorf("MaxImageSizeMB = %d, want 20", cfg.Limits.MaxImageSizeMB)
	}
	if cfg.Limits.MaxVideoSizeMB != 10 {
		t.Errorf("MaxVideoSizeMB = %d, want 10", cfg.Limits.MaxVideoSizeMB)
	}
	if cfg.Limits.MaxAudioSizeMB != 25 {
		t.Errorf("MaxAudioSizeMB = %d, want 25", cfg.Limits.MaxAudioSizeMB)
	}
	if cfg.Performance.Mode != "sequential" {
		t.Errorf("Mode = %q, want sequential", cfg.Performance.Mode)
	}
	if !cfg.CacheEnabled() {
		t.Error("CacheEnabled() = false, want true by default")
	}
}

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := `
paths:
  export: "data/export"
  output: "data/output"

providers:
  gemini:
    model: "gemini-2.5-flash"
    requests_per_min: 10
  openai:
    vision_model: "gpt-4o"

performance:
  mode: "parallel"
  max_workers: 2

logging:
  level: "info"
  format: "text"
`

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GEMINI_API_KEY", "test-gemini-key")
	t.Setenv("OPENAI_API_KEY", "test-openai-key")

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Paths.Export != "data/export" {
		t.Errorf("Export = %v, want %v", cfg.Paths.Export, "data/export")
	}
	if cfg.Providers.Gemini.RequestsPerMin != 10 {
		t.Errorf("Gemini.RequestsPerMin = %d, want 10", cfg.Providers.Gemini.RequestsPerMin)
	}
	if cfg.Providers.Gemini.APIKey != "test-gemini-key" {
		t.Errorf("Gemini.APIKey = %q, want env value", cfg.Providers.Gemini.APIKey)
	}
	if cfg.Performance.MaxWorkers != 2 {
		t.Errorf("MaxWorkers = %d, want 2", cfg.Performance.MaxWorkers)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}
