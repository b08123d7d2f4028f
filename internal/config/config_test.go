package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"TRACER_RUN_DIR", "TRACER_WORKING_WIDTH", "TRACER_DEVICE",
		"TRACER_HIGH_THRESHOLD", "TRACER_LOW_THRESHOLD",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.HighThreshold != DefaultHighThreshold {
		t.Errorf("HighThreshold = %v, want %v", cfg.HighThreshold, DefaultHighThreshold)
	}
	if cfg.LowThreshold != DefaultLowThreshold {
		t.Errorf("LowThreshold = %v, want %v", cfg.LowThreshold, DefaultLowThreshold)
	}
	if cfg.RunDir == "" {
		t.Error("RunDir should default to a non-empty path")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TRACER_HIGH_THRESHOLD", "0.9")
	t.Setenv("TRACER_LOW_THRESHOLD", "0.4")
	t.Setenv("TRACER_WORKING_WIDTH", "1024")
	t.Setenv("TRACER_DEVICE", "cuda:0")
	t.Setenv("TRACER_INCLUDE_REVIEW", "true")

	cfg := Load()
	if cfg.HighThreshold != 0.9 || cfg.LowThreshold != 0.4 {
		t.Errorf("thresholds = %v/%v, want 0.9/0.4", cfg.HighThreshold, cfg.LowThreshold)
	}
	if cfg.WorkingWidth != 1024 {
		t.Errorf("WorkingWidth = %d, want 1024", cfg.WorkingWidth)
	}
	if string(cfg.DeviceHint) != "cuda:0" {
		t.Errorf("DeviceHint = %q, want cuda:0", cfg.DeviceHint)
	}
	if !cfg.IncludeReview {
		t.Error("IncludeReview should honor the environment")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty run dir", func(c *Config) { c.RunDir = "" }, true},
		{"high above one", func(c *Config) { c.HighThreshold = 1.5 }, true},
		{"low above high", func(c *Config) { c.LowThreshold = 0.9 }, true},
		{"negative width", func(c *Config) { c.WorkingWidth = -1 }, true},
		{"equal thresholds", func(c *Config) { c.LowThreshold = c.HighThreshold }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
