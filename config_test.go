package monologue

import (
	"math"
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.SecondsPerChar != 0.06 || cfg.BaseFrequency != 400 || cfg.BaseVolume != 0.15 || cfg.BeepLengthSeconds != 0.01 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.BeepSource != BEEP_SOURCE_GENERATED || cfg.WaveType != WAVE_SQUARE || cfg.BeepTrigger != BEEP_TRIGGER_CHARACTER {
		t.Fatalf("unexpected default enums: %+v", cfg)
	}
	if _, notes := cfg.Sanitize(); len(notes) != 0 {
		t.Fatalf("default config should need no adjustment, got %v", notes)
	}
}

func TestConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		check  func(Config) bool
	}{
		{"zero seconds per char uses default", func(c *Config) { c.SecondsPerChar = 0 },
			func(c Config) bool { return c.SecondsPerChar == DEFAULT_SECONDS_PER_CHAR }},
		{"negative seconds per char uses default", func(c *Config) { c.SecondsPerChar = -1 },
			func(c Config) bool { return c.SecondsPerChar == DEFAULT_SECONDS_PER_CHAR }},
		{"nan seconds per char uses default", func(c *Config) { c.SecondsPerChar = math.NaN() },
			func(c Config) bool { return c.SecondsPerChar == DEFAULT_SECONDS_PER_CHAR }},
		{"tiny seconds per char clamps to minimum", func(c *Config) { c.SecondsPerChar = 1e-6 },
			func(c Config) bool { return c.SecondsPerChar == MIN_SECONDS_PER_CHAR }},
		{"frequency below range", func(c *Config) { c.BaseFrequency = 5 },
			func(c Config) bool { return c.BaseFrequency == MIN_FREQUENCY }},
		{"frequency above range", func(c *Config) { c.BaseFrequency = 50000 },
			func(c Config) bool { return c.BaseFrequency == MAX_FREQUENCY }},
		{"base volume above one", func(c *Config) { c.BaseVolume = 2 },
			func(c Config) bool { return c.BaseVolume == 1 }},
		{"volume below zero", func(c *Config) { c.Volume = -0.5 },
			func(c Config) bool { return c.Volume == 0 }},
		{"pitch above range", func(c *Config) { c.Pitch = 10 },
			func(c Config) bool { return c.Pitch == MAX_PITCH }},
		{"pitch below range", func(c *Config) { c.Pitch = -10 },
			func(c Config) bool { return c.Pitch == MIN_PITCH }},
		{"nan pitch resets to unity", func(c *Config) { c.Pitch = math.NaN() },
			func(c Config) bool { return c.Pitch == 1 }},
		{"negative beep length", func(c *Config) { c.BeepLengthSeconds = -0.2 },
			func(c Config) bool { return c.BeepLengthSeconds == 0 }},
		{"unknown wave", func(c *Config) { c.WaveType = WaveType(99) },
			func(c Config) bool { return c.WaveType == WAVE_SQUARE }},
		{"unknown trigger", func(c *Config) { c.BeepTrigger = BeepTrigger(7) },
			func(c Config) bool { return c.BeepTrigger == BEEP_TRIGGER_CHARACTER }},
		{"unknown source", func(c *Config) { c.BeepSource = BeepSource(7) },
			func(c Config) bool { return c.BeepSource == BEEP_SOURCE_GENERATED }},
		{"bad markup pattern", func(c *Config) { c.MarkupPattern = "<(" },
			func(c Config) bool { return c.MarkupPattern == DEFAULT_MARKUP_PATTERN }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate accepted an out-of-range config")
			}
			clean, notes := cfg.Sanitize()
			if !tt.check(clean) {
				t.Fatalf("sanitized config not adjusted: %+v", clean)
			}
			if len(notes) != 1 {
				t.Fatalf("expected one adjustment note, got %v", notes)
			}
			if err := clean.Validate(); err != nil {
				t.Fatalf("sanitized config still invalid: %v", err)
			}
		})
	}
}

func TestConfig_ValidateReportsEveryField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseFrequency = 1
	cfg.Volume = 3
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "base frequency") || !strings.Contains(msg, "volume must be") {
		t.Fatalf("error should name both fields: %v", msg)
	}
}

func TestConfig_EmptyMarkupAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MarkupPattern = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty markup pattern should disable markup, got %v", err)
	}
}

func TestParseBeepTriggerAndSource(t *testing.T) {
	tests := []struct {
		in      string
		trigger BeepTrigger
		ok      bool
	}{
		{"character", BEEP_TRIGGER_CHARACTER, true},
		{"CHAR", BEEP_TRIGGER_CHARACTER, true},
		{" word ", BEEP_TRIGGER_WORD, true},
		{"sentence", BEEP_TRIGGER_CHARACTER, false},
	}
	for _, tt := range tests {
		got, err := ParseBeepTrigger(tt.in)
		if (err == nil) != tt.ok || got != tt.trigger {
			t.Errorf("ParseBeepTrigger(%q) = %v, %v", tt.in, got, err)
		}
	}

	if s, err := ParseBeepSource("sample"); err != nil || s != BEEP_SOURCE_SAMPLE {
		t.Errorf("ParseBeepSource(sample) = %v, %v", s, err)
	}
	if s, err := ParseBeepSource("Generated"); err != nil || s != BEEP_SOURCE_GENERATED {
		t.Errorf("ParseBeepSource(Generated) = %v, %v", s, err)
	}
	if _, err := ParseBeepSource("radio"); err == nil {
		t.Error("ParseBeepSource accepted an unknown source")
	}
	if BEEP_TRIGGER_WORD.String() != "word" || BEEP_SOURCE_SAMPLE.String() != "sample" {
		t.Error("enum names changed")
	}
}
