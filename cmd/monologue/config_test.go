package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/intuitionamiga/monologue"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestParseOptions_Defaults(t *testing.T) {
	o, err := parseOptions("monologue", nil, envMap(nil), io.Discard)
	if err != nil {
		t.Fatalf("parseOptions: %v", err)
	}
	if o.Text != DEFAULT_TEXT || o.SampleRate != monologue.SAMPLE_RATE || o.Channels != monologue.DEFAULT_CHANNELS {
		t.Fatalf("unexpected defaults: %+v", o)
	}
	cfg, err := o.engineConfig()
	if err != nil {
		t.Fatalf("engineConfig: %v", err)
	}
	def := monologue.DefaultConfig()
	if cfg.SecondsPerChar != def.SecondsPerChar || cfg.WaveType != def.WaveType || cfg.BeepSource != def.BeepSource {
		t.Fatalf("default flags drifted from DefaultConfig: %+v", cfg)
	}
}

func TestParseOptions_EnvThenFlags(t *testing.T) {
	env := envMap(map[string]string{
		"MONOLOGUE_WAVE":             "sine",
		"MONOLOGUE_SECONDS_PER_CHAR": "0.02",
		"MONOLOGUE_TERMINAL":         "true",
		"MONOLOGUE_FREQUENCY":        "not-a-number",
	})
	o, err := parseOptions("monologue", []string{"-wave", "noise", "-pitch", "-2"}, env, io.Discard)
	if err != nil {
		t.Fatalf("parseOptions: %v", err)
	}
	if o.Wave != "noise" {
		t.Errorf("flag should override env, wave = %q", o.Wave)
	}
	if o.SecondsPerChar != 0.02 || !o.Terminal {
		t.Errorf("env defaults not applied: %+v", o)
	}
	if o.Frequency != monologue.DEFAULT_BASE_FREQUENCY {
		t.Errorf("unparseable env should fall back, frequency = %d", o.Frequency)
	}
	if o.Pitch != -2 {
		t.Errorf("pitch = %g", o.Pitch)
	}
}

func TestParseOptions_PositionalText(t *testing.T) {
	o, err := parseOptions("monologue", []string{"-terminal", "Hello", "world"}, envMap(nil), io.Discard)
	if err != nil {
		t.Fatalf("parseOptions: %v", err)
	}
	if o.Text != "Hello world" {
		t.Fatalf("text = %q", o.Text)
	}
}

func TestParseOptions_Rejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad channels", []string{"-channels", "0"}},
		{"bad sample rate", []string{"-sample-rate", "100"}},
		{"bad log format", []string{"-log-format", "xml"}},
		{"empty text", []string{"-text", ""}},
		{"unknown flag", []string{"-bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseOptions("monologue", tt.args, envMap(nil), io.Discard); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestParseOptions_Help(t *testing.T) {
	var usage strings.Builder
	_, err := parseOptions("monologue", []string{"-h"}, envMap(nil), &usage)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected ErrHelp, got %v", err)
	}
	if !strings.Contains(usage.String(), "-script") {
		t.Fatalf("usage missing flags:\n%s", usage.String())
	}
}

func TestEngineConfig_Rejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown wave", []string{"-wave", "pulse"}},
		{"unknown trigger", []string{"-trigger", "sentence"}},
		{"unknown source", []string{"-source", "radio"}},
		{"frequency out of range", []string{"-freq", "5"}},
		{"volume out of range", []string{"-volume", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := parseOptions("monologue", tt.args, envMap(nil), io.Discard)
			if err != nil {
				t.Fatalf("parseOptions: %v", err)
			}
			if _, err := o.engineConfig(); err == nil {
				t.Fatal("expected engineConfig to fail")
			}
		})
	}
}

func TestOptions_Dialogue(t *testing.T) {
	o, err := parseOptions("monologue", []string{"-text", "just this"}, envMap(nil), io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	d, err := o.dialogue(monologue.DefaultConfig(), nil)
	if err != nil || len(d.Lines) != 1 || d.Lines[0].Text != "just this" {
		t.Fatalf("dialogue = %+v, %v", d, err)
	}

	script := filepath.Join(t.TempDir(), "two.lua")
	if err := os.WriteFile(script, []byte(`say "one" say "two"`), 0644); err != nil {
		t.Fatal(err)
	}
	o.Script = script
	d, err = o.dialogue(monologue.DefaultConfig(), nil)
	if err != nil || len(d.Lines) != 2 {
		t.Fatalf("script dialogue = %+v, %v", d, err)
	}
}
