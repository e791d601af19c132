package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/intuitionamiga/monologue"
)

const DEFAULT_TEXT = "Hello, <b>traveller</b>. The road north is closed, but the old mill path is still open if you hurry."

// options holds every command line setting. Defaults come from MONOLOGUE_*
// environment variables, then the flags override them.
type options struct {
	Script   string
	Text     string
	Terminal bool
	Loop     bool
	Features bool

	LogLevel  string
	LogFormat string

	SampleRate int
	Channels   int
	Width      int
	Height     int

	SecondsPerChar float64
	Trigger        string
	Source         string
	Wave           string
	BeepLength     float64
	Frequency      int
	BaseVolume     float64
	Volume         float64
	Pitch          float64
	Clip           string
	Markup         string
}

func parseOptions(name string, args []string, getenv func(string) string, usage io.Writer) (*options, error) {
	def := monologue.DefaultConfig()
	o := &options{}

	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&o.Script, "script", getEnvString(getenv, "MONOLOGUE_SCRIPT", ""), "Lua dialogue script")
	flagSet.StringVar(&o.Text, "text", getEnvString(getenv, "MONOLOGUE_TEXT", DEFAULT_TEXT), "Text to reveal when no script is given")
	flagSet.BoolVar(&o.Terminal, "terminal", getEnvBool(getenv, "MONOLOGUE_TERMINAL", false), "Reveal in the terminal instead of a window")
	flagSet.BoolVar(&o.Loop, "loop", getEnvBool(getenv, "MONOLOGUE_LOOP", false), "Start over after the last line")
	flagSet.BoolVar(&o.Features, "features", false, "Print compiled features and exit")

	flagSet.StringVar(&o.LogLevel, "log-level", getEnvString(getenv, "MONOLOGUE_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	flagSet.StringVar(&o.LogFormat, "log-format", getEnvString(getenv, "MONOLOGUE_LOG_FORMAT", "text"), "Log format: text or json")

	flagSet.IntVar(&o.SampleRate, "sample-rate", getEnvInt(getenv, "MONOLOGUE_SAMPLE_RATE", monologue.SAMPLE_RATE), "Audio output sample rate")
	flagSet.IntVar(&o.Channels, "channels", getEnvInt(getenv, "MONOLOGUE_CHANNELS", monologue.DEFAULT_CHANNELS), "Audio output channels")
	flagSet.IntVar(&o.Width, "width", getEnvInt(getenv, "MONOLOGUE_WIDTH", 640), "Window width")
	flagSet.IntVar(&o.Height, "height", getEnvInt(getenv, "MONOLOGUE_HEIGHT", 480), "Window height")

	flagSet.Float64Var(&o.SecondsPerChar, "spc", getEnvFloat(getenv, "MONOLOGUE_SECONDS_PER_CHAR", def.SecondsPerChar), "Seconds between revealed characters")
	flagSet.StringVar(&o.Trigger, "trigger", getEnvString(getenv, "MONOLOGUE_TRIGGER", def.BeepTrigger.String()), "Beep trigger: character or word")
	flagSet.StringVar(&o.Source, "source", getEnvString(getenv, "MONOLOGUE_SOURCE", def.BeepSource.String()), "Beep source: generated or sample")
	flagSet.StringVar(&o.Wave, "wave", getEnvString(getenv, "MONOLOGUE_WAVE", def.WaveType.String()), "Wave: sine, triangle, square, sawtooth, noise")
	flagSet.Float64Var(&o.BeepLength, "beep-length", getEnvFloat(getenv, "MONOLOGUE_BEEP_LENGTH", def.BeepLengthSeconds), "Generated beep length in seconds")
	flagSet.IntVar(&o.Frequency, "freq", getEnvInt(getenv, "MONOLOGUE_FREQUENCY", def.BaseFrequency), "Generated beep frequency in Hz")
	flagSet.Float64Var(&o.BaseVolume, "base-volume", getEnvFloat(getenv, "MONOLOGUE_BASE_VOLUME", def.BaseVolume), "Generated beep amplitude 0-1")
	flagSet.Float64Var(&o.Volume, "volume", getEnvFloat(getenv, "MONOLOGUE_VOLUME", def.Volume), "Output volume 0-1")
	flagSet.Float64Var(&o.Pitch, "pitch", getEnvFloat(getenv, "MONOLOGUE_PITCH", def.Pitch), "Output pitch -3..3")
	flagSet.StringVar(&o.Clip, "clip", getEnvString(getenv, "MONOLOGUE_CLIP", ""), "WAV clip for the sample beep source")
	flagSet.StringVar(&o.Markup, "markup", getEnvString(getenv, "MONOLOGUE_MARKUP", def.MarkupPattern), "Markup regular expression")

	flagSet.Usage = func() {
		flagSet.SetOutput(usage)
		fmt.Fprintf(usage, "Usage: %s [-script file.lua | -text \"...\"] [-terminal] [options]\n", name)
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.Usage()
		}
		return nil, err
	}
	if flagSet.NArg() > 0 {
		o.Text = strings.Join(flagSet.Args(), " ")
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *options) validate() error {
	var errs []error
	if o.SampleRate < 8000 || o.SampleRate > 192000 {
		errs = append(errs, fmt.Errorf("-sample-rate must be between 8000 and 192000, got %d", o.SampleRate))
	}
	if o.Channels < 1 || o.Channels > 8 {
		errs = append(errs, fmt.Errorf("-channels must be between 1 and 8, got %d", o.Channels))
	}
	if o.Width < 64 || o.Height < 64 {
		errs = append(errs, fmt.Errorf("window must be at least 64x64, got %dx%d", o.Width, o.Height))
	}
	switch strings.ToLower(o.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("-log-format must be text or json, got %q", o.LogFormat))
	}
	if o.Script == "" && o.Text == "" {
		errs = append(errs, errors.New("nothing to say: give -script or -text"))
	}
	return errors.Join(errs...)
}

// engineConfig turns the beep and reveal flags into a validated Config.
func (o *options) engineConfig() (monologue.Config, error) {
	cfg := monologue.DefaultConfig()
	var err error
	if cfg.BeepTrigger, err = monologue.ParseBeepTrigger(o.Trigger); err != nil {
		return cfg, err
	}
	if cfg.BeepSource, err = monologue.ParseBeepSource(o.Source); err != nil {
		return cfg, err
	}
	if cfg.WaveType, err = monologue.ParseWaveType(o.Wave); err != nil {
		return cfg, err
	}
	cfg.SecondsPerChar = o.SecondsPerChar
	cfg.BeepLengthSeconds = o.BeepLength
	cfg.BaseFrequency = o.Frequency
	cfg.BaseVolume = o.BaseVolume
	cfg.Volume = o.Volume
	cfg.Pitch = o.Pitch
	cfg.MarkupPattern = o.Markup
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// dialogue loads the script, or wraps the single text line.
func (o *options) dialogue(cfg monologue.Config, logger *slog.Logger) (*monologue.Dialogue, error) {
	if o.Script == "" {
		return &monologue.Dialogue{
			Name:  "text",
			Lines: []monologue.DialogueLine{{Text: o.Text, Config: cfg}},
		}, nil
	}
	loader := monologue.NewScriptLoader(cfg, o.SampleRate, logger)
	return loader.LoadFile(o.Script)
}

// getEnvString returns the environment variable value or a default.
func getEnvString(getenv func(string) string, key, defaultValue string) string {
	if value := getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an int or a default.
func getEnvInt(getenv func(string) string, key string, defaultValue int) int {
	if value := getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvFloat returns the environment variable as a float64 or a default.
func getEnvFloat(getenv func(string) string, key string, defaultValue float64) float64 {
	if value := getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool returns the environment variable as a bool or a default.
func getEnvBool(getenv func(string) string, key string, defaultValue bool) bool {
	if value := getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
