// dialogue_script.go - Lua dialogue scripts

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package monologue

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

const DEFAULT_SCRIPT_TIMEOUT = 2 * time.Second

// ScriptLoader turns a Lua script into a Dialogue. Scripts see three globals:
//
//	title "Intro"
//	configure { seconds_per_char = 0.04, trigger = "word", wave = "sine" }
//	say "Hello <b>there</b>"
//	say("Quietly.", { volume = 0.3 })
//
// configure changes the settings of every following line; the optional table
// given to say overrides them for that line only. sample paths are resolved
// against Dir.
type ScriptLoader struct {
	Base       Config
	SampleRate int
	Dir        string
	Timeout    time.Duration
	Logger     *slog.Logger
}

func NewScriptLoader(base Config, sampleRate int, logger *slog.Logger) *ScriptLoader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ScriptLoader{
		Base:       base,
		SampleRate: sampleRate,
		Timeout:    DEFAULT_SCRIPT_TIMEOUT,
		Logger:     logger,
	}
}

// LoadFile reads and runs the script at path. Sample paths inside it resolve
// relative to the script's directory unless Dir is set.
func (sl *ScriptLoader) LoadFile(path string) (*Dialogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ScriptError{Script: path, Details: "open", Err: err}
	}
	defer f.Close()

	loader := *sl
	if loader.Dir == "" {
		loader.Dir = filepath.Dir(path)
	}
	return loader.Parse(filepath.Base(path), f)
}

// Parse runs src and collects the lines it says.
func (sl *ScriptLoader) Parse(name string, src io.Reader) (*Dialogue, error) {
	run := &scriptRun{
		loader:   sl,
		current:  sl.Base,
		clips:    make(map[string]*Clip),
		dialogue: &Dialogue{Name: name},
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.fn), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			return nil, &ScriptError{Script: name, Details: "open " + lib.name, Err: err}
		}
	}

	timeout := sl.Timeout
	if timeout <= 0 {
		timeout = DEFAULT_SCRIPT_TIMEOUT
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	L.SetContext(ctx)

	L.SetGlobal("title", L.NewFunction(run.luaTitle))
	L.SetGlobal("configure", L.NewFunction(run.luaConfigure))
	L.SetGlobal("say", L.NewFunction(run.luaSay))

	fn, err := L.Load(src, name)
	if err != nil {
		return nil, &ScriptError{Script: name, Details: "syntax", Err: err}
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return nil, &ScriptError{Script: name, Details: "run", Err: err}
	}
	if len(run.dialogue.Lines) == 0 {
		return nil, &ScriptError{Script: name, Details: "script says nothing"}
	}

	sl.logger().Info("dialogue script loaded", "script", name, "lines", len(run.dialogue.Lines))
	return run.dialogue, nil
}

func (sl *ScriptLoader) logger() *slog.Logger {
	if sl.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return sl.Logger
}

// scriptRun is the state of one script execution.
type scriptRun struct {
	loader   *ScriptLoader
	current  Config
	clips    map[string]*Clip
	dialogue *Dialogue
}

func (r *scriptRun) luaTitle(L *lua.LState) int {
	r.dialogue.Name = L.CheckString(1)
	return 0
}

func (r *scriptRun) luaConfigure(L *lua.LState) int {
	tbl := L.CheckTable(1)
	cfg, err := r.apply(r.current, tbl)
	if err != nil {
		L.RaiseError("configure: %v", err)
		return 0
	}
	r.current = cfg
	return 0
}

func (r *scriptRun) luaSay(L *lua.LState) int {
	text := L.CheckString(1)
	cfg := r.current
	if overrides := L.OptTable(2, nil); overrides != nil {
		var err error
		if cfg, err = r.apply(cfg, overrides); err != nil {
			L.RaiseError("say: %v", err)
			return 0
		}
	}
	r.dialogue.Lines = append(r.dialogue.Lines, DialogueLine{Text: text, Config: cfg})
	return 0
}

// apply copies every recognised key of tbl onto cfg.
func (r *scriptRun) apply(cfg Config, tbl *lua.LTable) (Config, error) {
	var err error
	tbl.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		key, ok := k.(lua.LString)
		if !ok {
			err = fmt.Errorf("option keys must be strings, got %s", k.Type())
			return
		}
		err = r.applyOption(&cfg, strings.ToLower(string(key)), v)
	})
	return cfg, err
}

func (r *scriptRun) applyOption(cfg *Config, key string, v lua.LValue) error {
	switch key {
	case "seconds_per_char":
		return numberOption(key, v, &cfg.SecondsPerChar)
	case "beep_length":
		return numberOption(key, v, &cfg.BeepLengthSeconds)
	case "base_volume":
		return numberOption(key, v, &cfg.BaseVolume)
	case "volume":
		return numberOption(key, v, &cfg.Volume)
	case "pitch":
		return numberOption(key, v, &cfg.Pitch)
	case "frequency":
		var hz float64
		if err := numberOption(key, v, &hz); err != nil {
			return err
		}
		cfg.BaseFrequency = int(hz)
	case "trigger":
		s, err := stringOption(key, v)
		if err != nil {
			return err
		}
		if cfg.BeepTrigger, err = ParseBeepTrigger(s); err != nil {
			return err
		}
	case "source":
		s, err := stringOption(key, v)
		if err != nil {
			return err
		}
		if cfg.BeepSource, err = ParseBeepSource(s); err != nil {
			return err
		}
	case "wave":
		s, err := stringOption(key, v)
		if err != nil {
			return err
		}
		if cfg.WaveType, err = ParseWaveType(s); err != nil {
			return err
		}
	case "markup":
		s, err := stringOption(key, v)
		if err != nil {
			return err
		}
		cfg.MarkupPattern = s
	case "sample":
		s, err := stringOption(key, v)
		if err != nil {
			return err
		}
		clip, err := r.clip(s)
		if err != nil {
			return err
		}
		cfg.Sample = clip
	default:
		return fmt.Errorf("unknown option %q", key)
	}
	return nil
}

// clip loads a sample once per script run.
func (r *scriptRun) clip(path string) (*Clip, error) {
	if !filepath.IsAbs(path) && r.loader.Dir != "" {
		path = filepath.Join(r.loader.Dir, path)
	}
	if c, ok := r.clips[path]; ok {
		return c, nil
	}
	c, err := LoadClip(path, r.loader.SampleRate)
	if err != nil {
		return nil, err
	}
	r.clips[path] = c
	return c, nil
}

func numberOption(key string, v lua.LValue, dst *float64) error {
	n, ok := v.(lua.LNumber)
	if !ok {
		return fmt.Errorf("%s must be a number, got %s", key, v.Type())
	}
	*dst = float64(n)
	return nil
}

func stringOption(key string, v lua.LValue) (string, error) {
	s, ok := v.(lua.LString)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %s", key, v.Type())
	}
	return string(s), nil
}
