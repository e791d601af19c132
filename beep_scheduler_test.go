package monologue

import (
	"math"
	"testing"
)

func beepIndices(trigger BeepTrigger, text string) []int {
	runes := []rune(text)
	var out []int
	for i := range runes {
		if ShouldBeep(trigger, runes, i) {
			out = append(out, i)
		}
	}
	return out
}

func TestShouldBeep(t *testing.T) {
	tests := []struct {
		name    string
		trigger BeepTrigger
		text    string
		want    []int
	}{
		{"character skips spaces", BEEP_TRIGGER_CHARACTER, "ab cd", []int{0, 1, 3, 4}},
		{"character skips newlines", BEEP_TRIGGER_CHARACTER, "a\nb", []int{0, 2}},
		{"word beeps after whitespace only", BEEP_TRIGGER_WORD, "ab cd", []int{3}},
		{"word ignores first rune", BEEP_TRIGGER_WORD, "one two three", []int{4, 8}},
		{"word after double space", BEEP_TRIGGER_WORD, "a  b", []int{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := beepIndices(tt.trigger, tt.text); !equalInts(got, tt.want) {
				t.Fatalf("beeps at %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldBeep_OutOfRange(t *testing.T) {
	runes := []rune("ab")
	for _, i := range []int{-1, 2, 10} {
		if ShouldBeep(BEEP_TRIGGER_CHARACTER, runes, i) {
			t.Fatalf("index %d beeped", i)
		}
	}
}

func TestBeepWindow(t *testing.T) {
	w := newBeepWindow()
	if !math.IsInf(w.SecondsSinceTrigger(), 1) || w.Audible(0.01) {
		t.Fatal("new window should start expired")
	}
	w.Arm()
	if !w.Audible(0.01) || !w.Audible(0) {
		t.Fatal("armed window should be audible, even for a zero-length beep")
	}
	w.Elapse(0.005)
	if !w.Audible(0.01) {
		t.Fatal("window closed early")
	}
	w.Elapse(0.01)
	if w.Audible(0.01) {
		t.Fatal("window stayed open past the beep length")
	}
}

func TestScheduleBeep(t *testing.T) {
	text := []rune("a b<i>")
	spans := []Span{{Start: 3, End: 6}}
	tests := []struct {
		name   string
		source BeepSource
		index  int
		want   beepAction
		armed  bool
	}{
		{"generated arms window", BEEP_SOURCE_GENERATED, 0, beepGenerated, true},
		{"sample leaves window alone", BEEP_SOURCE_SAMPLE, 0, beepClip, false},
		{"whitespace is silent", BEEP_SOURCE_GENERATED, 1, beepNone, false},
		{"trailing tag is silent", BEEP_SOURCE_GENERATED, 5, beepNone, false},
		{"sampled trailing tag is silent", BEEP_SOURCE_SAMPLE, 5, beepNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.BeepSource = tt.source
			w := newBeepWindow()
			if got := scheduleBeep(&cfg, w, text, spans, tt.index); got != tt.want {
				t.Fatalf("action = %v, want %v", got, tt.want)
			}
			if armed := w.SecondsSinceTrigger() == 0; armed != tt.armed {
				t.Fatalf("armed = %v, want %v", armed, tt.armed)
			}
		})
	}
}
