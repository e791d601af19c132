package monologue

import "testing"

func TestNormalizePasteText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a\r\nb", "a\nb"},
		{"a\rb", "a\nb"},
		{"a\nb", "a\nb"},
		{"\r\r\n", "\n\n"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := string(normalizePasteText([]byte(tt.in))); got != tt.want {
			t.Errorf("normalizePasteText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCapPasteText(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "h"}, // é is two bytes; never split it
		{"héllo", 3, "hé"},
	}
	for _, tt := range tests {
		if got := string(capPasteText([]byte(tt.in), tt.max)); got != tt.want {
			t.Errorf("capPasteText(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestPastedDialogue(t *testing.T) {
	if _, ok := pastedDialogue(nil); ok {
		t.Error("empty clipboard accepted")
	}
	if _, ok := pastedDialogue([]byte{0xff, 0xfe}); ok {
		t.Error("invalid UTF-8 accepted")
	}
	got, ok := pastedDialogue([]byte("line one\r\nline two"))
	if !ok || got != "line one\nline two" {
		t.Errorf("pastedDialogue = %q, %v", got, ok)
	}
	long := make([]byte, MAX_PASTE_BYTES+100)
	for i := range long {
		long[i] = 'x'
	}
	if got, ok := pastedDialogue(long); !ok || len(got) != MAX_PASTE_BYTES {
		t.Errorf("long paste not capped: len=%d ok=%v", len(got), ok)
	}
}

func TestClassifyTerminalKey(t *testing.T) {
	tests := []struct {
		b    byte
		want hostKey
	}{
		{' ', keyContinue},
		{'\r', keyContinue},
		{'\n', keyContinue},
		{'q', keyQuit},
		{'Q', keyQuit},
		{0x1B, keyQuit},
		{0x03, keyQuit},
		{'x', keyNone},
	}
	for _, tt := range tests {
		if got := classifyTerminalKey(tt.b); got != tt.want {
			t.Errorf("classifyTerminalKey(%q) = %v, want %v", tt.b, got, tt.want)
		}
	}
}
