// dialogue_input.go - Host input helpers shared by the window and terminal hosts

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package monologue

import "unicode/utf8"

const MAX_PASTE_BYTES = 4096

// normalizePasteText folds CRLF and lone CR line endings to LF.
func normalizePasteText(raw []byte) []byte {
	norm := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\r' {
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
			norm = append(norm, '\n')
			continue
		}
		norm = append(norm, raw[i])
	}
	return norm
}

// capPasteText truncates to at most max bytes without splitting a rune.
func capPasteText(raw []byte, max int) []byte {
	if len(raw) <= max {
		return raw
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(raw[cut]) {
		cut--
	}
	return raw[:cut]
}

// pastedDialogue turns clipboard bytes into reveal text; ok is false when
// nothing usable was pasted.
func pastedDialogue(raw []byte) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	data := capPasteText(normalizePasteText(raw), MAX_PASTE_BYTES)
	if !utf8.Valid(data) || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// hostKey is a host-independent control input.
type hostKey int

const (
	keyNone hostKey = iota
	keyContinue
	keyQuit
)

// classifyTerminalKey maps a raw stdin byte to a control input.
func classifyTerminalKey(b byte) hostKey {
	switch b {
	case ' ', '\r', '\n':
		return keyContinue
	case 'q', 'Q', 0x1B, 0x03: // q, Esc, Ctrl+C in raw mode
		return keyQuit
	}
	return keyNone
}
