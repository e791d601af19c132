// markup.go - Non-revealable markup spans inside dialogue text

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package monologue

import (
	"regexp"
	"unicode/utf8"
)

// Span is a half-open range [Start, End) of rune offsets covering one markup
// tag. Characters inside a span count toward the text length but are never the
// current reveal position.
type Span struct {
	Start int
	End   int
}

func (s Span) Contains(i int) bool {
	return i >= s.Start && i < s.End
}

// FindMarkupSpans applies re to text and returns the matches as rune offsets.
// A nil pattern yields no spans.
func FindMarkupSpans(re *regexp.Regexp, text string) []Span {
	if re == nil || text == "" {
		return nil
	}
	matches := re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	// byteToRune[b] is the rune index starting at byte offset b.
	byteToRune := make([]int, len(text)+1)
	r := 0
	for b := 0; b < len(text); {
		_, size := utf8.DecodeRuneInString(text[b:])
		for k := 0; k < size; k++ {
			byteToRune[b+k] = r
		}
		b += size
		r++
	}
	byteToRune[len(text)] = r

	spans := make([]Span, 0, len(matches))
	for _, m := range matches {
		if m[1] <= m[0] {
			continue
		}
		spans = append(spans, Span{Start: byteToRune[m[0]], End: byteToRune[m[1]]})
	}
	return spans
}

func insideMarkup(spans []Span, i int) bool {
	for _, s := range spans {
		if s.Contains(i) {
			return true
		}
	}
	return false
}

// compileMarkup compiles a sanitized pattern; the empty pattern disables markup.
func compileMarkup(pattern string) *regexp.Regexp {
	if pattern == "" {
		return nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return regexp.MustCompile(DEFAULT_MARKUP_PATTERN)
	}
	return re
}
