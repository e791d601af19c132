// text_layout.go - Glyph placement and visibility for dialogue hosts

/*
(c) 2024 - 2026 Zayn Otley
License: GPLv3 or later
*/

package monologue

import (
	"strings"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Glyph is one rune placed in the dialogue box. Markup runes are kept with
// zero advance so glyph indices line up with reveal indices.
type Glyph struct {
	Index  int
	Rune   rune
	X, Y   int // Dot position (baseline origin) in pixels
	Markup bool
}

// GlyphVisible applies the reveal rule: everything after current is hidden,
// and current == -1 hides the whole text.
func GlyphVisible(index, current int) bool {
	return current >= 0 && index <= current
}

// LayoutGlyphs places text in a box maxWidth pixels wide using face metrics,
// breaking lines at whitespace where possible and at '\n' always.
func LayoutGlyphs(face font.Face, text []rune, markup []Span, maxWidth int) []Glyph {
	glyphs := make([]Glyph, len(text))
	lineHeight := face.Metrics().Height.Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	limit := fixed.I(maxWidth)

	x := fixed.Int26_6(0)
	y := ascent
	prev := rune(-1)
	for i := 0; i < len(text); i++ {
		r := text[i]
		glyphs[i] = Glyph{Index: i, Rune: r, Markup: insideMarkup(markup, i)}
		if glyphs[i].Markup {
			glyphs[i].X, glyphs[i].Y = x.Round(), y
			continue
		}
		if r == '\n' {
			glyphs[i].X, glyphs[i].Y = x.Round(), y
			x = 0
			y += lineHeight
			prev = -1
			continue
		}

		// Wrap before a word that would overflow the line.
		if maxWidth > 0 && x > 0 && !unicode.IsSpace(r) && (i == 0 || unicode.IsSpace(text[i-1])) {
			if x+wordAdvance(face, text, markup, i) > limit {
				x = 0
				y += lineHeight
				prev = -1
			}
		}

		if prev >= 0 {
			x += face.Kern(prev, r)
		}
		glyphs[i].X, glyphs[i].Y = x.Round(), y
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			adv, _ = face.GlyphAdvance('?')
		}
		x += adv
		prev = r
	}
	return glyphs
}

// wordAdvance measures the word starting at i, skipping markup.
func wordAdvance(face font.Face, text []rune, markup []Span, i int) fixed.Int26_6 {
	var w fixed.Int26_6
	for ; i < len(text) && !unicode.IsSpace(text[i]); i++ {
		if insideMarkup(markup, i) {
			continue
		}
		adv, _ := face.GlyphAdvance(text[i])
		w += adv
	}
	return w
}

// VisibleText returns the revealed portion of text with markup removed.
func VisibleText(text []rune, markup []Span, current int) string {
	var b strings.Builder
	for i, r := range text {
		if !GlyphVisible(i, current) {
			break
		}
		if insideMarkup(markup, i) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// StripMarkup removes every markup span from text.
func StripMarkup(text []rune, markup []Span) string {
	return VisibleText(text, markup, len(text))
}

// VisibleGlyphCount is how many of total glyphs the reveal rule leaves shown.
func VisibleGlyphCount(total, current int) int {
	if current < 0 {
		return 0
	}
	return min(current+1, total)
}
