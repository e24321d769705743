// Package text normalizes narration text before it is handed to the speech
// service: typographic characters are flattened, whitespace is collapsed, and
// the narration always ends in sentence punctuation so the synthesized track
// does not cut off mid-phrase.
package text

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Typographic characters normalized to their plain ASCII forms.
const (
	emDash       = "—"
	enDash       = "–"
	figureDash   = "‒"
	ellipsis     = "..."
	ellipsisChar = "…"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// Normalizer provides narration text normalization.
type Normalizer struct {
	typographicReplacer *strings.Replacer
}

// NewNormalizer creates a normalizer with its replacers prepared upfront.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		typographicReplacer: strings.NewReplacer(
			emDash, "-",
			enDash, "-",
			figureDash, "-",
			ellipsisChar, ellipsis,
			"“", `"`, "”", `"`,
			"‘", "'", "’", "'",
		),
	}
}

// Normalize cleans narration text for synthesis. Empty input stays empty.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return text
	}

	normalized := stripControlCharacters(text)
	normalized = n.typographicReplacer.Replace(normalized)
	normalized = whitespacePattern.ReplaceAllString(normalized, " ")
	normalized = strings.TrimSpace(normalized)

	return ensureSentenceEnding(normalized)
}

// stripControlCharacters drops control runes that some speech services read
// aloud or reject; tabs and newlines survive for the whitespace collapse.
func stripControlCharacters(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}

		return r
	}, text)
}

// ensureSentenceEnding appends a period when the text does not already end in
// sentence punctuation.
func ensureSentenceEnding(text string) string {
	if text == "" {
		return ""
	}

	lastRune, _ := utf8.DecodeLastRuneInString(text)
	switch lastRune {
	case '.', '!', '?':
		return text
	default:
		return text + "."
	}
}
