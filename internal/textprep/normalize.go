// Package textprep cleans transcript and HTML text before it is embedded in
// an LLM prompt.
package textprep

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars is the prompt budget used by the package-level Normalize.
const DefaultMaxChars = 4000

var defaultNormalizer = Normalizer{MaxChars: DefaultMaxChars}

// Normalize cleans raw with the default budget.
func Normalize(raw string) string {
	return defaultNormalizer.Normalize(raw)
}

// Normalizer strips transcript noise and truncates to MaxChars runes.
// A MaxChars of zero or less disables truncation.
type Normalizer struct {
	MaxChars int
}

var (
	cueTimingRe   = regexp.MustCompile(`(?m)^\s*\d{1,2}:\d{2}(?::\d{2})?(?:[.,]\d{1,3})?\s*-->\s*\d{1,2}:\d{2}(?::\d{2})?(?:[.,]\d{1,3})?.*$`)
	cueNumberRe   = regexp.MustCompile(`(?m)^\s*\d+\s*$`)
	webvttRe      = regexp.MustCompile(`(?m)^\s*WEBVTT.*$`)
	lineStampRe   = regexp.MustCompile(`(?m)^\s*\d{1,2}:\d{2}(?::\d{2})?(?:[.,]\d{1,3})?\s+`)
	wrappedStamp  = regexp.MustCompile(`[\[(]\s*\d{1,2}:\d{2}(?::\d{2})?(?:[.,]\d{1,3})?\s*[\])]`)
	htmlTagRe     = regexp.MustCompile(`<[^<>]*>`)
	urlRe         = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)
	bracketNoteRe = regexp.MustCompile(`\[[^\[\]]*\]`)
	parenNoteRe   = regexp.MustCompile(`(?i)\(\s*(?:music|applause|laughter|laughs|inaudible|silence|background noise|crosstalk|cheering|upbeat music|no audio)\s*\)`)
	speakerRe     = regexp.MustCompile(`(?m)^\s*(?:>>\s*)?[A-Z][A-Za-z0-9.'\-]*(?: [A-Z][A-Za-z0-9.'\-]*){0,2}:\s`)
	spaceRe       = regexp.MustCompile(`\s+`)
	entityRe      = regexp.MustCompile(`&(?:#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6}|[A-Za-z][A-Za-z0-9]{1,31});`)
)

var entityMarkup = strings.NewReplacer("<", " ", ">", " ", "&", " and ")

// punctuation maps non-ASCII punctuation to ASCII one rune for one, or
// drops it. It never lengthens the text, which keeps truncation stable.
var punctuation = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "‛", "'",
	"“", `"`, "”", `"`, "„", `"`, "«", `"`, "»", `"`,
	"‐", "-", "‑", "-", "‒", "-", "–", "-", "—", "-", "―", "-",
	"…", ".", "•", " ", "·", " ", "♪", " ", "♫", " ",
	"\u00a0", " ", "\u200b", "", "\ufeff", "",
)

// Normalize returns single-line, whitespace-normalized text with
// timestamps, markup, speaker labels, URLs and non-speech annotations
// removed. It never fails; empty output means no usable content.
// Normalize(Normalize(x)) == Normalize(x).
func (n Normalizer) Normalize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	s := fixpoint(raw)
	if n.MaxChars > 0 && utf8.RuneCountInString(s) > n.MaxChars {
		s = truncateRunes(s, n.MaxChars)
		s = fixpoint(s)
	}
	return s
}

// fixpoint applies cleanOnce until the text stops changing. After the
// first pass every step only deletes, so the loop terminates.
func fixpoint(s string) string {
	for {
		next := cleanOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}

func cleanOnce(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	// Line-oriented passes run before whitespace collapses the lines.
	s = webvttRe.ReplaceAllString(s, "")
	s = cueTimingRe.ReplaceAllString(s, "")
	s = cueNumberRe.ReplaceAllString(s, "")
	s = lineStampRe.ReplaceAllString(s, "")
	s = speakerRe.ReplaceAllString(s, "")

	s = htmlTagRe.ReplaceAllString(s, " ")
	s = decodeEntities(s)
	s = urlRe.ReplaceAllString(s, " ")
	s = wrappedStamp.ReplaceAllString(s, " ")
	s = bracketNoteRe.ReplaceAllString(s, " ")
	s = parenNoteRe.ReplaceAllString(s, " ")
	s = punctuation.Replace(s)

	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// decodeEntities unescapes HTML entities but keeps the result from
// re-introducing markup: a decoded angle bracket becomes a space and a
// decoded ampersand becomes " and ". Literal text around the entities,
// including a bare "&", is left as is.
func decodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return entityRe.ReplaceAllStringFunc(s, func(ent string) string {
		decoded := html.UnescapeString(ent)
		if decoded == ent {
			return ent
		}
		return entityMarkup.Replace(decoded)
	})
}

func truncateRunes(s string, max int) string {
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
