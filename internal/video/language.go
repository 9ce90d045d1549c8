package video

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Markers that show up in titles of non-English uploads even when the title
// is written in Latin script.
var nonEnglishMarkers = []string{
	"en español", "espanol", "español", "tutorial completo", "curso",
	"em português", "portugues", "aula", "en français", "francais",
	"auf deutsch", "deutsch", "anleitung", "in hindi", "hindi", "in urdu",
	"tamil", "telugu", "bangla", "in italiano", "türkçe", "bahasa",
	"tiếng việt", "на русском", "日本語", "中文", "한국어",
}

// IsEnglish reports whether title looks like an English-language upload:
// no known non-English marker and a non-Latin letter ratio below threshold.
func IsEnglish(title string, threshold float64) bool {
	lower := strings.ToLower(title)
	for _, m := range nonEnglishMarkers {
		if containsWord(lower, m) {
			return false
		}
	}
	return NonLatinRatio(title) < threshold
}

// NonLatinRatio returns the share of letters in s outside the Latin script.
func NonLatinRatio(s string) float64 {
	letters, nonLatin := 0, 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if !unicode.Is(unicode.Latin, r) {
			nonLatin++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(nonLatin) / float64(letters)
}

// containsWord matches m in s on word boundaries so that "aula" does not
// match "paula".
func containsWord(s, m string) bool {
	for from := 0; ; {
		i := strings.Index(s[from:], m)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(m)
		if boundaryBefore(s, start) && boundaryAfter(s, end) {
			return true
		}
		from = start + 1
		if from >= len(s) {
			return false
		}
	}
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
