package video

import (
	"sort"
	"strings"
	"unicode"
)

// Unranked is returned by Score when a candidate fails the keyword gate.
const Unranked = -1.0

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "how": {}, "what": {},
	"why": {}, "you": {}, "your": {}, "are": {}, "this": {}, "that": {},
	"from": {}, "into": {}, "about": {}, "using": {}, "use": {}, "its": {},
	"tutorial": {}, "video": {}, "guide": {}, "module": {}, "part": {},
}

// Difficulty is the band inferred from a module's position in the course.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

var bandVocabulary = map[Difficulty][]string{
	Beginner:     {"beginner", "basic", "basics", "introduction", "intro", "fundamentals", "getting started", "first steps", "101"},
	Intermediate: {"intermediate", "practical", "example", "hands-on", "project", "deep dive", "explained"},
	Advanced:     {"advanced", "expert", "master", "mastery", "optimization", "in-depth", "pro tips", "best practices"},
}

// DifficultyFor maps a module position onto a band: the first third of the
// course is beginner, the last third advanced.
func DifficultyFor(moduleIndex, moduleCount int) Difficulty {
	if moduleCount <= 0 {
		return Intermediate
	}
	pos := float64(moduleIndex) / float64(moduleCount)
	switch {
	case pos < 1.0/3.0:
		return Beginner
	case pos >= 2.0/3.0:
		return Advanced
	default:
		return Intermediate
	}
}

// Scorer ranks candidates against a keyword and module title.
type Scorer struct {
	Weights Weights
}

// NewScorer creates a Scorer with the given weights.
func NewScorer(w Weights) Scorer {
	return Scorer{Weights: w}
}

// Score returns a relevance score for c. Candidates whose title and
// description lack the keyword's first token score Unranked.
func (s Scorer) Score(c Candidate, keyword, moduleTitle string, moduleIndex, moduleCount int) float64 {
	haystack := strings.ToLower(c.Title + " " + c.Description)
	if !PassesKeywordGate(haystack, keyword) {
		return Unranked
	}

	keywordCov := coverage(haystack, terms(keyword))
	titleCov := coverage(haystack, terms(moduleTitle))

	bonus := 0.0
	for _, term := range bandVocabulary[DifficultyFor(moduleIndex, moduleCount)] {
		if strings.Contains(haystack, term) {
			bonus = 1.0
			break
		}
	}

	return s.Weights.Title*titleCov + s.Weights.Keyword*keywordCov + s.Weights.Difficulty*bonus
}

// PassesKeywordGate reports whether the lower-cased haystack contains the
// keyword's first token. An empty keyword passes.
func PassesKeywordGate(haystack, keyword string) bool {
	fields := strings.Fields(strings.ToLower(keyword))
	if len(fields) == 0 {
		return true
	}
	first := strings.TrimFunc(fields[0], func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if first == "" {
		return true
	}
	return strings.Contains(haystack, first)
}

// Rank returns cs ordered by descending score. Equal scores keep their
// input order.
func (s Scorer) Rank(cs []Candidate, keyword, moduleTitle string, moduleIndex, moduleCount int) []Candidate {
	type scored struct {
		c     Candidate
		score float64
	}
	items := make([]scored, len(cs))
	for i, c := range cs {
		items[i] = scored{c: c, score: s.Score(c, keyword, moduleTitle, moduleIndex, moduleCount)}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})
	out := make([]Candidate, len(items))
	for i, it := range items {
		out[i] = it.c
	}
	return out
}

func terms(s string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	}) {
		if len([]rune(f)) < 3 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func coverage(haystack string, ts []string) float64 {
	if len(ts) == 0 {
		return 0
	}
	hits := 0
	for _, t := range ts {
		if strings.Contains(haystack, t) {
			hits++
		}
	}
	return float64(hits) / float64(len(ts))
}
