package video

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

var genericPrefix = regexp.MustCompile(`(?i)^\s*(search|module)\s*\d+\s*[:.\-]\s*`)

// StripPrefix removes generic "Search N:" / "Module N:" labels that outline
// prompts tend to carry.
func StripPrefix(s string) string {
	for {
		stripped := genericPrefix.ReplaceAllString(s, "")
		if stripped == s {
			return strings.TrimSpace(s)
		}
		s = stripped
	}
}

// Engine runs the search, filter and rank pipeline for one module.
type Engine struct {
	cfg     Config
	fetcher Fetcher
	parser  SearchResultParser
	scorer  Scorer
	log     zerolog.Logger
}

// NewEngine wires an Engine. A nil parser defaults to InitialDataParser.
func NewEngine(cfg Config, fetcher Fetcher, parser SearchResultParser, log zerolog.Logger) *Engine {
	if parser == nil {
		parser = NewInitialDataParser()
	}
	return &Engine{
		cfg:     cfg,
		fetcher: fetcher,
		parser:  parser,
		scorer:  NewScorer(cfg.Weights),
		log:     log.With().Str("component", "video_search").Logger(),
	}
}

// TargetCount is the fixed length of every Search result.
func (e *Engine) TargetCount() int {
	return e.cfg.TargetCount
}

// Search returns exactly TargetCount candidates for a module, padding with
// placeholders when fewer were found. It never fails: per-query errors are
// logged and skipped. Returned real ids are added to used.
func (e *Engine) Search(ctx context.Context, keyword, moduleTitle string, used *UsedIDs, moduleIndex int) []Candidate {
	if used == nil {
		used = NewUsedIDs()
	}
	keyword = StripPrefix(keyword)
	moduleTitle = StripPrefix(moduleTitle)
	log := e.log.With().Int("module", moduleIndex).Str("keyword", keyword).Logger()

	acc := &accumulator{target: e.cfg.TargetCount, seen: make(map[string]struct{})}

	for _, q := range queryVariants(keyword, moduleTitle) {
		if acc.full() || ctx.Err() != nil {
			break
		}
		found, err := e.lookup(ctx, q)
		if err != nil {
			log.Warn().Err(err).Str("query", q).Msg("search variant failed")
			continue
		}
		for _, c := range found {
			if acc.full() {
				break
			}
			if e.acceptStrict(c, keyword, used, acc) {
				acc.add(c)
			}
		}
	}

	if !acc.full() && ctx.Err() == nil {
		if q := lastResortQuery(keyword, moduleTitle, e.cfg.LastResortSuffix); q != "" {
			found, err := e.lookup(ctx, q)
			if err != nil {
				log.Warn().Err(err).Str("query", q).Msg("last-resort search failed")
			}
			for _, c := range found {
				if acc.full() {
					break
				}
				if e.acceptRelaxed(c, used, acc) {
					acc.add(c)
				}
			}
		}
	}

	ranked := e.scorer.Rank(acc.items, keyword, moduleTitle, moduleIndex, e.cfg.ModuleCount)
	for _, c := range ranked {
		used.Add(c.ID)
	}

	if len(ranked) == 0 {
		log.Warn().Msg("no usable videos, returning placeholders")
	} else if len(ranked) < e.cfg.TargetCount {
		log.Debug().Int("found", len(ranked)).Msg("padding search results with placeholders")
	}
	return pad(ranked, e.cfg.TargetCount)
}

func (e *Engine) lookup(ctx context.Context, query string) ([]Candidate, error) {
	page, err := e.fetcher.Fetch(ctx, query)
	if err != nil {
		return nil, err
	}
	return e.parser.Parse(page)
}

func (e *Engine) acceptStrict(c Candidate, keyword string, used *UsedIDs, acc *accumulator) bool {
	if !IsEnglish(c.Title, e.cfg.NonLatinThreshold) {
		return false
	}
	if !e.acceptRelaxed(c, used, acc) {
		return false
	}
	return PassesKeywordGate(strings.ToLower(c.Title+" "+c.Description), keyword)
}

// acceptRelaxed keeps de-duplication and the duration band only.
func (e *Engine) acceptRelaxed(c Candidate, used *UsedIDs, acc *accumulator) bool {
	if c.ID == "" || used.Contains(c.ID) || acc.has(c.ID) {
		return false
	}
	return c.DurationMinutes >= e.cfg.MinMinutes && c.DurationMinutes <= e.cfg.MaxMinutes
}

type accumulator struct {
	target int
	items  []Candidate
	seen   map[string]struct{}
}

func (a *accumulator) full() bool { return len(a.items) >= a.target }

func (a *accumulator) has(id string) bool {
	_, ok := a.seen[id]
	return ok
}

func (a *accumulator) add(c Candidate) {
	a.seen[c.ID] = struct{}{}
	a.items = append(a.items, c)
}

// queryVariants lists the queries to try, most specific first. Empty and
// repeated variants are dropped.
func queryVariants(keyword, moduleTitle string) []string {
	candidates := []string{
		keyword,
		joinQuery(keyword, "tutorial"),
		moduleTitle,
		joinQuery(moduleTitle, "tutorial"),
	}
	seen := make(map[string]struct{}, len(candidates))
	var out []string
	for _, q := range candidates {
		key := strings.ToLower(q)
		if q == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	return out
}

func lastResortQuery(keyword, moduleTitle, suffix string) string {
	base := keyword
	if base == "" {
		base = moduleTitle
	}
	return joinQuery(base, suffix)
}

func joinQuery(base, suffix string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	return strings.TrimSpace(base + " " + suffix)
}

func pad(cs []Candidate, n int) []Candidate {
	if len(cs) > n {
		cs = cs[:n]
	}
	out := make([]Candidate, 0, n)
	out = append(out, cs...)
	for len(out) < n {
		out = append(out, Placeholder())
	}
	return out
}
