package course

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/coursesmith/internal/video"
)

// Searcher finds candidate videos for one module. *video.Engine satisfies it.
type Searcher interface {
	Search(ctx context.Context, keyword, moduleTitle string, used *video.UsedIDs, moduleIndex int) []video.Candidate
}

// Pipeline is the caller-facing surface: outline, per-module search, final
// assembly.
type Pipeline struct {
	outlines  *OutlineGenerator
	search    Searcher
	assembler *Assembler
	log       zerolog.Logger
}

// NewPipeline wires the three stages together.
func NewPipeline(outlines *OutlineGenerator, search Searcher, assembler *Assembler, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		outlines:  outlines,
		search:    search,
		assembler: assembler,
		log:       log.With().Str("component", "pipeline").Logger(),
	}
}

// GenerateOutline returns a course outline for objective.
func (p *Pipeline) GenerateOutline(ctx context.Context, objective string) (*Outline, error) {
	return p.outlines.Generate(ctx, objective)
}

// SearchVideos returns candidates for one module. When every result is a
// placeholder it retries once with the first three words of the query.
// Callers searching several modules must pass the same used set and call
// sequentially.
func (p *Pipeline) SearchVideos(ctx context.Context, query, moduleTitle string, moduleIndex int, used *video.UsedIDs) []video.Candidate {
	if used == nil {
		used = video.NewUsedIDs()
	}
	got := p.search.Search(ctx, query, moduleTitle, used, moduleIndex)
	if !video.AllPlaceholders(got) {
		return got
	}

	stripped := video.StripPrefix(query)
	simple := firstWords(stripped, 3)
	if simple == "" || simple == stripped {
		return got
	}
	p.log.Warn().
		Int("module", moduleIndex).
		Str("query", stripped).
		Str("retry_query", simple).
		Msg("no videos found, retrying with simplified query")
	return p.search.Search(ctx, simple, moduleTitle, used, moduleIndex)
}

// BuildFinalCourse assembles the course document.
func (p *Pipeline) BuildFinalCourse(ctx context.Context, outline *Outline, selected []video.Candidate, transcripts []string) (*Document, error) {
	return p.assembler.Build(ctx, outline, selected, transcripts)
}

func firstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}
