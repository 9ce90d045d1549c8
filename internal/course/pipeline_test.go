package course

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/coursesmith/internal/video"
)

// fakeSearcher hands out fresh ids per call and honours the used set.
type fakeSearcher struct {
	queries []string
	empty   map[string]bool
	next    int
}

func (s *fakeSearcher) Search(_ context.Context, keyword, _ string, used *video.UsedIDs, _ int) []video.Candidate {
	s.queries = append(s.queries, keyword)
	out := make([]video.Candidate, 0, 5)
	if !s.empty[keyword] {
		for len(out) < 2 {
			s.next++
			id := fmt.Sprintf("vid%08d", s.next)
			if used.Contains(id) {
				continue
			}
			out = append(out, video.Candidate{ID: id, URL: video.WatchURL(id), Title: keyword, DurationMinutes: 5})
			used.Add(id)
		}
	}
	for len(out) < 5 {
		out = append(out, video.Placeholder())
	}
	return out
}

func newTestPipeline(t *testing.T, searcher Searcher) (*Pipeline, *fakeLLM) {
	t.Helper()
	fake := happyLLM(4)
	gate := testGate(fake)
	cfg := testConfig(4)
	return NewPipeline(
		NewOutlineGenerator(gate, cfg, zerolog.Nop()),
		searcher,
		NewAssembler(gate, cfg, zerolog.Nop()),
		zerolog.Nop(),
	), fake
}

func TestSearchVideos_RetriesWithFirstThreeWords(t *testing.T) {
	s := &fakeSearcher{empty: map[string]bool{"Search 2: python list comprehension basics": true}}
	p, _ := newTestPipeline(t, s)

	got := p.SearchVideos(context.Background(), "Search 2: python list comprehension basics", "Comprehensions", 1, video.NewUsedIDs())

	assert.Equal(t, []string{"Search 2: python list comprehension basics", "python list comprehension"}, s.queries)
	assert.False(t, video.AllPlaceholders(got))
}

func TestSearchVideos_NoRetryWhenResultsFound(t *testing.T) {
	s := &fakeSearcher{}
	p, _ := newTestPipeline(t, s)

	p.SearchVideos(context.Background(), "python list comprehension basics", "", 0, nil)

	assert.Len(t, s.queries, 1)
}

func TestSearchVideos_NoRetryForShortQuery(t *testing.T) {
	s := &fakeSearcher{empty: map[string]bool{"rare topic": true}}
	p, _ := newTestPipeline(t, s)

	got := p.SearchVideos(context.Background(), "rare topic", "", 0, video.NewUsedIDs())

	assert.Len(t, s.queries, 1)
	assert.True(t, video.AllPlaceholders(got))
	assert.Len(t, got, 5)
}

func TestPipeline_EndToEnd(t *testing.T) {
	s := &fakeSearcher{}
	p, fake := newTestPipeline(t, s)
	ctx := context.Background()

	outline, err := p.GenerateOutline(ctx, "learn python")
	require.NoError(t, err)
	require.Equal(t, 4, outline.ModuleCount())

	used := video.NewUsedIDs()
	selected := make([]video.Candidate, outline.ModuleCount())
	transcripts := make([]string, outline.ModuleCount())
	for i := range outline.ModuleTitles {
		cands := p.SearchVideos(ctx, outline.SearchPrompts[i], outline.ModuleTitles[i], i, used)
		selected[i] = cands[0]
		transcripts[i] = fmt.Sprintf("lesson %d transcript text", i+1)
	}

	seen := map[string]bool{}
	for _, v := range selected {
		assert.False(t, seen[v.ID], "duplicate %s", v.ID)
		seen[v.ID] = true
	}

	doc, err := p.BuildFinalCourse(ctx, outline, selected, transcripts)
	require.NoError(t, err)
	assert.Len(t, doc.Modules, 4)
	assert.Empty(t, doc.Gaps)
	assert.InDelta(t, 20.0, doc.TotalMinutes, 0.001)
	assert.Equal(t, ThumbnailURL(selected[0].ID), doc.ThumbnailURL)
	assert.Equal(t, 1, fake.calls("outline"))
}

func TestFirstWords(t *testing.T) {
	assert.Equal(t, "a b c", firstWords("a  b c d e", 3))
	assert.Equal(t, "a b", firstWords(" a b ", 3))
	assert.Equal(t, "", firstWords("", 3))
}
