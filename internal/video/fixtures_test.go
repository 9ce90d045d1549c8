package video

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeVideo struct {
	ID          string
	Title       string
	Description string
	Length      string
}

func runs(text string) map[string]any {
	return map[string]any{"runs": []any{map[string]any{"text": text}}}
}

func renderer(v fakeVideo) map[string]any {
	r := map[string]any{
		"videoId": v.ID,
		"title":   runs(v.Title),
		"detailedMetadataSnippets": []any{
			map[string]any{"snippetText": runs(v.Description)},
		},
		"thumbnail": map[string]any{"thumbnails": []any{
			map[string]any{"url": "https://i.ytimg.com/vi/" + v.ID + "/default.jpg"},
			map[string]any{"url": "https://i.ytimg.com/vi/" + v.ID + "/hq720.jpg"},
		}},
	}
	if v.Length != "" {
		r["lengthText"] = map[string]any{"simpleText": v.Length}
	}
	return r
}

func initialData(t *testing.T, videos ...fakeVideo) []byte {
	t.Helper()
	items := make([]any, 0, len(videos)+1)
	items = append(items, map[string]any{"adSlotRenderer": map[string]any{"id": "ad"}})
	for _, v := range videos {
		items = append(items, map[string]any{"videoRenderer": renderer(v)})
	}
	data := map[string]any{
		"contents": map[string]any{
			"twoColumnSearchResultsRenderer": map[string]any{
				"primaryContents": map[string]any{
					"sectionListRenderer": map[string]any{
						"contents": []any{
							map[string]any{"itemSectionRenderer": map[string]any{"contents": items}},
						},
					},
				},
			},
		},
	}
	b, err := json.Marshal(data)
	require.NoError(t, err)
	return b
}

func resultsPage(t *testing.T, videos ...fakeVideo) []byte {
	t.Helper()
	return []byte(fmt.Sprintf(
		"<!DOCTYPE html><html><head><script>var ytInitialData = %s;</script></head><body></body></html>",
		initialData(t, videos...),
	))
}

// fakePlatform serves result pages keyed by search query and records every
// query it receives.
type fakePlatform struct {
	mu       sync.Mutex
	pages    map[string][]byte
	fallback []byte
	queries  []string
}

func (p *fakePlatform) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("search_query")
	p.mu.Lock()
	p.queries = append(p.queries, q)
	page, ok := p.pages[q]
	if !ok {
		page = p.fallback
	}
	p.mu.Unlock()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (p *fakePlatform) Queries() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.queries...)
}

func newTestEngine(t *testing.T, platform http.Handler) *Engine {
	t.Helper()
	srv := httptest.NewServer(platform)
	t.Cleanup(srv.Close)
	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL + "/results"
	return NewEngine(cfg, NewPlatformClient(cfg), nil, zerolog.Nop())
}
