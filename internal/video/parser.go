package video

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var (
	// ErrMarkerNotFound is returned when a results page carries no embedded
	// initial-data blob.
	ErrMarkerNotFound = errors.New("initial data marker not found")
	// ErrMalformedPage is returned when the embedded blob cannot be decoded.
	ErrMalformedPage = errors.New("malformed results page")
)

// SearchResultParser extracts candidates from one raw results page.
type SearchResultParser interface {
	Parse(page []byte) ([]Candidate, error)
}

var initialDataMarkers = [][]byte{
	[]byte("var ytInitialData = "),
	[]byte(`window["ytInitialData"] = `),
}

var scriptEnd = []byte(";</script>")

// InitialDataParser reads the JSON blob the platform embeds in its search
// results HTML.
type InitialDataParser struct{}

// NewInitialDataParser returns the HTML-embedded-JSON parser.
func NewInitialDataParser() InitialDataParser {
	return InitialDataParser{}
}

func (InitialDataParser) Parse(page []byte) ([]Candidate, error) {
	blob, err := cutInitialData(page)
	if err != nil {
		return nil, err
	}

	var root any
	dec := json.NewDecoder(bytes.NewReader(blob))
	dec.UseNumber()
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPage, err)
	}

	var out []Candidate
	walk(root, func(renderer map[string]any) {
		if c, ok := candidateFrom(renderer); ok {
			out = append(out, c)
		}
	})
	return out, nil
}

func cutInitialData(page []byte) ([]byte, error) {
	for _, marker := range initialDataMarkers {
		i := bytes.Index(page, marker)
		if i < 0 {
			continue
		}
		rest := page[i+len(marker):]
		if end := bytes.Index(rest, scriptEnd); end >= 0 {
			rest = rest[:end]
		}
		rest = bytes.TrimSpace(rest)
		if len(rest) == 0 {
			return nil, ErrMalformedPage
		}
		return rest, nil
	}
	return nil, ErrMarkerNotFound
}

// walk visits every videoRenderer object depth-first. Array order is
// preserved; object keys are visited in sorted order so the result is
// deterministic.
func walk(node any, visit func(map[string]any)) {
	switch v := node.(type) {
	case map[string]any:
		if r, ok := v["videoRenderer"].(map[string]any); ok {
			visit(r)
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			if k != "videoRenderer" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			walk(v[k], visit)
		}
	case []any:
		for _, item := range v {
			walk(item, visit)
		}
	}
}

func candidateFrom(r map[string]any) (Candidate, bool) {
	id, _ := r["videoId"].(string)
	if id == "" {
		return Candidate{}, false
	}
	title := textOf(r["title"])
	if title == "" {
		return Candidate{}, false
	}

	desc := ""
	if snippets, ok := r["detailedMetadataSnippets"].([]any); ok {
		for _, s := range snippets {
			if m, ok := s.(map[string]any); ok {
				if desc = textOf(m["snippetText"]); desc != "" {
					break
				}
			}
		}
	}
	if desc == "" {
		desc = textOf(r["descriptionSnippet"])
	}

	minutes, _ := ParseDuration(textOf(r["lengthText"]))

	return Candidate{
		ID:              id,
		URL:             WatchURL(id),
		Title:           title,
		Description:     desc,
		DurationMinutes: minutes,
		ThumbnailURL:    lastThumbnail(r["thumbnail"]),
	}, true
}

// textOf flattens the platform's {"simpleText": ...} / {"runs": [...]} text
// shapes.
func textOf(node any) string {
	m, ok := node.(map[string]any)
	if !ok {
		return ""
	}
	if s, ok := m["simpleText"].(string); ok {
		return strings.TrimSpace(s)
	}
	runs, ok := m["runs"].([]any)
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, run := range runs {
		if rm, ok := run.(map[string]any); ok {
			if t, ok := rm["text"].(string); ok {
				b.WriteString(t)
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func lastThumbnail(node any) string {
	m, ok := node.(map[string]any)
	if !ok {
		return ""
	}
	thumbs, ok := m["thumbnails"].([]any)
	if !ok {
		return ""
	}
	for i := len(thumbs) - 1; i >= 0; i-- {
		if t, ok := thumbs[i].(map[string]any); ok {
			if u, ok := t["url"].(string); ok && u != "" {
				return u
			}
		}
	}
	return ""
}

// ParseDuration converts "SS", "M:SS" or "H:MM:SS" into minutes.
func ParseDuration(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	seconds := 0
	for _, p := range parts {
		n, err := strconv.Atoi(strings.ReplaceAll(p, ",", ""))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		seconds = seconds*60 + n
	}
	return float64(seconds) / 60.0, nil
}
