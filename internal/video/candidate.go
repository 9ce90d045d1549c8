// Package video turns a free-text module title into a short, ranked list of
// vetted candidate videos from the video platform.
package video

import (
	"net/url"
	"sort"
	"strings"
	"sync"
)

// PlaceholderTitle is the title carried by placeholder candidates.
const PlaceholderTitle = "No relevant video found"

// Candidate is one search result. ID is the de-duplication key; an empty
// ID marks a placeholder.
type Candidate struct {
	ID              string  `json:"id"`
	URL             string  `json:"url"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	DurationMinutes float64 `json:"duration_minutes"`
	ThumbnailURL    string  `json:"thumbnail_url"`
}

// IsPlaceholder reports whether c stands in for a missing result.
func (c Candidate) IsPlaceholder() bool {
	return c.ID == ""
}

// Placeholder returns the explicit "nothing found" candidate.
func Placeholder() Candidate {
	return Candidate{
		Title:       PlaceholderTitle,
		Description: "No video matched this module's search. Try a simpler query or pick a video manually.",
	}
}

// AllPlaceholders reports whether no real candidate is present.
func AllPlaceholders(cs []Candidate) bool {
	for _, c := range cs {
		if !c.IsPlaceholder() {
			return false
		}
	}
	return true
}

// WatchURL returns the canonical watch URL for a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
}

// IDFromURL extracts the platform id from a watch or short URL. It returns
// "" when the URL carries none.
func IDFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	path := strings.Trim(u.Path, "/")
	switch {
	case host == "youtu.be" && path != "":
		return strings.SplitN(path, "/", 2)[0]
	case strings.HasPrefix(path, "embed/"), strings.HasPrefix(path, "shorts/"):
		parts := strings.SplitN(path, "/", 3)
		if len(parts) > 1 {
			return parts[1]
		}
	}
	return ""
}

// UsedIDs is the set of candidate ids already consumed in one course build.
// It is safe for concurrent use.
type UsedIDs struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewUsedIDs creates a set seeded with ids. Empty ids are ignored.
func NewUsedIDs(ids ...string) *UsedIDs {
	u := &UsedIDs{ids: make(map[string]struct{}, len(ids))}
	u.Add(ids...)
	return u
}

// Contains reports whether id was already used.
func (u *UsedIDs) Contains(id string) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	_, ok := u.ids[id]
	return ok
}

// Add marks ids as used. Placeholder ids are never recorded.
func (u *UsedIDs) Add(ids ...string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, id := range ids {
		if id != "" {
			u.ids[id] = struct{}{}
		}
	}
}

// Len returns the number of used ids.
func (u *UsedIDs) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.ids)
}

// IDs returns the used ids in sorted order.
func (u *UsedIDs) IDs() []string {
	u.mu.RLock()
	out := make([]string, 0, len(u.ids))
	for id := range u.ids {
		out = append(out, id)
	}
	u.mu.RUnlock()
	sort.Strings(out)
	return out
}
