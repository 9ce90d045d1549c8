// Package transcript supplies raw transcript text for selected videos.
package transcript

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Source returns the raw transcript for a video. A missing transcript is
// "", nil; callers treat empty text as no content.
type Source interface {
	Transcript(ctx context.Context, videoID string) (string, error)
}

// Extensions tried by DirSource, in order.
var Extensions = []string{".txt", ".vtt", ".srt"}

// DirSource reads <dir>/<videoID>.{txt,vtt,srt}.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Transcript(ctx context.Context, videoID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if videoID == "" || strings.ContainsAny(videoID, `/\`) || videoID == "." || videoID == ".." {
		return "", nil
	}
	for _, ext := range Extensions {
		b, err := os.ReadFile(filepath.Join(s.dir, videoID+ext))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("reading transcript for %s: %w", videoID, err)
		}
		return string(b), nil
	}
	return "", nil
}

// None is a Source with no transcripts; every module falls back to the
// video's own title and description.
type None struct{}

func (None) Transcript(context.Context, string) (string, error) { return "", nil }

// Collect fetches transcripts for ids in order. Placeholder (empty) ids map
// to "".
func Collect(ctx context.Context, src Source, ids []string) ([]string, error) {
	out := make([]string, len(ids))
	for i, id := range ids {
		if id == "" {
			continue
		}
		t, err := src.Transcript(ctx, id)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
