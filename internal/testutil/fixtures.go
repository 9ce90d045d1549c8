package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/coursesmith/internal/course"
	"github.com/alexanderramin/coursesmith/internal/video"
)

var testVideoCounter atomic.Int64

// DocumentOption customizes NewTestDocument.
type DocumentOption func(*course.Document)

// WithQuizGap drops the quiz of module i and records the gap.
func WithQuizGap(i int) DocumentOption {
	return func(d *course.Document) {
		d.Modules[i].Quiz = nil
		d.Gaps = append(d.Gaps, course.Gap{Module: i, Kind: course.GapQuiz, Reason: "invalid output"})
	}
}

func WithCreatedAt(t time.Time) DocumentOption {
	return func(d *course.Document) {
		d.CreatedAt = t
	}
}

// WithPlaceholderVideo replaces module i's video with a placeholder.
func WithPlaceholderVideo(i int) DocumentOption {
	return func(d *course.Document) {
		d.TotalMinutes -= d.Modules[i].DurationMinutes
		d.Modules[i].Video = video.Placeholder()
		d.Modules[i].DurationMinutes = 0
	}
}

// NewTestVideo returns a real-looking candidate with a unique id.
func NewTestVideo(title string, minutes float64) video.Candidate {
	id := fmt.Sprintf("tv%09d", testVideoCounter.Add(1))
	return video.Candidate{
		ID:              id,
		URL:             video.WatchURL(id),
		Title:           title,
		Description:     title + " walkthrough",
		DurationMinutes: minutes,
		ThumbnailURL:    "https://i.ytimg.com/vi/" + id + "/hq720.jpg",
	}
}

// NewTestQuiz returns a one-question quiz about topic.
func NewTestQuiz(topic string) *course.Quiz {
	return &course.Quiz{Questions: []course.QuizQuestion{{
		Question: "What does " + topic + " cover?",
		Options:  []string{topic, "something else", "nothing", "all of the above"},
		Answer:   topic,
	}}}
}

// NewTestDocument builds a complete document with n modules, 10 minutes
// each, every module quizzed.
func NewTestDocument(n int, opts ...DocumentOption) *course.Document {
	doc := &course.Document{
		Title:        "Test Course " + uuid.NewString()[:8],
		Objective:    "Learn the test topic",
		Introduction: "Welcome.",
		Modules:      make([]course.ModuleArtifact, n),
		FinalQuiz:    NewTestQuiz("the whole course"),
		Conclusion:   "Well done.",
		CreatedAt:    time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}
	for i := range doc.Modules {
		title := fmt.Sprintf("Module %d", i+1)
		v := NewTestVideo(title, 10)
		doc.Modules[i] = course.ModuleArtifact{
			Position:        i,
			Title:           title,
			Objective:       "Explain " + title,
			Summary:         "Summary of " + title,
			Video:           v,
			DurationMinutes: v.DurationMinutes,
			Quiz:            NewTestQuiz(title),
		}
		doc.TotalMinutes += v.DurationMinutes
	}
	if n > 0 {
		doc.ThumbnailURL = "https://i.ytimg.com/vi/" + doc.Modules[0].Video.ID + "/hqdefault.jpg"
	}
	for _, opt := range opts {
		opt(doc)
	}
	return doc
}
