package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/coursesmith/internal/course"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// CourseSummary is the list view of a stored course.
type CourseSummary struct {
	ID           string
	RunID        string
	Title        string
	Objective    string
	ThumbnailURL string
	TotalMinutes float64
	ModuleCount  int
	QuizGaps     int
	CreatedAt    time.Time
}

// ModuleRow is one stored module, queryable without decoding the document.
type ModuleRow struct {
	CourseID        string
	Position        int
	Title           string
	VideoID         string
	VideoURL        string
	DurationMinutes float64
	HasQuiz         bool
}

// CourseRepo stores finished course documents under opaque ids.
type CourseRepo interface {
	Create(ctx context.Context, id, runID string, doc *course.Document) error
	GetByID(ctx context.Context, id string) (*course.Document, error)
	List(ctx context.Context, limit int) ([]CourseSummary, error)
	ListModules(ctx context.Context, courseID string) ([]ModuleRow, error)
	Delete(ctx context.Context, id string) error
}
