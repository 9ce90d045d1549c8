package service

import (
	"context"

	"github.com/alexanderramin/coursesmith/internal/course"
	"github.com/alexanderramin/coursesmith/internal/repository"
	"github.com/alexanderramin/coursesmith/internal/video"
)

// Pipeline is the course generation surface. *course.Pipeline satisfies it.
type Pipeline interface {
	GenerateOutline(ctx context.Context, objective string) (*course.Outline, error)
	SearchVideos(ctx context.Context, query, moduleTitle string, moduleIndex int, used *video.UsedIDs) []video.Candidate
	BuildFinalCourse(ctx context.Context, outline *course.Outline, selected []video.Candidate, transcripts []string) (*course.Document, error)
}

// BuildResult is a persisted course.
type BuildResult struct {
	ID       string
	RunID    string
	Document *course.Document
}

type CourseService interface {
	GenerateOutline(ctx context.Context, objective string) (*course.Outline, error)
	SearchVideos(ctx context.Context, query, moduleTitle string, moduleIndex int, used *video.UsedIDs) []video.Candidate
	// Build assembles the course, stores it and returns its opaque id.
	Build(ctx context.Context, outline *course.Outline, selected []video.Candidate, transcripts []string) (*BuildResult, error)
	Get(ctx context.Context, id string) (*course.Document, error)
	List(ctx context.Context, limit int) ([]repository.CourseSummary, error)
	Delete(ctx context.Context, id string) error
}
