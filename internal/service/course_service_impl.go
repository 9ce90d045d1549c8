package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alexanderramin/coursesmith/internal/course"
	"github.com/alexanderramin/coursesmith/internal/db"
	"github.com/alexanderramin/coursesmith/internal/logging"
	"github.com/alexanderramin/coursesmith/internal/repository"
	"github.com/alexanderramin/coursesmith/internal/video"
)

type courseService struct {
	pipeline Pipeline
	courses  repository.CourseRepo
	uow      db.UnitOfWork
	log      zerolog.Logger
	observer UseCaseObserver
}

func NewCourseService(
	pipeline Pipeline,
	courses repository.CourseRepo,
	uow db.UnitOfWork,
	log zerolog.Logger,
	observers ...UseCaseObserver,
) CourseService {
	return &courseService{
		pipeline: pipeline,
		courses:  courses,
		uow:      uow,
		log:      log,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *courseService) GenerateOutline(ctx context.Context, objective string) (outline *course.Outline, err error) {
	defer s.observe(ctx, "generate-outline", time.Now(), &err, map[string]any{"objective": objective})
	return s.pipeline.GenerateOutline(ctx, objective)
}

func (s *courseService) SearchVideos(ctx context.Context, query, moduleTitle string, moduleIndex int, used *video.UsedIDs) []video.Candidate {
	return s.pipeline.SearchVideos(ctx, query, moduleTitle, moduleIndex, used)
}

func (s *courseService) Build(ctx context.Context, outline *course.Outline, selected []video.Candidate, transcripts []string) (res *BuildResult, err error) {
	log, runID := logging.WithRun(s.log)
	ctx = log.WithContext(ctx)
	fields := map[string]any{"run_id": runID}
	defer s.observe(ctx, "build-course", time.Now(), &err, fields)

	log.Info().Int("modules", outline.ModuleCount()).Msg("building course")
	doc, err := s.pipeline.BuildFinalCourse(ctx, outline, selected, transcripts)
	if err != nil {
		return nil, fmt.Errorf("building course: %w", err)
	}

	id := uuid.NewString()
	fields["course_id"] = id
	fields["quiz_gaps"] = len(doc.QuizGaps())

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteCourseRepo(tx).Create(ctx, id, runID, doc)
	})
	if err != nil {
		return nil, fmt.Errorf("saving course: %w", err)
	}

	log.Info().Str("course_id", id).Msg("course saved")
	return &BuildResult{ID: id, RunID: runID, Document: doc}, nil
}

func (s *courseService) Get(ctx context.Context, id string) (*course.Document, error) {
	return s.courses.GetByID(ctx, id)
}

func (s *courseService) List(ctx context.Context, limit int) ([]repository.CourseSummary, error) {
	return s.courses.List(ctx, limit)
}

func (s *courseService) Delete(ctx context.Context, id string) (err error) {
	defer s.observe(ctx, "delete-course", time.Now(), &err, map[string]any{"course_id": id})
	return s.courses.Delete(ctx, id)
}

func (s *courseService) observe(ctx context.Context, name string, startedAt time.Time, err *error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    fields,
	})
}
