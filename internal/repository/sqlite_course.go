package repository

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/alexanderramin/coursesmith/internal/course"
	"github.com/alexanderramin/coursesmith/internal/db"
	"github.com/alexanderramin/coursesmith/internal/video"
)

// SQLiteCourseRepo implements CourseRepo. The full document is stored as
// JSON; headline fields and module rows are denormalized for listing.
type SQLiteCourseRepo struct {
	db db.DBTX
}

// NewSQLiteCourseRepo creates a repo over a connection or transaction.
func NewSQLiteCourseRepo(conn db.DBTX) *SQLiteCourseRepo {
	return &SQLiteCourseRepo{db: conn}
}

// Create inserts the course row and one row per module. Run it inside a
// unit of work so both land together.
func (r *SQLiteCourseRepo) Create(ctx context.Context, id, runID string, doc *course.Document) error {
	if doc == nil {
		return fmt.Errorf("inserting course: nil document")
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding course document: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO courses (id, run_id, title, objective, thumbnail_url, total_minutes, module_count, quiz_gaps, document, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		runID,
		doc.Title,
		doc.Objective,
		doc.ThumbnailURL,
		doc.TotalMinutes,
		len(doc.Modules),
		len(doc.QuizGaps()),
		string(payload),
		formatTime(doc.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting course: %w", err)
	}

	for _, m := range doc.Modules {
		videoID := m.Video.ID
		if videoID == "" {
			videoID = video.IDFromURL(m.Video.URL)
		}
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO course_modules (course_id, position, title, video_id, video_url, duration_minutes, has_quiz)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, m.Position, m.Title, videoID, m.Video.URL, m.DurationMinutes, boolToInt(m.Quiz != nil),
		)
		if err != nil {
			return fmt.Errorf("inserting module %d: %w", m.Position, err)
		}
	}
	return nil
}

func (r *SQLiteCourseRepo) GetByID(ctx context.Context, id string) (*course.Document, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT document FROM courses WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		return nil, notFound(err, "course "+id)
	}
	var doc course.Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("decoding course %s: %w", id, err)
	}
	return &doc, nil
}

// List returns the newest courses first. A non-positive limit returns all.
func (r *SQLiteCourseRepo) List(ctx context.Context, limit int) ([]CourseSummary, error) {
	query := `SELECT id, run_id, title, objective, thumbnail_url, total_minutes, module_count, quiz_gaps, created_at
		FROM courses ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	defer rows.Close()

	var out []CourseSummary
	for rows.Next() {
		var (
			s       CourseSummary
			created string
		)
		if err := rows.Scan(&s.ID, &s.RunID, &s.Title, &s.Objective, &s.ThumbnailURL,
			&s.TotalMinutes, &s.ModuleCount, &s.QuizGaps, &created); err != nil {
			return nil, fmt.Errorf("scanning course: %w", err)
		}
		if s.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating courses: %w", err)
	}
	return out, nil
}

func (r *SQLiteCourseRepo) ListModules(ctx context.Context, courseID string) ([]ModuleRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT course_id, position, title, video_id, video_url, duration_minutes, has_quiz
		FROM course_modules WHERE course_id = ? ORDER BY position`, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing modules: %w", err)
	}
	defer rows.Close()

	var out []ModuleRow
	for rows.Next() {
		var (
			m       ModuleRow
			hasQuiz int
		)
		if err := rows.Scan(&m.CourseID, &m.Position, &m.Title, &m.VideoID, &m.VideoURL, &m.DurationMinutes, &hasQuiz); err != nil {
			return nil, fmt.Errorf("scanning module: %w", err)
		}
		m.HasQuiz = intToBool(hasQuiz)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating modules: %w", err)
	}
	return out, nil
}

// Delete removes a course; its module rows cascade.
func (r *SQLiteCourseRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting course: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting course: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	return nil
}
