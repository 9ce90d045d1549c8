package course

import (
	"time"

	"github.com/alexanderramin/coursesmith/internal/video"
)

// Outline is the course skeleton produced before any video is attached.
// ModuleTitles and SearchPrompts always have the same length.
type Outline struct {
	Title         string   `json:"course_title"`
	Objective     string   `json:"course_objective"`
	ModuleTitles  []string `json:"module_titles"`
	SearchPrompts []string `json:"module_search_prompts"`
}

// ModuleCount returns the number of modules in the outline.
func (o *Outline) ModuleCount() int {
	if o == nil {
		return 0
	}
	return len(o.ModuleTitles)
}

// QuizQuestion is one multiple-choice question. Answer is the text of the
// correct option.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Quiz is an ordered list of questions.
type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

// ModuleArtifact is one finished module.
type ModuleArtifact struct {
	Position        int             `json:"position"`
	Title           string          `json:"title"`
	Objective       string          `json:"objective"`
	Summary         string          `json:"summary"`
	Video           video.Candidate `json:"video"`
	DurationMinutes float64         `json:"duration_minutes"`
	Quiz            *Quiz           `json:"quiz"`
}

// GapKind names a part of the document that fell back or is missing.
type GapKind string

const (
	GapIntroduction GapKind = "introduction"
	GapObjective    GapKind = "objective"
	GapSummary      GapKind = "summary"
	GapQuiz         GapKind = "quiz"
	GapFinalQuiz    GapKind = "final_quiz"
	GapConclusion   GapKind = "conclusion"
)

// CourseLevel is the Gap.Module value for gaps not tied to one module.
const CourseLevel = -1

// Gap records one degraded piece of a document so callers can tell a
// partial course from a complete one.
type Gap struct {
	Module int     `json:"module"`
	Kind   GapKind `json:"kind"`
	Reason string  `json:"reason"`
}

// Document is the finished course.
type Document struct {
	Title        string           `json:"title"`
	Objective    string           `json:"objective"`
	Introduction string           `json:"introduction"`
	Modules      []ModuleArtifact `json:"modules"`
	FinalQuiz    *Quiz            `json:"final_quiz"`
	Conclusion   string           `json:"conclusion"`
	ThumbnailURL string           `json:"thumbnail_url"`
	TotalMinutes float64          `json:"total_minutes"`
	Gaps         []Gap            `json:"gaps,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// ModuleQuizzes returns one entry per module; nil marks a module whose quiz
// could not be generated.
func (d *Document) ModuleQuizzes() []*Quiz {
	out := make([]*Quiz, len(d.Modules))
	for i, m := range d.Modules {
		out[i] = m.Quiz
	}
	return out
}

// QuizGaps returns the positions of modules without a quiz.
func (d *Document) QuizGaps() []int {
	var out []int
	for _, g := range d.Gaps {
		if g.Kind == GapQuiz {
			out = append(out, g.Module)
		}
	}
	return out
}
