package course

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/coursesmith/internal/llm"
)

// Typed LLM payloads, one per generation task. Each has a validator used at
// the parse boundary; a payload that fails it is retried by the gate.

// OutlineResult is the outline task's payload.
type OutlineResult struct {
	CourseTitle         string   `json:"course_title"`
	CourseObjective     string   `json:"course_objective"`
	ModuleTitles        []string `json:"module_titles"`
	ModuleSearchPrompts []string `json:"module_search_prompts"`
}

func validateOutline(moduleCount int) llm.SchemaValidator[OutlineResult] {
	return func(r OutlineResult) error {
		if strings.TrimSpace(r.CourseTitle) == "" {
			return errors.New("course_title is empty")
		}
		if len(r.ModuleTitles) != moduleCount {
			return fmt.Errorf("module_titles has %d entries, want %d", len(r.ModuleTitles), moduleCount)
		}
		if len(r.ModuleSearchPrompts) != moduleCount {
			return fmt.Errorf("module_search_prompts has %d entries, want %d", len(r.ModuleSearchPrompts), moduleCount)
		}
		for i := range r.ModuleTitles {
			if strings.TrimSpace(r.ModuleTitles[i]) == "" {
				return fmt.Errorf("module_titles[%d] is empty", i)
			}
			if strings.TrimSpace(r.ModuleSearchPrompts[i]) == "" {
				return fmt.Errorf("module_search_prompts[%d] is empty", i)
			}
		}
		return nil
	}
}

// CourseIntroResult refines the outline's title and objective and adds an
// introduction.
type CourseIntroResult struct {
	Title        string `json:"title"`
	Objective    string `json:"objective"`
	Introduction string `json:"introduction"`
}

func validateCourseIntro(r CourseIntroResult) error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is empty")
	}
	return nil
}

// ObjectiveResult is a module's refined title and objective.
type ObjectiveResult struct {
	Title     string `json:"title"`
	Objective string `json:"objective"`
}

func validateObjective(r ObjectiveResult) error {
	if strings.TrimSpace(r.Objective) == "" {
		return errors.New("objective is empty")
	}
	return nil
}

// SummaryResult is a module summary.
type SummaryResult struct {
	Summary string `json:"summary"`
}

func validateSummary(r SummaryResult) error {
	if strings.TrimSpace(r.Summary) == "" {
		return errors.New("summary is empty")
	}
	return nil
}

// QuizResult is a module or final quiz.
type QuizResult struct {
	Questions []QuizQuestion `json:"questions"`
}

func validateQuiz(r QuizResult) error {
	if len(r.Questions) == 0 {
		return errors.New("quiz has no questions")
	}
	for i, q := range r.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("questions[%d].question is empty", i)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("questions[%d] has %d options, want at least 2", i, len(q.Options))
		}
		if _, ok := resolveAnswer(q); !ok {
			return fmt.Errorf("questions[%d].answer %q matches no option", i, q.Answer)
		}
	}
	return nil
}

// toQuiz normalizes answers to option text. It assumes validateQuiz passed.
func (r QuizResult) toQuiz() *Quiz {
	qs := make([]QuizQuestion, len(r.Questions))
	for i, q := range r.Questions {
		answer, _ := resolveAnswer(q)
		opts := make([]string, len(q.Options))
		for j, o := range q.Options {
			opts[j] = strings.TrimSpace(o)
		}
		qs[i] = QuizQuestion{
			Question: strings.TrimSpace(q.Question),
			Options:  opts,
			Answer:   answer,
		}
	}
	return &Quiz{Questions: qs}
}

// resolveAnswer accepts either the option text or a letter label ("B",
// "b)", "C.") and returns the matching option text.
func resolveAnswer(q QuizQuestion) (string, bool) {
	answer := strings.TrimSpace(q.Answer)
	if answer == "" {
		return "", false
	}
	for _, o := range q.Options {
		if strings.EqualFold(strings.TrimSpace(o), answer) {
			return strings.TrimSpace(o), true
		}
	}
	label := strings.TrimRight(answer, ").: ")
	if len(label) == 1 {
		idx := int(strings.ToUpper(label)[0]) - 'A'
		if idx >= 0 && idx < len(q.Options) {
			return strings.TrimSpace(q.Options[idx]), true
		}
	}
	return "", false
}

// ConclusionResult is the course conclusion.
type ConclusionResult struct {
	Conclusion string `json:"conclusion"`
}

func validateConclusion(r ConclusionResult) error {
	if strings.TrimSpace(r.Conclusion) == "" {
		return errors.New("conclusion is empty")
	}
	return nil
}
