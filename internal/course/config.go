package course

import "github.com/alexanderramin/coursesmith/internal/batch"

// Config holds assembly policy.
type Config struct {
	// ModuleCount is the exact number of modules an outline must have.
	ModuleCount int `koanf:"module_count"`
	// ModuleBudget caps the normalized text in any one prompt: a module's
	// transcript, or the combined content behind the final quiz.
	ModuleBudget       int `koanf:"module_budget"`
	QuizQuestions      int `koanf:"quiz_questions"`
	FinalQuizQuestions int `koanf:"final_quiz_questions"`

	Batch batch.Config `koanf:"batch"`
}

// DefaultConfig returns the default assembly policy.
func DefaultConfig() Config {
	return Config{
		ModuleCount:        10,
		ModuleBudget:       4000,
		QuizQuestions:      5,
		FinalQuizQuestions: 10,
		Batch:              batch.DefaultConfig(),
	}
}
