package llm

import "time"

// TaskType identifies the kind of generation task being performed.
type TaskType string

const (
	TaskOutline         TaskType = "outline"
	TaskCourseIntro     TaskType = "course_intro"
	TaskModuleObjective TaskType = "module_objective"
	TaskModuleSummary   TaskType = "module_summary"
	TaskModuleQuiz      TaskType = "module_quiz"
	TaskFinalQuiz       TaskType = "final_quiz"
	TaskConclusion      TaskType = "conclusion"
)

// TaskConfig holds per-task generation parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration // overrides global if > 0
}

// Config holds all configuration for the LLM provider and the request gate.
type Config struct {
	Endpoint    string        `koanf:"endpoint"`
	APIKey      string        `koanf:"api_key"`
	Model       string        `koanf:"model"`
	Temperature float64       `koanf:"temperature"`
	Timeout     time.Duration `koanf:"timeout"`
	LogCalls    bool          `koanf:"log_calls"`

	// Gate policy.
	MaxAttempts       int           `koanf:"max_attempts"`
	BackoffBase       time.Duration `koanf:"backoff_base"`
	MaxConcurrent     int           `koanf:"max_concurrent"`
	RequestsPerMinute int           `koanf:"requests_per_minute"`

	Tasks map[TaskType]TaskConfig `koanf:"-"`
}

// DefaultConfig returns a Config with the pipeline's default policy:
// 3 calls in flight, 200 requests per minute, 3 attempts with 1s linear
// backoff and a 30s per-call timeout.
func DefaultConfig() Config {
	return Config{
		Endpoint:          "https://api.openai.com/v1",
		Model:             "gpt-4o-mini",
		Temperature:       0.7,
		Timeout:           30 * time.Second,
		MaxAttempts:       3,
		BackoffBase:       time.Second,
		MaxConcurrent:     3,
		RequestsPerMinute: 200,
		Tasks: map[TaskType]TaskConfig{
			TaskOutline:         {Temperature: 0.7, MaxTokens: 1500},
			TaskCourseIntro:     {Temperature: 0.6, MaxTokens: 800},
			TaskModuleObjective: {Temperature: 0.5, MaxTokens: 400},
			TaskModuleSummary:   {Temperature: 0.4, MaxTokens: 800},
			TaskModuleQuiz:      {Temperature: 0.3, MaxTokens: 1500},
			TaskFinalQuiz:       {Temperature: 0.3, MaxTokens: 2500, Timeout: 60 * time.Second},
			TaskConclusion:      {Temperature: 0.6, MaxTokens: 600},
		},
	}
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c Config) TaskTimeout(task TaskType) time.Duration {
	if tc, ok := c.Tasks[task]; ok && tc.Timeout > 0 {
		return tc.Timeout
	}
	return c.Timeout
}

// TaskTemperature returns the task temperature, or the global one when the
// task has none configured.
func (c Config) TaskTemperature(task TaskType) float64 {
	if tc, ok := c.Tasks[task]; ok && tc.Temperature > 0 {
		return tc.Temperature
	}
	return c.Temperature
}

// TaskMaxTokens returns the task token cap; zero means provider default.
func (c Config) TaskMaxTokens(task TaskType) int {
	return c.Tasks[task].MaxTokens
}

// MinSpacing is the minimum gap between call starts implied by
// RequestsPerMinute. Zero disables pacing.
func (c Config) MinSpacing() time.Duration {
	if c.RequestsPerMinute <= 0 {
		return 0
	}
	return time.Minute / time.Duration(c.RequestsPerMinute)
}
