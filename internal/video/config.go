package video

import "time"

// Weights tunes the relevance score. Only the ordering
// Title > Keyword > Difficulty is load-bearing.
type Weights struct {
	Title      float64 `koanf:"title"`
	Keyword    float64 `koanf:"keyword"`
	Difficulty float64 `koanf:"difficulty"`
}

// Config holds search and filtering policy.
type Config struct {
	BaseURL   string        `koanf:"base_url"`
	UserAgent string        `koanf:"user_agent"`
	Timeout   time.Duration `koanf:"timeout"`

	TargetCount       int     `koanf:"target_count"`
	MinMinutes        float64 `koanf:"min_minutes"`
	MaxMinutes        float64 `koanf:"max_minutes"`
	NonLatinThreshold float64 `koanf:"non_latin_threshold"`
	ModuleCount       int     `koanf:"module_count"`
	LastResortSuffix  string  `koanf:"last_resort_suffix"`

	Weights Weights `koanf:"weights"`
}

// DefaultConfig returns the default search policy: five candidates of
// 3-20 minutes each.
func DefaultConfig() Config {
	return Config{
		BaseURL:           "https://www.youtube.com/results",
		UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
		Timeout:           15 * time.Second,
		TargetCount:       5,
		MinMinutes:        3,
		MaxMinutes:        20,
		NonLatinThreshold: 0.15,
		ModuleCount:       10,
		LastResortSuffix:  "how to",
		Weights: Weights{
			Title:      3.0,
			Keyword:    2.0,
			Difficulty: 0.5,
		},
	}
}
