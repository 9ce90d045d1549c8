package llm

import (
	"github.com/rs/zerolog"
)

// LLMCallEvent records metadata about one gated call, across all attempts.
type LLMCallEvent struct {
	Task      TaskType
	Model     string
	LatencyMs int64
	Attempts  int
	Success   bool
	ErrorCode string
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver writes LLM call events to a zerolog logger.
type LogObserver struct {
	log zerolog.Logger
}

// NewLogObserver creates an Observer that logs one line per call.
func NewLogObserver(log zerolog.Logger) *LogObserver {
	return &LogObserver{log: log.With().Str("component", "llm").Logger()}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	e := o.log.Debug()
	status := "ok"
	if !event.Success {
		e = o.log.Warn()
		status = "err:" + event.ErrorCode
	}
	e.Str("task", string(event.Task)).
		Str("model", event.Model).
		Int64("latency_ms", event.LatencyMs).
		Int("attempts", event.Attempts).
		Str("status", status).
		Msg("llm_call")
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}
