package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTimeout indicates a single provider call exceeded its timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrGenerationFailed is matched by every GenerationError.
	ErrGenerationFailed = errors.New("llm generation failed")

	// ErrMissingAPIKey indicates no provider credentials were configured.
	ErrMissingAPIKey = errors.New("llm api key not configured")
)

// ProviderError is a non-2xx answer from the LLM provider.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("llm provider returned status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the status is worth another attempt: server
// errors, throttling and request timeouts are; other client errors are not.
func (e *ProviderError) Retryable() bool {
	switch {
	case e.StatusCode >= 500:
		return true
	case e.StatusCode == http.StatusTooManyRequests, e.StatusCode == http.StatusRequestTimeout:
		return true
	default:
		return false
	}
}

// GenerationError is the terminal failure of one gated call, after retries
// were exhausted or a non-retryable error was hit.
type GenerationError struct {
	Task     TaskType
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed after %d attempt(s): %v", e.Task, e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

// IsRetryable classifies a single-attempt error.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrMissingAPIKey) {
		return false
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable()
	}
	// Timeouts, transport failures and malformed output are all transient.
	return true
}

func errorCode(err error) string {
	var pe *ProviderError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	case errors.As(err, &pe):
		return fmt.Sprintf("HTTP_%d", pe.StatusCode)
	default:
		return "UNKNOWN"
	}
}
