package course

import "errors"

var (
	// ErrInvalidInput is returned for caller mistakes: an empty objective,
	// a nil outline or mismatched module/video/transcript counts.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAssemblyFailed is returned when a course document cannot be built
	// at all. Per-module failures never produce it.
	ErrAssemblyFailed = errors.New("course assembly failed")

	errNoContent         = errors.New("module has no usable content")
	errEmptyIntroduction = errors.New("introduction is empty")
)
