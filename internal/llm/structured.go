package llm

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// SchemaValidator validates a parsed payload after JSON extraction.
// A payload missing required fields is invalid output, which the gate
// treats as retryable.
type SchemaValidator[T any] func(T) error

// ExtractJSON extracts a JSON object of type T from raw LLM text output.
// It tolerates markdown code fences, prose around the object, comments and
// trailing commas. If validator is non-nil the value is validated before
// return.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	cleaned := StripCodeFences(raw)
	jsonStr := extractJSONBlock(cleaned)
	if jsonStr == "" {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}
	jsonStr = stripJSONComments(jsonStr)
	jsonStr = stripTrailingCommas(jsonStr)

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}

	return result, nil
}

// StripCodeFences removes markdown fence lines (```json, ```) and trims.
func StripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// extractJSONBlock finds the first balanced { ... } block in the text.
func extractJSONBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}

// scanJSON walks s byte by byte, calling emit for every byte outside string
// literals and copying string literals verbatim. emit returns how many
// extra bytes it consumed.
func scanJSON(s string, emit func(b *strings.Builder, s string, i int) int) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			b.WriteByte(c)
			inString = true
			continue
		}

		i += emit(&b, s, i)
	}

	return b.String()
}

// stripJSONComments removes // and /* */ comments outside string values.
// Models sometimes annotate JSON despite instructions not to.
func stripJSONComments(s string) string {
	return scanJSON(s, func(b *strings.Builder, s string, i int) int {
		c := s[i]
		if c == '/' && i+1 < len(s) && s[i+1] == '/' {
			j := i
			for j+1 < len(s) && s[j+1] != '\n' {
				j++
			}
			return j - i
		}
		if c == '/' && i+1 < len(s) && s[i+1] == '*' {
			end := strings.Index(s[i+2:], "*/")
			if end == -1 {
				return len(s) - 1 - i
			}
			return end + 3
		}
		b.WriteByte(c)
		return 0
	})
}

// stripTrailingCommas drops a comma that is directly followed (ignoring
// whitespace) by a closing bracket or brace.
func stripTrailingCommas(s string) string {
	return scanJSON(s, func(b *strings.Builder, s string, i int) int {
		if s[i] == ',' {
			j := i + 1
			for j < len(s) && strings.IndexByte(" \t\r\n", s[j]) >= 0 {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				return 0
			}
		}
		b.WriteByte(s[i])
		return 0
	})
}
