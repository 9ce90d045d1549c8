package course

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/coursesmith/internal/llm"
)

// OutlineGenerator asks the LLM for a course skeleton.
type OutlineGenerator struct {
	gate        *llm.Gate
	moduleCount int
	log         zerolog.Logger
}

// NewOutlineGenerator creates an OutlineGenerator producing cfg.ModuleCount
// modules.
func NewOutlineGenerator(gate *llm.Gate, cfg Config, log zerolog.Logger) *OutlineGenerator {
	n := cfg.ModuleCount
	if n <= 0 {
		n = DefaultConfig().ModuleCount
	}
	return &OutlineGenerator{
		gate:        gate,
		moduleCount: n,
		log:         log.With().Str("component", "outline").Logger(),
	}
}

// Generate returns an outline with exactly the configured number of modules.
// A reply with the wrong cardinality is retried by the gate; when retries
// run out the error is returned and no partial outline is produced.
func (g *OutlineGenerator) Generate(ctx context.Context, objective string) (*Outline, error) {
	objective = strings.TrimSpace(objective)
	if objective == "" {
		return nil, fmt.Errorf("%w: objective is empty", ErrInvalidInput)
	}

	res, err := llm.Call(ctx, g.gate, llm.Request{
		Task:   llm.TaskOutline,
		Prompt: buildOutlinePrompt(objective, g.moduleCount),
	}, validateOutline(g.moduleCount))
	if err != nil {
		return nil, fmt.Errorf("generate outline: %w", err)
	}

	out := &Outline{
		Title:         strings.TrimSpace(res.CourseTitle),
		Objective:     strings.TrimSpace(res.CourseObjective),
		ModuleTitles:  trimAll(res.ModuleTitles),
		SearchPrompts: trimAll(res.ModuleSearchPrompts),
	}
	if out.Objective == "" {
		out.Objective = objective
	}

	g.log.Debug().Str("title", out.Title).Int("modules", len(out.ModuleTitles)).Msg("outline generated")
	return out, nil
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
