package course

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/coursesmith/internal/llm"
	"github.com/alexanderramin/coursesmith/internal/video"
)

// fakeLLM answers each task with a scripted handler and records prompts.
type fakeLLM struct {
	mu       sync.Mutex
	handlers map[llm.TaskType]func(prompt string) (string, error)
	prompts  map[llm.TaskType][]string
}

func newFakeLLM() *fakeLLM {
	return &fakeLLM{
		handlers: make(map[llm.TaskType]func(string) (string, error)),
		prompts:  make(map[llm.TaskType][]string),
	}
}

func (f *fakeLLM) on(task llm.TaskType, fn func(prompt string) (string, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[task] = fn
}

func (f *fakeLLM) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	f.mu.Lock()
	f.prompts[req.Task] = append(f.prompts[req.Task], req.Prompt)
	fn := f.handlers[req.Task]
	f.mu.Unlock()

	if fn == nil {
		return nil, &llm.ProviderError{StatusCode: 500, Body: "no handler for " + string(req.Task)}
	}
	text, err := fn(req.Prompt)
	if err != nil {
		return nil, err
	}
	return &llm.Response{Text: text, Model: "fake"}, nil
}

func (f *fakeLLM) calls(task llm.TaskType) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts[task])
}

func (f *fakeLLM) promptsFor(task llm.TaskType) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts[task]...)
}

func (f *fakeLLM) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, ps := range f.prompts {
		n += len(ps)
	}
	return n
}

var moduleTitleLine = regexp.MustCompile(`Module title: (.*)`)

func moduleTitleOf(prompt string) string {
	m := moduleTitleLine.FindStringSubmatch(prompt)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func quizJSON(topic string, answer string) string {
	return fmt.Sprintf(`{"questions":[
		{"question":"What is %[1]s?","options":["a %[1]s","b %[1]s","c %[1]s","d %[1]s"],"answer":%[2]q}
	]}`, topic, answer)
}

// happyLLM scripts a provider that answers every task correctly.
func happyLLM(moduleCount int) *fakeLLM {
	f := newFakeLLM()
	f.on(llm.TaskOutline, func(string) (string, error) {
		titles := make([]string, moduleCount)
		prompts := make([]string, moduleCount)
		for i := range titles {
			titles[i] = fmt.Sprintf("%q", fmt.Sprintf("Lesson %d", i+1))
			prompts[i] = fmt.Sprintf("%q", fmt.Sprintf("search %d", i+1))
		}
		return fmt.Sprintf("```json\n{\"course_title\":\"Python Basics\",\"course_objective\":\"Write small Python programs\",\"module_titles\":[%s],\"module_search_prompts\":[%s]}\n```",
			strings.Join(titles, ","), strings.Join(prompts, ",")), nil
	})
	f.on(llm.TaskCourseIntro, func(string) (string, error) {
		return `{"title":"Python Basics, Refined","objective":"Write and test small Python programs","introduction":"Welcome to the course."}`, nil
	})
	f.on(llm.TaskModuleObjective, func(p string) (string, error) {
		t := moduleTitleOf(p)
		return fmt.Sprintf(`{"title":%q,"objective":%q}`, t, "Explain "+t+"."), nil
	})
	f.on(llm.TaskModuleSummary, func(p string) (string, error) {
		return fmt.Sprintf(`{"summary":%q}`, "Summary of "+moduleTitleOf(p)), nil
	})
	f.on(llm.TaskModuleQuiz, func(p string) (string, error) {
		t := moduleTitleOf(p)
		return quizJSON(t, "a "+t), nil
	})
	f.on(llm.TaskFinalQuiz, func(string) (string, error) {
		return quizJSON("the course", "B"), nil
	})
	f.on(llm.TaskConclusion, func(string) (string, error) {
		return `{"conclusion":"Well done."}`, nil
	})
	return f
}

func testGate(client llm.Client) *llm.Gate {
	cfg := llm.DefaultConfig()
	cfg.BackoffBase = 0
	cfg.RequestsPerMinute = 0
	return llm.NewGate(client, cfg, nil, zerolog.Nop())
}

func testConfig(moduleCount int) Config {
	cfg := DefaultConfig()
	cfg.ModuleCount = moduleCount
	cfg.Batch.InterBatchDelay = 0
	return cfg
}

func newTestAssembler(t *testing.T, client llm.Client) *Assembler {
	t.Helper()
	return NewAssembler(testGate(client), testConfig(4), zerolog.Nop())
}

func testOutline() *Outline {
	return &Outline{
		Title:         "Python Basics",
		Objective:     "Write small Python programs",
		ModuleTitles:  []string{"Variables", "Functions", "Closures", "Generators"},
		SearchPrompts: []string{"python variables", "python functions", "python closures", "python generators"},
	}
}

func testVideos() []video.Candidate {
	mk := func(id, title string, minutes float64) video.Candidate {
		return video.Candidate{
			ID:              id,
			URL:             video.WatchURL(id),
			Title:           title,
			Description:     title + " explained with examples",
			DurationMinutes: minutes,
		}
	}
	return []video.Candidate{
		mk("vid00000001", "Python variables", 5),
		mk("vid00000002", "Python functions", 6.5),
		mk("vid00000003", "Python closures", 7),
		mk("vid00000004", "Python generators", 8),
	}
}

func testTranscripts() []string {
	return []string{
		"[00:01] Teacher: variables hold values <b>in memory</b>",
		"WEBVTT\n\n00:00:01.000 --> 00:00:04.000\nfunctions group reusable steps",
		"closures capture variables from the enclosing scope [Music]",
		"generators yield values lazily https://example.com/notes",
	}
}
