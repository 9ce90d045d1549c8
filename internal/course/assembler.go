package course

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/coursesmith/internal/batch"
	"github.com/alexanderramin/coursesmith/internal/llm"
	"github.com/alexanderramin/coursesmith/internal/logging"
	"github.com/alexanderramin/coursesmith/internal/textprep"
	"github.com/alexanderramin/coursesmith/internal/video"
)

const assemblerComponent = "assembler"

// Assembler builds the final course document from an outline, the selected
// videos and their transcripts.
type Assembler struct {
	gate   *llm.Gate
	runner *batch.Runner
	cfg    Config
	module textprep.Normalizer
	log    zerolog.Logger
	now    func() time.Time
}

// NewAssembler creates an Assembler. Batched module tasks are paced by the
// gate's pacer.
func NewAssembler(gate *llm.Gate, cfg Config, log zerolog.Logger) *Assembler {
	log = log.With().Str("component", assemblerComponent).Logger()
	return &Assembler{
		gate:   gate,
		runner: batch.NewRunner(cfg.Batch, gate.Pacer(), log),
		cfg:    cfg,
		module: textprep.Normalizer{MaxChars: cfg.ModuleBudget},
		log:    log,
		now:    time.Now,
	}
}

// moduleInput is what the per-module tasks see.
type moduleInput struct {
	position int
	title    string
	video    video.Candidate
	content  string
}

// Build assembles a document. Only a failed course introduction is fatal;
// every per-module failure degrades to a fallback and is listed in
// Document.Gaps.
func (a *Assembler) Build(ctx context.Context, outline *Outline, selected []video.Candidate, transcripts []string) (*Document, error) {
	if err := checkInputs(outline, selected, transcripts); err != nil {
		return nil, err
	}

	inputs := make([]moduleInput, len(outline.ModuleTitles))
	for i, title := range outline.ModuleTitles {
		inputs[i] = moduleInput{
			position: i,
			title:    title,
			video:    selected[i],
			content:  a.moduleContent(transcripts[i], selected[i]),
		}
	}

	var (
		intro      CourseIntroResult
		objectives []batch.Result[ObjectiveResult]
		summaries  []batch.Result[SummaryResult]
		quizzes    []batch.Result[*Quiz]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		intro, err = llm.Call(gctx, a.gate, llm.Request{
			Task:   llm.TaskCourseIntro,
			Prompt: buildCourseIntroPrompt(outline),
		}, validateCourseIntro)
		return err
	})
	g.Go(func() error {
		objectives = batch.Run(gctx, a.runner, "module_objective", a.objectiveTasks(outline.Title, inputs))
		return nil
	})
	g.Go(func() error {
		summaries = batch.Run(gctx, a.runner, "module_summary", a.summaryTasks(inputs))
		return nil
	})
	g.Go(func() error {
		quizzes = batch.Run(gctx, a.runner, "module_quiz", a.quizTasks(inputs))
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: course introduction: %w", ErrAssemblyFailed, err)
	}

	doc := &Document{
		Title:        strings.TrimSpace(intro.Title),
		Objective:    strings.TrimSpace(intro.Objective),
		Introduction: strings.TrimSpace(intro.Introduction),
		Modules:      make([]ModuleArtifact, len(inputs)),
		CreatedAt:    a.now().UTC(),
	}
	if doc.Objective == "" {
		doc.Objective = outline.Objective
	}
	if doc.Introduction == "" {
		doc.Introduction = fallbackIntroduction(doc)
		doc.addGap(CourseLevel, GapIntroduction, errEmptyIntroduction)
	}

	for i, in := range inputs {
		m := ModuleArtifact{
			Position:        i,
			Title:           in.title,
			Objective:       outline.Objective,
			Video:           in.video,
			DurationMinutes: in.video.DurationMinutes,
		}

		if r := objectives[i]; r.OK() {
			if t := strings.TrimSpace(r.Value.Title); t != "" {
				m.Title = t
			}
			m.Objective = strings.TrimSpace(r.Value.Objective)
		} else {
			doc.addGap(i, GapObjective, r.Err)
		}

		if r := summaries[i]; r.OK() {
			m.Summary = strings.TrimSpace(r.Value.Summary)
		} else {
			m.Summary = a.fallbackSummary(in)
			doc.addGap(i, GapSummary, r.Err)
		}

		if r := quizzes[i]; r.OK() {
			m.Quiz = r.Value
		} else {
			doc.addGap(i, GapQuiz, r.Err)
		}

		doc.Modules[i] = m
		doc.TotalMinutes += m.DurationMinutes
	}

	a.finish(ctx, doc, inputs)
	doc.ThumbnailURL = thumbnailFor(selected)

	log := logging.FromContext(ctx, a.log, assemblerComponent)
	log.Info().
		Str("title", doc.Title).
		Int("modules", len(doc.Modules)).
		Int("gaps", len(doc.Gaps)).
		Float64("total_minutes", doc.TotalMinutes).
		Msg("course assembled")
	return doc, nil
}

// finish generates the final quiz and conclusion concurrently. Neither can
// fail the build.
func (a *Assembler) finish(ctx context.Context, doc *Document, inputs []moduleInput) {
	combined := a.combinedContent(doc, inputs)

	var (
		finalQuiz     *Quiz
		finalQuizErr  error
		conclusion    string
		conclusionErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if combined == "" {
			finalQuizErr = errNoContent
			return nil
		}
		res, err := llm.Call(gctx, a.gate, llm.Request{
			Task:   llm.TaskFinalQuiz,
			Prompt: buildFinalQuizPrompt(doc.Title, combined, a.cfg.FinalQuizQuestions),
		}, validateQuiz)
		if err != nil {
			finalQuizErr = err
			return nil
		}
		finalQuiz = res.toQuiz()
		return nil
	})
	g.Go(func() error {
		titles := make([]string, len(doc.Modules))
		for i, m := range doc.Modules {
			titles[i] = m.Title
		}
		res, err := llm.Call(gctx, a.gate, llm.Request{
			Task:   llm.TaskConclusion,
			Prompt: buildConclusionPrompt(doc.Title, doc.Objective, titles),
		}, validateConclusion)
		if err != nil {
			conclusionErr = err
			return nil
		}
		conclusion = strings.TrimSpace(res.Conclusion)
		return nil
	})
	_ = g.Wait()

	doc.FinalQuiz = finalQuiz
	if finalQuizErr != nil {
		doc.addGap(CourseLevel, GapFinalQuiz, finalQuizErr)
	}
	doc.Conclusion = conclusion
	if conclusionErr != nil {
		doc.Conclusion = fallbackConclusion(doc)
		doc.addGap(CourseLevel, GapConclusion, conclusionErr)
	}
}

func (a *Assembler) objectiveTasks(courseTitle string, inputs []moduleInput) []batch.Task[ObjectiveResult] {
	tasks := make([]batch.Task[ObjectiveResult], len(inputs))
	for i, in := range inputs {
		tasks[i] = func(ctx context.Context) (ObjectiveResult, error) {
			videoTitle := in.video.Title
			if in.video.IsPlaceholder() {
				videoTitle = "(none selected)"
			}
			return llm.Call(ctx, a.gate, llm.Request{
				Task:   llm.TaskModuleObjective,
				Prompt: buildObjectivePrompt(courseTitle, in.position, in.title, videoTitle),
			}, validateObjective)
		}
	}
	return tasks
}

func (a *Assembler) summaryTasks(inputs []moduleInput) []batch.Task[SummaryResult] {
	tasks := make([]batch.Task[SummaryResult], len(inputs))
	for i, in := range inputs {
		tasks[i] = func(ctx context.Context) (SummaryResult, error) {
			if in.content == "" {
				return SummaryResult{}, errNoContent
			}
			return llm.Call(ctx, a.gate, llm.Request{
				Task:   llm.TaskModuleSummary,
				Prompt: buildSummaryPrompt(in.title, in.content),
			}, validateSummary)
		}
	}
	return tasks
}

func (a *Assembler) quizTasks(inputs []moduleInput) []batch.Task[*Quiz] {
	tasks := make([]batch.Task[*Quiz], len(inputs))
	for i, in := range inputs {
		tasks[i] = func(ctx context.Context) (*Quiz, error) {
			if in.content == "" {
				return nil, errNoContent
			}
			res, err := llm.Call(ctx, a.gate, llm.Request{
				Task:   llm.TaskModuleQuiz,
				Prompt: buildQuizPrompt(in.title, in.content, a.cfg.QuizQuestions),
			}, validateQuiz)
			if err != nil {
				return nil, err
			}
			return res.toQuiz(), nil
		}
	}
	return tasks
}

// moduleContent prefers the transcript and falls back to the video's own
// title and description. Placeholders carry no content.
func (a *Assembler) moduleContent(transcript string, v video.Candidate) string {
	if c := a.module.Normalize(transcript); c != "" {
		return c
	}
	if v.IsPlaceholder() {
		return ""
	}
	return a.module.Normalize(v.Title + ". " + v.Description)
}

// combinedContent joins the content of every module that got a quiz, in
// module order, within the same budget as a single module.
func (a *Assembler) combinedContent(doc *Document, inputs []moduleInput) string {
	var b strings.Builder
	for i, m := range doc.Modules {
		if m.Quiz == nil || inputs[i].content == "" {
			continue
		}
		fmt.Fprintf(&b, "Module %d: %s. %s\n", i+1, m.Title, inputs[i].content)
	}
	return a.module.Normalize(b.String())
}

func (a *Assembler) fallbackSummary(in moduleInput) string {
	if !in.video.IsPlaceholder() {
		if d := textprep.Normalize(in.video.Description); d != "" {
			return d
		}
	}
	return fmt.Sprintf("This module covers %s.", in.title)
}

func fallbackIntroduction(doc *Document) string {
	return fmt.Sprintf("Welcome to %s. This course will help you %s",
		doc.Title, strings.TrimSuffix(lowerFirst(doc.Objective), ".")+".")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func fallbackConclusion(doc *Document) string {
	return fmt.Sprintf("Congratulations on completing %s. You worked through %d modules toward this goal: %s",
		doc.Title, len(doc.Modules), doc.Objective)
}

func (d *Document) addGap(module int, kind GapKind, err error) {
	reason := "unknown"
	if err != nil {
		reason = err.Error()
	}
	d.Gaps = append(d.Gaps, Gap{Module: module, Kind: kind, Reason: reason})
}

func checkInputs(outline *Outline, selected []video.Candidate, transcripts []string) error {
	if outline == nil {
		return fmt.Errorf("%w: outline is nil", ErrInvalidInput)
	}
	if strings.TrimSpace(outline.Title) == "" {
		return fmt.Errorf("%w: outline has no title", ErrInvalidInput)
	}
	n := len(outline.ModuleTitles)
	if n == 0 {
		return fmt.Errorf("%w: outline has no modules", ErrInvalidInput)
	}
	if len(selected) != n || len(transcripts) != n {
		return fmt.Errorf("%w: %d modules, %d videos, %d transcripts", ErrInvalidInput, n, len(selected), len(transcripts))
	}
	return nil
}

// ThumbnailURL returns the course thumbnail for a video id.
func ThumbnailURL(videoID string) string {
	return "https://i.ytimg.com/vi/" + videoID + "/hqdefault.jpg"
}

func thumbnailFor(selected []video.Candidate) string {
	for _, v := range selected {
		id := v.ID
		if id == "" {
			id = video.IDFromURL(v.URL)
		}
		if id != "" {
			return ThumbnailURL(id)
		}
	}
	return ""
}
