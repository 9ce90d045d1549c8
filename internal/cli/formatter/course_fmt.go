package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/coursesmith/internal/course"
	"github.com/alexanderramin/coursesmith/internal/repository"
	"github.com/alexanderramin/coursesmith/internal/video"
)

var optionLabels = []string{"A", "B", "C", "D", "E", "F"}

// FormatOutline renders the course skeleton with one line per module.
func FormatOutline(o *course.Outline) string {
	var b strings.Builder
	b.WriteString(Bold(o.Title) + "\n")
	b.WriteString(Dim(o.Objective) + "\n\n")

	rows := make([][]string, 0, o.ModuleCount())
	for i, title := range o.ModuleTitles {
		rows = append(rows, []string{Dim(strconv.Itoa(i + 1)), title, StyleBlue.Render(o.SearchPrompts[i])})
	}
	b.WriteString(RenderTable([]string{"#", "MODULE", "SEARCH"}, rows))
	return RenderBox("Outline", b.String())
}

// FormatCandidates renders ranked search results. Placeholders are dimmed.
func FormatCandidates(candidates []video.Candidate) string {
	rows := make([][]string, 0, len(candidates))
	for i, c := range candidates {
		if c.IsPlaceholder() {
			rows = append(rows, []string{Dim(strconv.Itoa(i + 1)), Dim(c.Title), Dim("--"), Dim("--")})
			continue
		}
		rows = append(rows, []string{
			Dim(strconv.Itoa(i + 1)),
			Truncate(c.Title, 60),
			FormatMinutes(c.DurationMinutes),
			StyleBlue.Render(c.URL),
		})
	}
	return RenderTable([]string{"#", "TITLE", "LENGTH", "URL"}, rows)
}

// CandidateLabel is the one-line form used in interactive pickers.
func CandidateLabel(c video.Candidate) string {
	if c.IsPlaceholder() {
		return c.Title
	}
	return fmt.Sprintf("%s (%s)", Truncate(c.Title, 70), FormatMinutes(c.DurationMinutes))
}

// FormatCourseList renders stored courses newest first.
func FormatCourseList(courses []repository.CourseSummary, now time.Time) string {
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		quizzes := StyleGreen.Render("all")
		if c.QuizGaps > 0 {
			quizzes = StyleRed.Render(fmt.Sprintf("%d missing", c.QuizGaps))
		}
		rows = append(rows, []string{
			TruncID(c.ID),
			Bold(Truncate(c.Title, 50)),
			strconv.Itoa(c.ModuleCount),
			FormatMinutes(c.TotalMinutes),
			quizzes,
			Dim(HumanDate(c.CreatedAt, now)),
		})
	}
	return RenderBox("Courses", RenderTable([]string{"ID", "TITLE", "MODULES", "LENGTH", "QUIZZES", "CREATED"}, rows))
}

// FormatBuildSummary is printed after a build: the id, the totals and one
// line per module whose quiz is unavailable.
func FormatBuildSummary(id string, doc *course.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", StyleGreen.Render("✔ Course saved"), Bold(id))
	fmt.Fprintf(&b, "  %s  %s\n", Dim("TITLE  "), doc.Title)
	fmt.Fprintf(&b, "  %s  %d modules, %s\n", Dim("LENGTH "), len(doc.Modules), FormatMinutes(doc.TotalMinutes))
	for _, pos := range doc.QuizGaps() {
		fmt.Fprintf(&b, "  %s\n", StyleYellow.Render(fmt.Sprintf("module %d's quiz unavailable", pos+1)))
	}
	return b.String()
}

// FormatCourse renders the full document.
func FormatCourse(doc *course.Document) string {
	var b strings.Builder

	b.WriteString(StyleHeader.Render(doc.Title) + "\n")
	b.WriteString(Dim(doc.Objective) + "\n\n")
	quizzed := 0
	for _, q := range doc.ModuleQuizzes() {
		if q != nil {
			quizzed++
		}
	}
	fmt.Fprintf(&b, "%s %s   %s %s\n", Dim("Length"), FormatMinutes(doc.TotalMinutes), Dim("Quizzes"), RenderCoverage(quizzed, len(doc.Modules), 10))
	if doc.ThumbnailURL != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("Thumbnail"), StyleBlue.Render(doc.ThumbnailURL))
	}

	b.WriteString("\n" + Header("Introduction") + "\n")
	b.WriteString(doc.Introduction + "\n")

	for _, m := range doc.Modules {
		b.WriteString("\n" + Header(fmt.Sprintf("Module %d: %s", m.Position+1, m.Title)) + "\n")
		for _, g := range doc.Gaps {
			if g.Module == m.Position {
				b.WriteString(GapBadge(g.Kind) + "\n")
			}
		}
		fmt.Fprintf(&b, "%s %s\n", Bold("Objective:"), m.Objective)
		if m.Video.IsPlaceholder() {
			fmt.Fprintf(&b, "%s %s\n", Bold("Video:"), Dim(m.Video.Title))
		} else {
			fmt.Fprintf(&b, "%s %s %s\n", Bold("Video:"), m.Video.Title, Dim("("+FormatMinutes(m.DurationMinutes)+")"))
			b.WriteString("       " + StyleBlue.Render(m.Video.URL) + "\n")
		}
		b.WriteString("\n" + m.Summary + "\n")
		if m.Quiz != nil {
			b.WriteString("\n" + StylePurple.Render("Quiz") + "\n")
			b.WriteString(FormatQuiz(m.Quiz))
		}
	}

	b.WriteString("\n" + Header("Final Quiz") + "\n")
	if doc.FinalQuiz == nil {
		b.WriteString(GapBadge(course.GapFinalQuiz) + "\n")
	} else {
		b.WriteString(FormatQuiz(doc.FinalQuiz))
	}

	b.WriteString("\n" + Header("Conclusion") + "\n")
	b.WriteString(doc.Conclusion + "\n")
	return b.String()
}

// FormatQuiz renders numbered questions with lettered options; the correct
// option is marked.
func FormatQuiz(q *course.Quiz) string {
	var b strings.Builder
	for i, question := range q.Questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, question.Question)
		for j, opt := range question.Options {
			label := strconv.Itoa(j + 1)
			if j < len(optionLabels) {
				label = optionLabels[j]
			}
			line := fmt.Sprintf("   %s) %s", label, opt)
			if opt == question.Answer {
				line = StyleGreen.Render(line + " ✔")
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
