package course

import (
	"fmt"
	"strings"
)

const outlinePrompt = `You are an instructional designer building a self-paced video course.

Learning objective: %s

Design a course of exactly %d modules that takes a learner from the basics to
an advanced understanding of the objective. Order modules from beginner to
advanced. For each module also write a short search query (3 to 6 words)
that would find a good tutorial video for it on a video platform.

Respond with ONLY a JSON object of this shape:
{
  "course_title": "short, specific course title",
  "course_objective": "one or two sentences describing what the learner will be able to do",
  "module_titles": ["exactly %d module titles"],
  "module_search_prompts": ["exactly %d search queries, one per module, same order"]
}`

const courseIntroPrompt = `You are finishing a video course for publication.

Working title: %s
Working objective: %s
Modules:
%s

Refine the title and objective so they read well to a learner, and write a
friendly introduction of 2 to 3 short paragraphs.

Respond with ONLY a JSON object:
{"title": "...", "objective": "...", "introduction": "..."}`

const moduleObjectivePrompt = `Module %d of the course "%s".
Module title: %s
Video: %s

Write a clear module title and a one-sentence learning objective that starts
with a verb ("Explain...", "Build...", "Compare...").

Respond with ONLY a JSON object:
{"title": "...", "objective": "..."}`

const moduleSummaryPrompt = `Summarize the following lesson for a learner.
Module title: %s

Lesson content:
"""
%s
"""

Write 4 to 6 sentences covering the key ideas in plain language. Do not
mention the video, the speaker or the transcript.

Respond with ONLY a JSON object:
{"summary": "..."}`

const moduleQuizPrompt = `Write a multiple-choice quiz for one lesson.
Module title: %s

Lesson content:
"""
%s
"""

Write exactly %d questions answerable from the lesson content alone. Each
question has 4 options and exactly one correct answer. "answer" must repeat
the text of the correct option.

Respond with ONLY a JSON object:
{"questions": [{"question": "...", "options": ["...", "...", "...", "..."], "answer": "..."}]}`

const finalQuizPrompt = `Write a final multiple-choice exam for the course "%s".

Course content by module:
"""
%s
"""

Write exactly %d questions that together cover the whole course, not just one
module. Each question has 4 options and exactly one correct answer. "answer"
must repeat the text of the correct option.

Respond with ONLY a JSON object:
{"questions": [{"question": "...", "options": ["...", "...", "...", "..."], "answer": "..."}]}`

const conclusionPrompt = `Write a short conclusion for the course "%s".
Objective: %s
Modules covered:
%s

In one paragraph, recap what the learner achieved and suggest one next step.

Respond with ONLY a JSON object:
{"conclusion": "..."}`

func buildOutlinePrompt(objective string, modules int) string {
	return fmt.Sprintf(outlinePrompt, objective, modules, modules, modules)
}

func buildCourseIntroPrompt(o *Outline) string {
	return fmt.Sprintf(courseIntroPrompt, o.Title, o.Objective, numbered(o.ModuleTitles))
}

func buildObjectivePrompt(courseTitle string, position int, moduleTitle, videoTitle string) string {
	return fmt.Sprintf(moduleObjectivePrompt, position+1, courseTitle, moduleTitle, videoTitle)
}

func buildSummaryPrompt(moduleTitle, content string) string {
	return fmt.Sprintf(moduleSummaryPrompt, moduleTitle, content)
}

func buildQuizPrompt(moduleTitle, content string, questions int) string {
	return fmt.Sprintf(moduleQuizPrompt, moduleTitle, content, questions)
}

func buildFinalQuizPrompt(courseTitle, combined string, questions int) string {
	return fmt.Sprintf(finalQuizPrompt, courseTitle, combined, questions)
}

func buildConclusionPrompt(title, objective string, moduleTitles []string) string {
	return fmt.Sprintf(conclusionPrompt, title, objective, numbered(moduleTitles))
}

func numbered(items []string) string {
	var b strings.Builder
	for i, it := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, it)
	}
	return strings.TrimRight(b.String(), "\n")
}
