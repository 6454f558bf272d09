package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mithrel/tutor/internal/render"
	"github.com/mithrel/tutor/pkg/api"
)

// CourseMarkdown lays out a course outline as markdown.
func CourseMarkdown(c api.CourseOutline) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n## Introduction\n\n%s\n\n## Modules\n\n", c.CourseTitle, c.CourseDescription, c.CourseIntroduction)
	for _, m := range c.Modules {
		fmt.Fprintf(&b, "### %s\n\n`%s`\n\n%s\n\n", m.ModuleTitle, m.ModuleID, m.ModuleSummary)
	}
	return b.String()
}

func ModuleMarkdown(m api.ModuleOutline) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Module Introduction\n\n%s\n\n## Lessons\n\n", m.ModuleIntroduction)
	for _, l := range m.Lessons {
		fmt.Fprintf(&b, "### %s\n\n`%s`\n\n**Objective:** %s\n\n", l.LessonTitle, l.LessonID, l.LessonObjective)
	}
	return b.String()
}

func QuizMarkdown(q api.Quiz) string {
	var b strings.Builder
	for i, qq := range q.Quiz {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, qq.Question)
		for _, opt := range qq.Options {
			if qq.IsCorrect(opt) {
				fmt.Fprintf(&b, "- **%s** (correct)\n", opt)
			} else {
				fmt.Fprintf(&b, "- %s\n", opt)
			}
		}
		if qq.Explanation != "" {
			fmt.Fprintf(&b, "\n> **Explanation:** %s\n", qq.Explanation)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// DraftHeader is the metadata block shown above a draft body.
func DraftHeader(d api.Draft) string {
	ts := d.UpdatedAt.Local().Format(time.RFC3339)
	return fmt.Sprintf("> **ID:** %s | **Kind:** %s | **Updated:** %s\n\n---\n\n", d.ID, d.Kind, ts)
}

// WritePretty renders markdown for the terminal.
func WritePretty(w io.Writer, md string, width int) error {
	out, err := render.Terminal(md, width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
