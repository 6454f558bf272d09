package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mithrel/tutor/pkg/api"
)

// TSV columns: id, kind, title, updated
var headerLine = "id\tkind\ttitle\tupdated\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

func WritePlainDrafts(w io.Writer, drafts []api.Draft, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, headerLine)
	}
	for _, d := range drafts {
		line := fmt.Sprintf("%s\t%s\t%s\t%s\n",
			esc(d.ID), d.Kind, esc(d.Title), d.UpdatedAt.Local().Format(time.RFC3339))
		_, _ = io.WriteString(tw, line)
	}
	return tw.Flush()
}

func WritePlainCourse(w io.Writer, c api.CourseOutline) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%s\n\n%s\n\nModules:\n", c.CourseTitle, c.CourseDescription, c.CourseIntroduction)
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, m := range c.Modules {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", esc(m.ModuleID), esc(m.ModuleTitle), esc(m.ModuleSummary))
	}
	_ = tw.Flush()
	_, err := io.WriteString(w, b.String())
	return err
}

func WritePlainModule(w io.Writer, m api.ModuleOutline) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nLessons:\n", m.ModuleIntroduction)
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, l := range m.Lessons {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", esc(l.LessonID), esc(l.LessonTitle), esc(l.LessonObjective))
	}
	_ = tw.Flush()
	_, err := io.WriteString(w, b.String())
	return err
}

func WritePlainLesson(w io.Writer, l api.LessonContent) error {
	_, err := io.WriteString(w, strings.TrimRight(l.LessonContent, "\n")+"\n")
	return err
}

func WritePlainQuiz(w io.Writer, q api.Quiz) error {
	var b strings.Builder
	for i, qq := range q.Quiz {
		fmt.Fprintf(&b, "%d. %s\n", i+1, qq.Question)
		for _, opt := range qq.Options {
			mark := " "
			if qq.IsCorrect(opt) {
				mark = "*"
			}
			fmt.Fprintf(&b, "   [%s] %s\n", mark, opt)
		}
		if qq.Explanation != "" {
			fmt.Fprintf(&b, "   Explanation: %s\n", qq.Explanation)
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
