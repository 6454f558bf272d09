package api

import (
	"errors"
	"strings"
)

func required(errs []error, field, v string) []error {
	if strings.TrimSpace(v) == "" {
		errs = append(errs, &FieldError{Field: field, Msg: "is required"})
	}
	return errs
}

// Validate checks required fields and enum values.
func (r CourseRequest) Validate() error {
	var errs []error
	errs = required(errs, "title", r.Title)
	errs = required(errs, "description", r.Description)
	errs = required(errs, "target_audience", r.TargetAudience)
	errs = required(errs, "time_available", r.TimeAvailable)
	if !r.PreferredFormat.Valid() {
		errs = append(errs, &FieldError{Field: "preferred_format", Msg: "must be one of text-heavy|visual|interactive|balanced"})
	}
	if !r.DifficultyLevel.Valid() {
		errs = append(errs, &FieldError{Field: "difficulty_level", Msg: "must be one of beginner|intermediate|advanced|expert"})
	}
	if !r.ContentStyle.Valid() {
		errs = append(errs, &FieldError{Field: "content_style", Msg: "must be one of academic|conversational|technical|creative|business"})
	}
	return errors.Join(errs...)
}

func (r ModuleRequest) Validate() error {
	var errs []error
	errs = required(errs, "course_title", r.CourseTitle)
	errs = required(errs, "module_title", r.ModuleTitle)
	errs = required(errs, "module_summary", r.ModuleSummary)
	return errors.Join(errs...)
}

func (r LessonRequest) Validate() error {
	var errs []error
	errs = required(errs, "course_title", r.CourseTitle)
	errs = required(errs, "module_title", r.ModuleTitle)
	errs = required(errs, "lesson_title", r.LessonTitle)
	errs = required(errs, "lesson_objective", r.LessonObjective)
	return errors.Join(errs...)
}

// SplitObjectives turns a textarea value into objectives, one per non-blank line.
func SplitObjectives(text string) []string {
	if text == "" {
		return []string{}
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}
