package api

import "errors"

// CourseRequest asks the backend to plan a course outline.
type CourseRequest struct {
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	TargetAudience     string          `json:"target_audience"`
	TimeAvailable      string          `json:"time_available"`
	LearningObjectives []string        `json:"learning_objectives"`
	PreferredFormat    ContentFormat   `json:"preferred_format,omitempty"`
	DifficultyLevel    DifficultyLevel `json:"difficulty_level,omitempty"`
	ContentStyle       ContentStyle    `json:"content_style,omitempty"`
}

// ModuleInfo is one module of a planned course.
type ModuleInfo struct {
	ModuleID      string `json:"module_id"`
	ModuleTitle   string `json:"module_title"`
	ModuleSummary string `json:"module_summary"`
}

// CourseOutline is the plan-course response.
type CourseOutline struct {
	CourseTitle        string       `json:"course_title"`
	CourseDescription  string       `json:"course_description"`
	CourseIntroduction string       `json:"course_introduction"`
	Modules            []ModuleInfo `json:"modules"`
}

// Module returns the module with the given id.
func (c CourseOutline) Module(id string) (ModuleInfo, bool) {
	for _, m := range c.Modules {
		if m.ModuleID == id {
			return m, true
		}
	}
	return ModuleInfo{}, false
}

type ModuleRequest struct {
	CourseTitle       string `json:"course_title"`
	CourseDescription string `json:"course_description"`
	ModuleTitle       string `json:"module_title"`
	ModuleSummary     string `json:"module_summary"`
}

type LessonInfo struct {
	LessonID        string `json:"lesson_id"`
	LessonTitle     string `json:"lesson_title"`
	LessonObjective string `json:"lesson_objective"`
}

// ModuleOutline is the plan-module response.
type ModuleOutline struct {
	ModuleIntroduction string       `json:"module_introduction"`
	Lessons            []LessonInfo `json:"lessons"`
}

// Lesson returns the lesson with the given id.
func (m ModuleOutline) Lesson(id string) (LessonInfo, bool) {
	for _, l := range m.Lessons {
		if l.LessonID == id {
			return l, true
		}
	}
	return LessonInfo{}, false
}

// LessonRequest is shared by create-lesson-content and create-quiz.
type LessonRequest struct {
	CourseTitle     string `json:"course_title"`
	ModuleTitle     string `json:"module_title"`
	LessonTitle     string `json:"lesson_title"`
	LessonObjective string `json:"lesson_objective"`
}

// QuizRequest carries the same fields as a lesson request.
type QuizRequest = LessonRequest

// LessonContent is raw generated lesson text; see render.FormatContent.
type LessonContent struct {
	LessonContent string `json:"lesson_content"`
}

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// IsCorrect reports whether option is the question's correct answer.
func (q QuizQuestion) IsCorrect(option string) bool {
	return option == q.CorrectAnswer
}

type Quiz struct {
	Quiz []QuizQuestion `json:"quiz"`
}

// Health is the v2 health probe body.
type Health struct {
	Status     string `json:"status"`
	APIVersion string `json:"api_version,omitempty"`
	Model      string `json:"model,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
}

// Feedback rates a generated artifact.
type Feedback struct {
	ContentID              string `json:"content_id"`
	ContentType            string `json:"content_type"`
	Rating                 int    `json:"rating"`
	Feedback               string `json:"feedback"`
	ImprovementSuggestions string `json:"improvement_suggestions,omitempty"`
}

// Validate checks the rating range and the referenced content.
func (f Feedback) Validate() error {
	var errs []error
	errs = required(errs, "content_id", f.ContentID)
	errs = required(errs, "content_type", f.ContentType)
	if f.Rating < 1 || f.Rating > 5 {
		errs = append(errs, &FieldError{Field: "rating", Msg: "must be between 1 and 5"})
	}
	return errors.Join(errs...)
}

type FeedbackResult struct {
	Status     string `json:"status"`
	FeedbackID string `json:"feedback_id,omitempty"`
	Message    string `json:"message,omitempty"`
}

type ExportResult struct {
	Message string `json:"message"`
}
