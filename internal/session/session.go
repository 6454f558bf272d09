// Package session holds the state an author builds up while walking the
// course -> module -> lesson -> quiz wizard. A Session has exactly one owner
// (a studio browser session or a single CLI run); Manager adds the locking
// needed when many owners share a process.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/mithrel/tutor/pkg/api"
)

var (
	ErrStepNotReady  = errors.New("previous step has no result yet")
	ErrUnknownModule = errors.New("unknown module")
	ErrUnknownLesson = errors.New("unknown lesson")
	ErrBadStep       = errors.New("no such step")
)

// Step is one page of the wizard, numbered from 1 like the studio sidebar.
type Step int

const (
	StepCourse Step = iota + 1
	StepModule
	StepLesson
	StepQuiz
)

// Steps lists the wizard steps in order.
var Steps = []Step{StepCourse, StepModule, StepLesson, StepQuiz}

func (s Step) String() string {
	switch s {
	case StepCourse:
		return "course"
	case StepModule:
		return "module"
	case StepLesson:
		return "lesson"
	case StepQuiz:
		return "quiz"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Valid reports whether s is one of the four steps.
func (s Step) Valid() bool { return s >= StepCourse && s <= StepQuiz }

// Session is the wizard state. Outputs of a step are nil until generated.
type Session struct {
	ID   string `json:"id"`
	Step Step   `json:"step"`

	CourseRequest api.CourseRequest  `json:"course_request"`
	Course        *api.CourseOutline `json:"course,omitempty"`

	ModuleForm api.ModuleRequest  `json:"module_form"`
	Module     *api.ModuleOutline `json:"module,omitempty"`

	LessonForm api.LessonRequest  `json:"lesson_form"`
	Lesson     *api.LessonContent `json:"lesson,omitempty"`

	QuizForm api.QuizRequest `json:"quiz_form"`
	Quiz     *api.Quiz       `json:"quiz,omitempty"`

	SelectedModuleID string `json:"selected_module_id,omitempty"`
	SelectedLessonID string `json:"selected_lesson_id,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// New returns an empty session positioned on the course step.
func New(id string) *Session {
	if id == "" {
		id = api.NewID()
	}
	return &Session{ID: id, Step: StepCourse, UpdatedAt: time.Now().UTC()}
}

func (s *Session) touch() { s.UpdatedAt = time.Now().UTC() }

// SetCourse records a planned course. Results of later steps belonged to the
// previous outline and are cleared; the editable forms are kept.
func (s *Session) SetCourse(req api.CourseRequest, out api.CourseOutline) {
	s.CourseRequest = req
	s.Course = &out
	s.Module = nil
	s.Lesson = nil
	s.Quiz = nil
	s.SelectedModuleID = ""
	s.SelectedLessonID = ""
	s.Step = StepCourse
	s.touch()
}

// SelectModule fills the module form from the course outline and moves to
// the module step.
func (s *Session) SelectModule(moduleID string) error {
	if s.Course == nil {
		return fmt.Errorf("select module: %w", ErrStepNotReady)
	}
	m, ok := s.Course.Module(moduleID)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownModule, moduleID)
	}
	s.ModuleForm = api.ModuleRequest{
		CourseTitle:       s.Course.CourseTitle,
		CourseDescription: s.Course.CourseDescription,
		ModuleTitle:       m.ModuleTitle,
		ModuleSummary:     m.ModuleSummary,
	}
	s.SelectedModuleID = moduleID
	s.Step = StepModule
	s.touch()
	return nil
}

// SetModule records a planned module for the submitted form.
func (s *Session) SetModule(req api.ModuleRequest, out api.ModuleOutline) {
	s.ModuleForm = req
	s.Module = &out
	s.Lesson = nil
	s.Quiz = nil
	s.SelectedLessonID = ""
	s.Step = StepModule
	s.touch()
}

// SelectLesson fills both the lesson and the quiz form and moves to the
// lesson step.
func (s *Session) SelectLesson(lessonID string) error {
	if s.Module == nil {
		return fmt.Errorf("select lesson: %w", ErrStepNotReady)
	}
	l, ok := s.Module.Lesson(lessonID)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownLesson, lessonID)
	}
	form := api.LessonRequest{
		CourseTitle:     s.ModuleForm.CourseTitle,
		ModuleTitle:     s.ModuleForm.ModuleTitle,
		LessonTitle:     l.LessonTitle,
		LessonObjective: l.LessonObjective,
	}
	s.LessonForm = form
	s.QuizForm = form
	s.SelectedLessonID = lessonID
	s.Step = StepLesson
	s.touch()
	return nil
}

func (s *Session) SetLesson(req api.LessonRequest, out api.LessonContent) {
	s.LessonForm = req
	s.Lesson = &out
	s.Step = StepLesson
	s.touch()
}

func (s *Session) SetQuiz(req api.QuizRequest, out api.Quiz) {
	s.QuizForm = req
	s.Quiz = &out
	s.Step = StepQuiz
	s.touch()
}

// Goto moves to any step; forms may be filled by hand there.
func (s *Session) Goto(step Step) error {
	if !step.Valid() {
		return fmt.Errorf("%w %d", ErrBadStep, int(step))
	}
	s.Step = step
	s.touch()
	return nil
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s *Session) Clone() *Session {
	c := *s
	c.CourseRequest.LearningObjectives = append([]string(nil), s.CourseRequest.LearningObjectives...)
	if s.Course != nil {
		co := *s.Course
		co.Modules = append([]api.ModuleInfo(nil), s.Course.Modules...)
		c.Course = &co
	}
	if s.Module != nil {
		mo := *s.Module
		mo.Lessons = append([]api.LessonInfo(nil), s.Module.Lessons...)
		c.Module = &mo
	}
	if s.Lesson != nil {
		lc := *s.Lesson
		c.Lesson = &lc
	}
	if s.Quiz != nil {
		q := api.Quiz{Quiz: make([]api.QuizQuestion, len(s.Quiz.Quiz))}
		for i, qq := range s.Quiz.Quiz {
			qq.Options = append([]string(nil), qq.Options...)
			q.Quiz[i] = qq
		}
		c.Quiz = &q
	}
	return &c
}
