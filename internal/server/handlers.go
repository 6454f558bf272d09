package server

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mithrel/tutor/internal/backend"
	"github.com/mithrel/tutor/internal/db"
	"github.com/mithrel/tutor/internal/render"
	"github.com/mithrel/tutor/internal/session"
	"github.com/mithrel/tutor/pkg/api"
)

type stepLink struct {
	N      int
	Title  string
	Active bool
}

var stepTitles = map[session.Step]string{
	session.StepCourse: "Plan Course",
	session.StepModule: "Plan Module",
	session.StepLesson: "Create Lesson",
	session.StepQuiz:   "Create Quiz",
}

// results are the generated parts shown under each form.
type results struct {
	Course     *api.CourseOutline
	Module     *api.ModuleOutline
	LessonHTML template.HTML
	HasLesson  bool
	Quiz       *api.Quiz
	// Selectable shows the buttons that carry a module or lesson into the next step.
	Selectable bool
}

type studioPage struct {
	Session *session.Session
	Steps   []stepLink
	Results results
	Error   string
}

type draftPage struct {
	Draft   api.Draft
	Results results
}

type draftListPage struct {
	Drafts []api.Draft
	Kind   api.DraftKind
}

func (s *Server) results(course *api.CourseOutline, module *api.ModuleOutline, lesson *api.LessonContent, quiz *api.Quiz) (results, error) {
	res := results{Course: course, Module: module, Quiz: quiz}
	if lesson != nil {
		out, err := s.renderer.Render(lesson.LessonContent)
		if err != nil {
			return res, err
		}
		// Render output is either sanitized or comes from our own formatter.
		res.LessonHTML = template.HTML(out)
		res.HasLesson = true
	}
	return res, nil
}

func (s *Server) renderStudio(w http.ResponseWriter, sess *session.Session, status int, msg string) {
	res, err := s.results(sess.Course, sess.Module, sess.Lesson, sess.Quiz)
	if err != nil {
		s.log.Error("render lesson", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	res.Selectable = true
	page := studioPage{Session: sess, Results: res, Error: msg}
	for _, st := range session.Steps {
		page.Steps = append(page.Steps, stepLink{N: int(st), Title: stepTitles[st], Active: st == sess.Step})
	}
	s.execute(w, "studio.html", status, page)
}

func (s *Server) execute(w http.ResponseWriter, name string, status int, data any) {
	var buf strings.Builder
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("template", zap.String("name", name), zap.Error(err))
		http.Error(w, "template failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderStudio(w, s.session(w, r), http.StatusOK, "")
}

// generate runs one wizard step on a copy of the session. On failure the
// submitted form is kept and the error banner shown; earlier results stay.
func (s *Server) generate(w http.ResponseWriter, r *http.Request, keepForm func(*session.Session), run func(*session.Session) error) {
	sess := s.session(w, r)
	if s.wiz == nil {
		http.Error(w, "no backend configured", http.StatusServiceUnavailable)
		return
	}
	work := sess.Clone()
	if err := run(work); err != nil {
		s.log.Warn("generation failed", zap.String("session", sess.ID), zap.Error(err))
		keepForm(sess)
		s.sessions.Put(sess)
		s.renderStudio(w, sess, errorStatus(err), "An error occurred while generating: "+backend.Detail(err)+". Please try again.")
		return
	}
	s.sessions.Put(work)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleCourse(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	req := api.CourseRequest{
		Title:              r.PostFormValue("title"),
		Description:        r.PostFormValue("description"),
		TargetAudience:     r.PostFormValue("target_audience"),
		TimeAvailable:      r.PostFormValue("time_available"),
		LearningObjectives: api.SplitObjectives(r.PostFormValue("learning_objectives")),
		PreferredFormat:    api.ContentFormat(r.PostFormValue("preferred_format")),
		DifficultyLevel:    api.DifficultyLevel(r.PostFormValue("difficulty_level")),
		ContentStyle:       api.ContentStyle(r.PostFormValue("content_style")),
	}
	s.generate(w, r,
		func(sess *session.Session) { sess.CourseRequest = req; sess.Step = session.StepCourse },
		func(sess *session.Session) error {
			_, err := s.wiz.PlanCourse(r.Context(), sess, req)
			return err
		})
}

func (s *Server) handleModule(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	req := api.ModuleRequest{
		CourseTitle:       r.PostFormValue("course_title"),
		CourseDescription: r.PostFormValue("course_description"),
		ModuleTitle:       r.PostFormValue("module_title"),
		ModuleSummary:     r.PostFormValue("module_summary"),
	}
	s.generate(w, r,
		func(sess *session.Session) { sess.ModuleForm = req; sess.Step = session.StepModule },
		func(sess *session.Session) error {
			_, err := s.wiz.PlanModule(r.Context(), sess, req)
			return err
		})
}

func lessonForm(r *http.Request) api.LessonRequest {
	return api.LessonRequest{
		CourseTitle:     r.PostFormValue("course_title"),
		ModuleTitle:     r.PostFormValue("module_title"),
		LessonTitle:     r.PostFormValue("lesson_title"),
		LessonObjective: r.PostFormValue("lesson_objective"),
	}
}

func (s *Server) handleLesson(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	req := lessonForm(r)
	s.generate(w, r,
		func(sess *session.Session) { sess.LessonForm = req; sess.Step = session.StepLesson },
		func(sess *session.Session) error {
			_, err := s.wiz.CreateLesson(r.Context(), sess, req)
			return err
		})
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	req := lessonForm(r)
	s.generate(w, r,
		func(sess *session.Session) { sess.QuizForm = req; sess.Step = session.StepQuiz },
		func(sess *session.Session) error {
			_, err := s.wiz.CreateQuiz(r.Context(), sess, req)
			return err
		})
}

// transition applies a local session change and redirects back to the wizard.
func (s *Server) transition(w http.ResponseWriter, r *http.Request, fn func(*session.Session) error) {
	sess := s.session(w, r)
	updated, err := s.sessions.Update(sess.ID, fn)
	if err != nil {
		s.renderStudio(w, sess, errorStatus(err), err.Error())
		return
	}
	if s.store != nil {
		if err := s.store.Sessions.SaveSession(r.Context(), updated); err != nil {
			s.log.Warn("save session", zap.String("session", updated.ID), zap.Error(err))
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSelectModule(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.transition(w, r, func(sess *session.Session) error { return sess.SelectModule(id) })
}

func (s *Server) handleSelectLesson(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.transition(w, r, func(sess *session.Session) error { return sess.SelectLesson(id) })
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil {
		http.Error(w, "bad step", http.StatusBadRequest)
		return
	}
	s.transition(w, r, func(sess *session.Session) error { return sess.Goto(session.Step(n)) })
}

func (s *Server) handleDraftList(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "no drafts store", http.StatusServiceUnavailable)
		return
	}
	kind, err := api.ParseDraftKind(r.URL.Query().Get("kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit := s.cfg.GetInt("drafts.page_size")
	if ls := strings.TrimSpace(r.URL.Query().Get("limit")); ls != "" {
		if n, err := strconv.Atoi(ls); err == nil && n > 0 {
			limit = n
		}
	}
	drafts, err := s.store.Drafts.ListDrafts(r.Context(), db.ListQuery{Kind: kind, Limit: limit})
	if err != nil {
		s.log.Error("list drafts", zap.Error(err))
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	s.execute(w, "drafts.html", http.StatusOK, draftListPage{Drafts: drafts, Kind: kind})
}

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "no drafts store", http.StatusServiceUnavailable)
		return
	}
	id, err := s.store.Drafts.ResolveDraftID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	d, err := s.store.Drafts.GetDraft(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	etag := `"` + d.Hash + `"`
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	var res results
	switch d.Kind {
	case api.KindCourse:
		var out api.CourseOutline
		if err = d.Decode(&out); err == nil {
			res, err = s.results(&out, nil, nil, nil)
		}
	case api.KindModule:
		var out api.ModuleOutline
		if err = d.Decode(&out); err == nil {
			res, err = s.results(nil, &out, nil, nil)
		}
	case api.KindLesson:
		var out api.LessonContent
		if err = d.Decode(&out); err == nil {
			res, err = s.results(nil, nil, &out, nil)
		}
	case api.KindQuiz:
		var out api.Quiz
		if err = d.Decode(&out); err == nil {
			res, err = s.results(nil, nil, nil, &out)
		}
	}
	if err != nil {
		s.log.Error("show draft", zap.String("id", d.ID), zap.Error(err))
		http.Error(w, "draft is unreadable", http.StatusInternalServerError)
		return
	}
	s.execute(w, "draft.html", http.StatusOK, draftPage{Draft: d, Results: res})
}

type formatRequest struct {
	Content  string `json:"content"`
	Engine   string `json:"engine,omitempty"`
	Sanitize *bool  `json:"sanitize,omitempty"`
}

type formatResponse struct {
	HTML string `json:"html"`
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	var in formatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	rd := s.renderer
	if in.Engine != "" {
		eng, err := render.ParseEngine(in.Engine)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rd.Engine = eng
	}
	if in.Sanitize != nil {
		rd.Sanitize = *in.Sanitize
	}
	out, err := rd.Render(in.Content)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(formatResponse{HTML: out})
}

func errorStatus(err error) int {
	var fe *api.FieldError
	var ae *backend.APIError
	switch {
	case errors.As(err, &fe):
		return http.StatusUnprocessableEntity
	case errors.As(err, &ae):
		return http.StatusBadGateway
	case backend.IsUnavailable(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, db.ErrNotFound), errors.Is(err, session.ErrUnknownModule), errors.Is(err, session.ErrUnknownLesson):
		return http.StatusNotFound
	case errors.Is(err, session.ErrStepNotReady):
		return http.StatusConflict
	case errors.Is(err, session.ErrBadStep), errors.Is(err, db.ErrConflict):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func joinLines(xs []string) string { return strings.Join(xs, "\n") }
