// Package wizard runs one generation step: call the backend, advance the
// session, store the result as a draft.
package wizard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mithrel/tutor/internal/db"
	"github.com/mithrel/tutor/internal/session"
	"github.com/mithrel/tutor/pkg/api"
)

// Generator is the part of the backend client the wizard needs.
type Generator interface {
	PlanCourse(ctx context.Context, req api.CourseRequest) (api.CourseOutline, error)
	PlanModule(ctx context.Context, req api.ModuleRequest) (api.ModuleOutline, error)
	CreateLessonContent(ctx context.Context, req api.LessonRequest) (api.LessonContent, error)
	CreateQuiz(ctx context.Context, req api.QuizRequest) (api.Quiz, error)
}

type Service struct {
	gen   Generator
	store *db.Store
	log   *zap.Logger
}

// New returns a Service. store may be nil, in which case nothing is persisted.
func New(gen Generator, store *db.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{gen: gen, store: store, log: log.Named("wizard")}
}

// PlanCourse plans a course and records it on sess. sess is only modified on success.
func (s *Service) PlanCourse(ctx context.Context, sess *session.Session, req api.CourseRequest) (api.Draft, error) {
	out, err := s.gen.PlanCourse(ctx, req)
	if err != nil {
		return api.Draft{}, err
	}
	sess.SetCourse(req, out)
	return s.save(ctx, sess, api.KindCourse, out.CourseTitle, req, out)
}

func (s *Service) PlanModule(ctx context.Context, sess *session.Session, req api.ModuleRequest) (api.Draft, error) {
	out, err := s.gen.PlanModule(ctx, req)
	if err != nil {
		return api.Draft{}, err
	}
	sess.SetModule(req, out)
	return s.save(ctx, sess, api.KindModule, req.ModuleTitle, req, out)
}

func (s *Service) CreateLesson(ctx context.Context, sess *session.Session, req api.LessonRequest) (api.Draft, error) {
	out, err := s.gen.CreateLessonContent(ctx, req)
	if err != nil {
		return api.Draft{}, err
	}
	sess.SetLesson(req, out)
	return s.save(ctx, sess, api.KindLesson, req.LessonTitle, req, out)
}

func (s *Service) CreateQuiz(ctx context.Context, sess *session.Session, req api.QuizRequest) (api.Draft, error) {
	out, err := s.gen.CreateQuiz(ctx, req)
	if err != nil {
		return api.Draft{}, err
	}
	sess.SetQuiz(req, out)
	return s.save(ctx, sess, api.KindQuiz, req.LessonTitle, req, out)
}

func (s *Service) save(ctx context.Context, sess *session.Session, kind api.DraftKind, title string, req, resp any) (api.Draft, error) {
	d, err := api.NewDraft(kind, title, sess.ID, req, resp)
	if err != nil {
		return api.Draft{}, err
	}
	if s.store == nil {
		return d, nil
	}
	saved, err := s.store.SaveResult(ctx, d, sess)
	if err != nil {
		return api.Draft{}, fmt.Errorf("save %s draft: %w", kind, err)
	}
	s.log.Info("draft saved",
		zap.String("kind", string(kind)),
		zap.String("id", saved.ID),
		zap.String("session", sess.ID),
	)
	return saved, nil
}

// Resume rebuilds a fresh session from a stored draft so a later step can be
// run from it. Course and module drafts restore their outline; lesson and
// quiz drafts restore their form.
func Resume(d api.Draft) (*session.Session, error) {
	sess := session.New("")
	switch d.Kind {
	case api.KindCourse:
		var req api.CourseRequest
		var out api.CourseOutline
		if err := decodeBoth(d, &req, &out); err != nil {
			return nil, err
		}
		sess.SetCourse(req, out)
	case api.KindModule:
		var req api.ModuleRequest
		var out api.ModuleOutline
		if err := decodeBoth(d, &req, &out); err != nil {
			return nil, err
		}
		sess.SetModule(req, out)
	case api.KindLesson:
		var req api.LessonRequest
		var out api.LessonContent
		if err := decodeBoth(d, &req, &out); err != nil {
			return nil, err
		}
		sess.SetLesson(req, out)
		sess.QuizForm = req
	case api.KindQuiz:
		var req api.QuizRequest
		var out api.Quiz
		if err := decodeBoth(d, &req, &out); err != nil {
			return nil, err
		}
		sess.SetQuiz(req, out)
	default:
		return nil, fmt.Errorf("cannot resume from %q draft", d.Kind)
	}
	return sess, nil
}

func decodeBoth(d api.Draft, req, out any) error {
	if err := d.DecodeRequest(req); err != nil {
		return err
	}
	return d.Decode(out)
}
