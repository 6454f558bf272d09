// Package server serves the studio: the four-step course wizard as
// server-rendered pages.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mithrel/tutor/internal/db"
	"github.com/mithrel/tutor/internal/render"
	"github.com/mithrel/tutor/internal/session"
	"github.com/mithrel/tutor/internal/wizard"
	"github.com/mithrel/tutor/pkg/api"
)

//go:embed templates/*.html
var templateFS embed.FS

const sessionCookie = "tutor_session"

// Deps are the services the studio needs.
type Deps struct {
	Cfg      *viper.Viper
	Log      *zap.Logger
	Store    *db.Store
	Sessions *session.Manager
	Wizard   *wizard.Service
	Renderer render.Renderer
}

// Server serves the studio pages backed by a wizard and a drafts store.
type Server struct {
	cfg      *viper.Viper
	log      *zap.Logger
	store    *db.Store
	sessions *session.Manager
	wiz      *wizard.Service
	renderer render.Renderer
	pages    *template.Template
}

func New(d Deps) (*Server, error) {
	pages, err := template.New("").Funcs(template.FuncMap{
		"inc":   func(i int) int { return i + 1 },
		"short": api.ShortID,
		"lines": joinLines,
		"list":  func(xs ...string) []string { return xs },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	cfg := d.Cfg
	if cfg == nil {
		cfg = viper.New()
	}
	lg := d.Log
	if lg == nil {
		lg = zap.NewNop()
	}
	sessions := d.Sessions
	if sessions == nil {
		sessions = session.NewManager(0)
	}
	return &Server{
		cfg:      cfg,
		log:      lg.Named("studio"),
		store:    d.Store,
		sessions: sessions,
		wiz:      d.Wizard,
		renderer: d.Renderer,
		pages:    pages,
	}, nil
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /course", s.handleCourse)
	mux.HandleFunc("POST /module", s.handleModule)
	mux.HandleFunc("POST /lesson", s.handleLesson)
	mux.HandleFunc("POST /quiz", s.handleQuiz)
	mux.HandleFunc("POST /select/module/{id}", s.handleSelectModule)
	mux.HandleFunc("POST /select/lesson/{id}", s.handleSelectLesson)
	mux.HandleFunc("GET /step/{n}", s.handleStep)
	mux.HandleFunc("GET /drafts", s.handleDraftList)
	mux.HandleFunc("GET /drafts/{id}", s.handleDraft)
	mux.HandleFunc("POST /api/format", s.handleFormat)
	return s.logRequests(mux)
}

// Run serves on addr until ctx is cancelled, sweeping idle sessions meanwhile.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.sweep(gctx, time.Minute)
		return nil
	})
	g.Go(func() error {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	s.log.Info("studio listening", zap.String("addr", addr))
	return g.Wait()
}

func (s *Server) sweep(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.sessions.Sweep(); n > 0 {
				s.log.Debug("dropped idle sessions", zap.Int("count", n))
			}
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("http",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("latency", time.Since(start)),
		)
	})
}

// session returns the caller's session, restoring it from the store or
// creating a new one as needed. The cookie is (re)set on every call.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var sess *session.Session
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		if got, ok := s.sessions.Get(c.Value); ok {
			sess = got
		} else if s.store != nil {
			if loaded, err := s.store.Sessions.LoadSession(r.Context(), c.Value); err == nil {
				s.sessions.Put(loaded)
				sess = loaded
			} else if !errors.Is(err, db.ErrNotFound) {
				s.log.Warn("load session", zap.String("id", c.Value), zap.Error(err))
			}
		}
	}
	if sess == nil {
		sess = s.sessions.Create()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}
