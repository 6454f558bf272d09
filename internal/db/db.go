package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mithrel/tutor/internal/session"
	"github.com/mithrel/tutor/pkg/api"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// ListQuery filters drafts. Zero values mean "any".
type ListQuery struct {
	Kind      api.DraftKind
	SessionID string
	Since     time.Time
	Until     time.Time
	Limit     int
}

// DraftRepo stores generation results.
type DraftRepo interface {
	PutDraft(ctx context.Context, d api.Draft) (api.Draft, error)
	GetDraft(ctx context.Context, id string) (api.Draft, error)
	ListDrafts(ctx context.Context, q ListQuery) ([]api.Draft, error)
	DeleteDraft(ctx context.Context, id string) error
	// ResolveDraftID expands a unique id prefix.
	ResolveDraftID(ctx context.Context, prefix string) (string, error)
}

// SessionRepo persists wizard sessions between runs.
type SessionRepo interface {
	SaveSession(ctx context.Context, s *session.Session) error
	LoadSession(ctx context.Context, id string) (*session.Session, error)
}

// Store groups the repositories behind one handle.
type Store struct {
	Drafts   DraftRepo
	Sessions SessionRepo
}

// Open returns a Store for a DSN: sqlite://path or mem://.
func Open(ctx context.Context, dsn string) (*Store, io.Closer, error) {
	switch {
	case strings.HasPrefix(dsn, "mem://"):
		m := newMemStore()
		return &Store{Drafts: m, Sessions: m}, io.NopCloser(nil), nil
	case strings.HasPrefix(dsn, "sqlite://"), !strings.Contains(dsn, "://"):
		return openSQLite(ctx, dsn)
	default:
		return nil, nil, fmt.Errorf("unsupported store dsn %q", dsn)
	}
}
