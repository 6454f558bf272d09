package db

import (
	"context"
	"database/sql"

	"github.com/mithrel/tutor/internal/session"
	"github.com/mithrel/tutor/pkg/api"
)

type txKey struct{}

// WithTx stores a transaction in the context for repository methods to reuse.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns a transaction from context when available.
func TxFromContext(ctx context.Context) *sql.Tx {
	if ctx == nil {
		return nil
	}
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

type TxProvider interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)
}

// RunInTx runs fn with a transaction in its context when repo supports
// transactions, and plainly otherwise. fn's error rolls everything back.
func RunInTx(ctx context.Context, repo any, fn func(ctx context.Context) error) error {
	p, ok := repo.(TxProvider)
	if !ok || TxFromContext(ctx) != nil {
		return fn(ctx)
	}
	tx, err := p.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveResult stores a draft together with the session that produced it.
func (s *Store) SaveResult(ctx context.Context, d api.Draft, sess *session.Session) (api.Draft, error) {
	var saved api.Draft
	err := RunInTx(ctx, s.Drafts, func(ctx context.Context) error {
		var err error
		if saved, err = s.Drafts.PutDraft(ctx, d); err != nil {
			return err
		}
		if sess == nil {
			return nil
		}
		return s.Sessions.SaveSession(ctx, sess)
	})
	return saved, err
}
