package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mithrel/tutor/internal/session"
	"github.com/mithrel/tutor/pkg/api"
)

type sqliteStore struct{ db *sql.DB }

// BeginTx satisfies TxProvider so callers can group writes.
func (s *sqliteStore) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

// execer is the subset of *sql.DB and *sql.Tx the repository needs.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *sqliteStore) conn(ctx context.Context) execer {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

// prepareDraft fills id, hash and timestamps and rejects unusable drafts.
func prepareDraft(d api.Draft) (api.Draft, error) {
	if _, err := api.ParseDraftKind(string(d.Kind)); err != nil || d.Kind == "" {
		return api.Draft{}, fmt.Errorf("draft kind %q: %w", d.Kind, ErrConflict)
	}
	if len(d.Payload) == 0 || !json.Valid(d.Payload) {
		return api.Draft{}, fmt.Errorf("draft payload must be JSON: %w", ErrConflict)
	}
	if d.ID == "" {
		d.ID = api.NewID()
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	d.Hash = d.ContentHash()
	return d, nil
}

func pickPrefix(prefix string, match []string) (string, error) {
	switch len(match) {
	case 0:
		return "", ErrNotFound
	case 1:
		return match[0], nil
	default:
		return "", fmt.Errorf("id prefix %q matches %d drafts: %w", prefix, len(match), ErrConflict)
	}
}

func (s *sqliteStore) PutDraft(ctx context.Context, d api.Draft) (api.Draft, error) {
	d, err := prepareDraft(d)
	if err != nil {
		return api.Draft{}, err
	}
	_, err = s.conn(ctx).ExecContext(ctx, `
INSERT INTO drafts(id, kind, title, session_id, request, payload, hash, created_at, updated_at)
VALUES(?,?,?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET
  kind=excluded.kind, title=excluded.title, session_id=excluded.session_id,
  request=excluded.request, payload=excluded.payload, hash=excluded.hash,
  updated_at=excluded.updated_at`,
		d.ID, string(d.Kind), d.Title, d.SessionID, []byte(d.Request), []byte(d.Payload), d.Hash, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return api.Draft{}, err
	}
	// created_at survives an update; read it back.
	return s.GetDraft(ctx, d.ID)
}

const draftColumns = `id, kind, title, session_id, request, payload, hash, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(row scanner) (api.Draft, error) {
	var d api.Draft
	var kind string
	var req, payload []byte
	if err := row.Scan(&d.ID, &kind, &d.Title, &d.SessionID, &req, &payload, &d.Hash, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return api.Draft{}, err
	}
	d.Kind = api.DraftKind(kind)
	if len(req) > 0 {
		d.Request = json.RawMessage(req)
	}
	d.Payload = json.RawMessage(payload)
	return d, nil
}

func (s *sqliteStore) GetDraft(ctx context.Context, id string) (api.Draft, error) {
	row := s.conn(ctx).QueryRowContext(ctx, `SELECT `+draftColumns+` FROM drafts WHERE id=?`, id)
	d, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return api.Draft{}, ErrNotFound
	}
	return d, err
}

func (s *sqliteStore) ListDrafts(ctx context.Context, q ListQuery) ([]api.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts`
	conds := []string{}
	args := []any{}
	if q.Kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, string(q.Kind))
	}
	if q.SessionID != "" {
		conds = append(conds, "session_id = ?")
		args = append(args, q.SessionID)
	}
	if !q.Since.IsZero() {
		conds = append(conds, "updated_at >= ?")
		args = append(args, q.Since.UTC())
	}
	if !q.Until.IsZero() {
		conds = append(conds, "updated_at <= ?")
		args = append(args, q.Until.UTC())
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY updated_at DESC, id ASC`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []api.Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *sqliteStore) DeleteDraft(ctx context.Context, id string) error {
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM drafts WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqliteStore) ResolveDraftID(ctx context.Context, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrNotFound
	}
	// ids are uuids, so LIKE wildcards cannot appear in a legitimate prefix.
	if strings.ContainsAny(prefix, "%_") {
		return "", ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM drafts WHERE id LIKE ? LIMIT 2`, prefix+"%")
	if err != nil {
		return "", err
	}
	defer rows.Close()
	var match []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		match = append(match, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return pickPrefix(prefix, match)
}

func (s *sqliteStore) SaveSession(ctx context.Context, sess *session.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	_, err = s.conn(ctx).ExecContext(ctx, `
INSERT INTO sessions(id, state, updated_at) VALUES(?,?,?)
ON CONFLICT(id) DO UPDATE SET state=excluded.state, updated_at=excluded.updated_at`,
		sess.ID, b, time.Now().UTC())
	return err
}

func (s *sqliteStore) LoadSession(ctx context.Context, id string) (*session.Session, error) {
	var b []byte
	err := s.conn(ctx).QueryRowContext(ctx, `SELECT state FROM sessions WHERE id=?`, id).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess session.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func openSQLite(ctx context.Context, dsn string) (*Store, io.Closer, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	if _, err := dbh.ExecContext(ctx, `PRAGMA busy_timeout=5000;`); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	s := &sqliteStore{db: dbh}
	return &Store{Drafts: s, Sessions: s}, dbh, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS drafts (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  title TEXT NOT NULL,
  session_id TEXT NOT NULL DEFAULT '',
  request BLOB,
  payload BLOB NOT NULL,
  hash TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_drafts_kind_updated ON drafts(kind, updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_drafts_session ON drafts(session_id);
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  state BLOB NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
`)
	return err
}
