package db

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/mithrel/tutor/internal/session"
	"github.com/mithrel/tutor/pkg/api"
)

// memStore backs mem:// for tests and throwaway studio runs.
type memStore struct {
	mu       sync.RWMutex
	drafts   map[string]api.Draft
	sessions map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{drafts: make(map[string]api.Draft), sessions: make(map[string][]byte)}
}

func (m *memStore) PutDraft(ctx context.Context, d api.Draft) (api.Draft, error) {
	d, err := prepareDraft(d)
	if err != nil {
		return api.Draft{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.drafts[d.ID]; ok {
		d.CreatedAt = cur.CreatedAt
	}
	m.drafts[d.ID] = d
	return d, nil
}

func (m *memStore) GetDraft(ctx context.Context, id string) (api.Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.drafts[id]
	if !ok {
		return api.Draft{}, ErrNotFound
	}
	return d, nil
}

func (m *memStore) ListDrafts(ctx context.Context, q ListQuery) ([]api.Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]api.Draft, 0, len(m.drafts))
	for _, d := range m.drafts {
		if q.Kind != "" && d.Kind != q.Kind {
			continue
		}
		if q.SessionID != "" && d.SessionID != q.SessionID {
			continue
		}
		if !q.Since.IsZero() && d.UpdatedAt.Before(q.Since) {
			continue
		}
		if !q.Until.IsZero() && d.UpdatedAt.After(q.Until) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *memStore) DeleteDraft(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drafts[id]; !ok {
		return ErrNotFound
	}
	delete(m.drafts, id)
	return nil
}

func (m *memStore) ResolveDraftID(ctx context.Context, prefix string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var match []string
	for id := range m.drafts {
		if strings.HasPrefix(id, prefix) {
			match = append(match, id)
		}
	}
	return pickPrefix(prefix, match)
}

func (m *memStore) SaveSession(ctx context.Context, s *session.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = b
	return nil
}

func (m *memStore) LoadSession(ctx context.Context, id string) (*session.Session, error) {
	m.mu.RLock()
	b, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	var s session.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
