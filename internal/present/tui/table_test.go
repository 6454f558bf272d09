package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/tutor/pkg/api"
)

func makeDrafts() []api.Draft {
	now := time.Now().UTC().Truncate(time.Second)
	titles := []string{"Variables", "Channels", "Channel Direction", "Interfaces"}
	out := make([]api.Draft, 0, len(titles))
	for i, title := range titles {
		out = append(out, api.Draft{
			ID:        string(rune('a'+i)) + "0000000-0000",
			Kind:      api.KindLesson,
			Title:     title,
			UpdatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}
	return out
}

func keys(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func send(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

func TestEnterSelectsDraft(t *testing.T) {
	m := newModel(context.Background(), makeDrafts(), true, Hooks{})
	m.table.SetCursor(1)
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.NotNil(t, m.selected)
	assert.Equal(t, "Channels", m.selected.Title)
}

func TestFilterNarrowsRows(t *testing.T) {
	m := newModel(context.Background(), makeDrafts(), true, Hooks{})
	m, _ = send(t, m, keys("/"))
	require.True(t, m.filtering)
	for _, r := range "chan" {
		m, _ = send(t, m, keys(string(r)))
	}
	assert.Len(t, m.shown, 2)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.filtering)
	assert.Len(t, m.shown, 2, "filter stays after enter")

	m, _ = send(t, m, keys("/"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, m.shown, 4, "esc clears the filter")
}

func TestDeleteRemovesRow(t *testing.T) {
	var deleted []string
	hooks := Hooks{Delete: func(ctx context.Context, id string) error {
		deleted = append(deleted, id)
		return nil
	}}
	m := newModel(context.Background(), makeDrafts(), true, hooks)
	m, cmd := send(t, m, keys("d"))
	require.NotNil(t, cmd)
	m, _ = send(t, m, cmd())
	assert.Equal(t, []string{"a0000000-0000"}, deleted)
	assert.Len(t, m.all, 3)
	assert.Len(t, m.shown, 3)
	assert.Contains(t, m.status, "Deleted")
}

func TestDeleteFailureKeepsRow(t *testing.T) {
	hooks := Hooks{Delete: func(ctx context.Context, id string) error { return errors.New("locked") }}
	m := newModel(context.Background(), makeDrafts(), true, hooks)
	m, cmd := send(t, m, keys("d"))
	m, _ = send(t, m, cmd())
	assert.Len(t, m.all, 4)
	assert.Contains(t, m.status, "locked")
}

func TestEmptyView(t *testing.T) {
	m := newModel(context.Background(), nil, false, Hooks{})
	assert.Equal(t, "(no drafts) \n", m.View())
	_, cmd := send(t, m, keys("q"))
	assert.NotNil(t, cmd)
}
