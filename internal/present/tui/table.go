// Package tui is the interactive drafts browser.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/tutor/internal/util"
	"github.com/mithrel/tutor/pkg/api"
)

// Hooks let the browser act on the store without importing it.
type Hooks struct {
	Delete func(ctx context.Context, id string) error
}

// BrowseDrafts opens an interactive Bubble Tea table over drafts and returns
// the draft chosen with enter, or nil if the user quit.
func BrowseDrafts(ctx context.Context, drafts []api.Draft, headers bool, hooks Hooks) (*api.Draft, error) {
	m := newModel(ctx, drafts, headers, hooks)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if fm, ok := final.(model); ok {
		return fm.selected, nil
	}
	return nil, nil
}

type model struct {
	ctx          context.Context
	hooks        Hooks
	all          []api.Draft
	shown        []api.Draft
	table        table.Model
	filter       textinput.Model
	filtering    bool
	selected     *api.Draft
	headers      bool
	width        int
	height       int
	status       string
	lastDuration time.Duration
}

func newModel(ctx context.Context, drafts []api.Draft, headers bool, hooks Hooks) model {
	fi := textinput.New()
	fi.Prompt = "/"
	fi.Placeholder = "fuzzy title filter"
	m := model{
		ctx:     ctx,
		hooks:   hooks,
		all:     append([]api.Draft(nil), drafts...),
		filter:  fi,
		headers: headers,
	}
	m.table = table.New(table.WithColumns(m.columnsFor(10, 8, 40, 16)), table.WithFocused(true))
	m.applyFilter()
	m.applyStyles()
	return m
}

func (m *model) applyFilter() {
	m.shown = util.RankDrafts(strings.TrimSpace(m.filter.Value()), m.all, 0)
	rows := make([]table.Row, 0, len(m.shown))
	for _, d := range m.shown {
		rows = append(rows, table.Row{
			api.ShortID(d.ID),
			string(d.Kind),
			d.Title,
			d.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	m.table.SetRows(rows)
	if cur := m.table.Cursor(); cur >= len(m.shown) {
		m.table.SetCursor(max(0, len(m.shown)-1))
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case deleteResultMsg:
		m.lastDuration = msg.dur
		if msg.err != nil {
			m.status = fmt.Sprintf("Delete failed: %v", msg.err)
			return m, nil
		}
		for i, d := range m.all {
			if d.ID == msg.id {
				m.all = append(m.all[:i], m.all[i+1:]...)
				break
			}
		}
		m.applyFilter()
		m.status = fmt.Sprintf("Deleted %s", api.ShortID(msg.id))
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
		return m, nil
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c", "ctrl+q":
			return m, tea.Quit
		case "enter":
			if idx := m.table.Cursor(); idx >= 0 && idx < len(m.shown) {
				sel := m.shown[idx]
				m.selected = &sel
			}
			return m, tea.Quit
		case "/":
			m.filtering = true
			return m, m.filter.Focus()
		case "d":
			idx := m.table.Cursor()
			if m.hooks.Delete == nil || idx < 0 || idx >= len(m.shown) {
				return m, nil
			}
			sel := m.shown[idx]
			m.status = fmt.Sprintf("Deleting %s…", api.ShortID(sel.ID))
			return m, deleteCmd(m.ctx, m.hooks.Delete, sel.ID)
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m model) renderFooter() string {
	left := "↑/↓ navigate • enter=show • /=filter • d=delete • q=exit"
	if m.filtering {
		left = m.filter.View()
	} else if v := m.filter.Value(); v != "" {
		left = "filter: " + v + " • " + left
	}

	var right string
	if m.status != "" {
		if m.lastDuration > 0 {
			right = fmt.Sprintf("%s (%s) • ", m.status, m.lastDuration.Round(time.Millisecond))
		} else {
			right = m.status + " • "
		}
	}
	right += fmt.Sprintf("%d/%d drafts ", len(m.shown), len(m.all))

	space := m.table.Width() - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		space = 1
	}
	return left + strings.Repeat(" ", space) + right
}

func (m model) View() string {
	if len(m.all) == 0 {
		return "(no drafts) \n"
	}
	return m.table.View() + "\n" + m.renderFooter() + "\n"
}

// deleteResultMsg conveys the outcome of a delete back to Update.
type deleteResultMsg struct {
	id  string
	err error
	dur time.Duration
}

func deleteCmd(ctx context.Context, del func(context.Context, string) error, id string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		err := del(ctx, id)
		return deleteResultMsg{id: id, err: err, dur: time.Since(start)}
	}
}

func (m *model) applyLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.table.SetHeight(max(6, m.height-1))
	m.table.SetWidth(m.width)
	avail := m.width - 4
	if avail < 40 {
		return
	}
	idW, kindW, updatedW := 10, 8, 16
	titleW := max(12, avail-idW-kindW-updatedW)
	m.table.SetColumns(m.columnsFor(idW, kindW, titleW, updatedW))
}

func (m *model) applyStyles() {
	s := table.DefaultStyles()
	if m.headers {
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
	} else {
		s.Header = s.Header.
			BorderBottom(false).
			Bold(false)
	}
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	m.table.SetStyles(s)
}

// columnsFor returns columns with or without titles based on the headers flag.
func (m *model) columnsFor(idW, kindW, titleW, updatedW int) []table.Column {
	titles := []string{"ID", "Kind", "Title", "Updated"}
	if !m.headers {
		titles = []string{"", "", "", ""}
	}
	return []table.Column{
		{Title: titles[0], Width: idW},
		{Title: titles[1], Width: kindW},
		{Title: titles[2], Width: titleW},
		{Title: titles[3], Width: updatedW},
	}
}
