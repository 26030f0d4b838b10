package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/voxdo/voxdo/internal/core/task"
	"github.com/voxdo/voxdo/internal/store/todofile"
)

// refreshInterval is how often the viewer re-reads the task file, so edits
// made by the voice layer or another process show up without a keypress.
const refreshInterval = 2 * time.Second

// Model is the read-only task viewer. Mutations go through the CLI or the
// voice layer; the viewer just tracks the file.
type Model struct {
	store *todofile.Store
	keys  KeyMap

	active []task.Task
	done   []task.CompletedTask

	selected   int
	width      int
	height     int
	filter     textinput.Model
	filterMode bool
	showDone   bool
	loadErr    error
}

type tickMsg time.Time

// New creates a viewer model backed by the given store.
func New(store *todofile.Store) *Model {
	ti := textinput.New()
	ti.Placeholder = "Filter tasks..."
	ti.Prompt = "/ "
	ti.CharLimit = 50
	ti.Width = 30
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	return &Model{
		store:  store,
		keys:   DefaultKeyMap(),
		filter: ti,
	}
}

// Run starts the viewer and blocks until it exits.
func Run(ctx context.Context, store *todofile.Store) error {
	program := tea.NewProgram(New(store), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	m.refresh()
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.refresh()
		m.clampSelection()
		return m, tickCmd()

	case tea.KeyMsg:
		if m.filterMode {
			return m.updateFilter(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Clear):
		m.filterMode = false
		m.filter.SetValue("")
		m.filter.Blur()
		m.clampSelection()
		return m, nil
	case msg.Type == tea.KeyEnter:
		m.filterMode = false
		m.filter.Blur()
		m.clampSelection()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.clampSelection()
	return m, cmd
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.visibleTasks())-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Filter):
		m.filterMode = true
		m.filter.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Clear):
		m.filter.SetValue("")
		m.clampSelection()
	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
		m.clampSelection()
	case key.Matches(msg, m.keys.ToggleDone):
		m.showDone = !m.showDone
	}

	return m, nil
}

func (m *Model) refresh() {
	doc, err := m.store.Load(context.Background())
	if err != nil {
		m.loadErr = err
		return
	}
	m.loadErr = nil
	m.active = doc.Active
	m.done = doc.Done
}

// visibleTasks applies the filter input as a case-insensitive substring
// match over the encoded task text.
func (m *Model) visibleTasks() []task.Task {
	needle := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if needle == "" {
		return m.active
	}

	var out []task.Task
	for _, t := range m.active {
		if strings.Contains(strings.ToLower(t.EncodeText()), needle) {
			out = append(out, t)
		}
	}
	return out
}

func (m *Model) clampSelection() {
	n := len(m.visibleTasks())
	if n == 0 {
		m.selected = 0
		return
	}
	if m.selected >= n {
		m.selected = n - 1
	}
}
