// Package tui provides the Bubble Tea play interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/wordblitz/internal/model"
	"github.com/verte-zerg/wordblitz/internal/session"
	"github.com/verte-zerg/wordblitz/internal/store"
)

const renderInterval = 100 * time.Millisecond

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(renderInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model implements the Bubble Tea play UI. It renders engine snapshots
// and forwards keystrokes; all game state lives in the engine.
type Model struct {
	engine   *session.Engine
	store    *store.Store
	settings model.Settings

	input textinput.Model

	width  int
	height int

	lastResult *session.Result
	saved      bool
	saveErr    string
}

// NewModel constructs a play UI model.
func NewModel(engine *session.Engine, st *store.Store, settings model.Settings) *Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 64
	ti.Focus()
	return &Model{
		engine:   engine,
		store:    st,
		settings: settings,
		input:    ti,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		snap := m.engine.Snapshot()
		if snap.Phase == model.PhaseOver {
			m.persist()
		}
		// A timer-driven skip resets the engine's input; mirror it.
		if snap.Input == "" && m.input.Value() != "" {
			m.input.Reset()
		}
		return m, tickCmd()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.engine.Snapshot()

	switch msg.Type {
	case tea.KeyCtrlC:
		m.engine.End()
		m.persist()
		return m, tea.Quit
	case tea.KeyEsc:
		if err := m.engine.Pause(); err != nil {
			// Pause is meaningless when idle or over; ignore.
			_ = err
		}
		return m, nil
	case tea.KeyTab:
		if err := m.engine.Skip(); err == nil {
			m.input.Reset()
			m.lastResult = nil
		}
		return m, nil
	}

	if snap.Phase == model.PhaseOver {
		switch msg.String() {
		case "r":
			if err := m.engine.Start(); err == nil {
				m.input.Reset()
				m.lastResult = nil
				m.saved = false
				m.saveErr = ""
			}
			return m, nil
		case "q":
			return m, tea.Quit
		}
		return m, nil
	}
	if snap.Phase != model.PhaseRunning {
		return m, nil
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != prev {
		res, err := m.engine.ProcessInput(value)
		if err == nil && res.Decided {
			m.input.Reset()
			m.lastResult = &res
		}
	}
	return m, cmd
}

// persist hands the final snapshot to the store, once per run.
func (m *Model) persist() {
	if m.saved || m.store == nil {
		return
	}
	m.saved = true
	rec, events := m.engine.Record()
	if rec.TotalWords == 0 {
		return
	}
	if err := m.store.InsertSession(context.Background(), rec, events); err != nil {
		m.saveErr = err.Error()
		logErrf("failed to save session: %v\n", err)
	}
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
