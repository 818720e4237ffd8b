// Package tui implements a terminal driving adapter over the same controllers
// as the browser surface. Key presses are posted to the event loop as
// closures; fresh view state arrives as ViewsMsg after every loop batch.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ericfisherdev/gencheck/internal/application"
	"github.com/ericfisherdev/gencheck/internal/domain/model"
)

// Poster enqueues fn on the controllers' event loop without waiting.
type Poster interface {
	Post(fn func())
}

// ViewsMsg carries a snapshot of both controllers' view state.
type ViewsMsg struct {
	Panel    application.PanelView
	Workflow application.WorkflowView
	// PanelToggles counts the Open and Close requests from this model that
	// the loop had applied when the snapshot was taken.
	PanelToggles uint64
}

// Model is the bubbletea model of the terminal surface.
type Model struct {
	loop     Poster
	panel    *application.CredentialPanel
	workflow *application.AnalysisWorkflow
	theme    theme

	views  ViewsMsg
	ready  bool
	focus  int // index into model.Providers() while the settings panel is open
	width  int
	height int

	// toggles counts Open and Close requests posted so far, and panelWant is
	// the visibility the latest one asks for. applied is only touched on the
	// loop.
	toggles   uint64
	panelWant bool
	applied   *uint64
}

// NewModel creates a Model. Controller methods are only invoked through loop.
func NewModel(loop Poster, panel *application.CredentialPanel, workflow *application.AnalysisWorkflow) Model {
	return Model{
		loop:     loop,
		panel:    panel,
		workflow: workflow,
		theme:    defaultTheme(),
		applied:  new(uint64),
	}
}

// Notifier returns an event loop observer that forwards snapshots to send,
// typically (*tea.Program).Send.
func (m Model) Notifier(send func(tea.Msg)) func() {
	return func() {
		send(ViewsMsg{
			Panel:        m.panel.View(),
			Workflow:     m.workflow.View(),
			PanelToggles: *m.applied,
		})
	}
}

// panelVisible is the panel visibility keys are routed by. Until the loop has
// applied every posted Open or Close, the latest request wins over the
// snapshot.
func (m Model) panelVisible() bool {
	if m.views.PanelToggles != m.toggles {
		return m.panelWant
	}
	return m.views.Panel.Visible
}

func (m Model) togglePanel(open bool) Model {
	m.toggles++
	m.panelWant = open
	applied, panel := m.applied, m.panel
	m.loop.Post(func() {
		*applied++
		if open {
			panel.Open()
		} else {
			panel.Close()
		}
	})
	return m
}

// Init requests the first snapshot by posting an empty task.
func (m Model) Init() tea.Cmd {
	m.loop.Post(func() {})
	return nil
}

// Update handles key presses, window resizes and view snapshots.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ViewsMsg:
		m.views = msg
		m.ready = true
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.panelVisible() {
			return m.updateSettings(msg)
		}
		return m.updateAnalysis(msg)
	}
	return m, nil
}

func (m Model) updateAnalysis(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	wf := m.workflow
	switch k.Type {
	case tea.KeyCtrlS:
		m.focus = 0
		m = m.togglePanel(true)
	case tea.KeyEsc:
		if m.views.Workflow.ResultVisible() {
			m.loop.Post(wf.Reset)
			return m, nil
		}
		return m, tea.Quit
	case tea.KeyEnter:
		m.loop.Post(func() { wf.HandleKey("Enter") })
	case tea.KeyBackspace:
		m.loop.Post(func() {
			if v := wf.View(); v.InputVisible() {
				wf.SetJoinDate(dropLastRune(v.JoinDate))
			}
		})
	case tea.KeyRunes:
		if m.views.Workflow.ResultVisible() && string(k.Runes) == "r" {
			m.loop.Post(wf.Reset)
			return m, nil
		}
		typed := string(k.Runes)
		m.loop.Post(func() {
			if v := wf.View(); v.InputVisible() {
				wf.SetJoinDate(v.JoinDate + typed)
			}
		})
	}
	return m, nil
}

func (m Model) updateSettings(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	panel := m.panel
	providers := model.Providers()
	provider := providers[m.focus]

	switch k.Type {
	case tea.KeyEsc, tea.KeyCtrlS:
		m = m.togglePanel(false)
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % len(providers)
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + len(providers) - 1) % len(providers)
	case tea.KeyEnter:
		m.loop.Post(panel.Save)
	case tea.KeyCtrlT:
		m.loop.Post(func() { panel.TestConnection(provider) })
	case tea.KeyBackspace:
		m.loop.Post(func() {
			panel.SetField(provider, dropLastRune(panel.View().Fields[provider]))
		})
	case tea.KeyCtrlU:
		m.loop.Post(func() { panel.SetField(provider, "") })
	case tea.KeyRunes:
		typed := string(k.Runes)
		m.loop.Post(func() {
			panel.SetField(provider, panel.View().Fields[provider]+typed)
		})
	}
	return m, nil
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

// maskKey shows only the last four characters of a key.
func maskKey(key string) string {
	r := []rune(key)
	if len(r) <= 4 {
		return strings.Repeat("•", len(r))
	}
	return strings.Repeat("•", len(r)-4) + string(r[len(r)-4:])
}
