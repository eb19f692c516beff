package session

import tea "github.com/charmbracelet/bubbletea"

// guardedModel feeds terminal input into a Guard before handing it to the
// wrapped model.
type guardedModel struct {
	inner tea.Model
	guard *Guard
}

// WithGuard wraps m so that key presses, mouse events and focus gain count as
// activity and focus loss locks the vault. The program must be started with
// tea.WithReportFocus for focus events to arrive.
func WithGuard(m tea.Model, g *Guard) tea.Model {
	return guardedModel{inner: m, guard: g}
}

func (m guardedModel) Init() tea.Cmd {
	return m.inner.Init()
}

func (m guardedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tea.KeyMsg, tea.MouseMsg, tea.FocusMsg:
		m.guard.Activity()
	case tea.BlurMsg:
		m.guard.FocusLost()
	}

	inner, cmd := m.inner.Update(msg)
	m.inner = inner
	return m, cmd
}

func (m guardedModel) View() string {
	return m.inner.View()
}
