package session

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/logger"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoModel records the messages it receives.
type echoModel struct {
	seen []tea.Msg
}

func (m echoModel) Init() tea.Cmd { return nil }

func (m echoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.seen = append(m.seen, msg)
	return m, nil
}

func (m echoModel) View() string { return "echo" }

func TestWithGuard_BlurLocks(t *testing.T) {
	locker := &spyLocker{}
	g := NewGuard(locker, time.Hour, logger.Nop())
	m := WithGuard(echoModel{}, g)

	m, _ = m.Update(tea.BlurMsg{})

	assert.Equal(t, int64(1), locker.calls.Load())
	assert.Equal(t, "echo", m.View())
}

func TestWithGuard_KeyCountsAsActivity(t *testing.T) {
	locker := &spyLocker{}
	g := NewGuard(locker, time.Hour, logger.Nop())
	m := WithGuard(echoModel{}, g)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})

	select {
	case <-g.activity:
	default:
		t.Fatal("key press was not reported as activity")
	}
	assert.Zero(t, locker.calls.Load())

	inner, ok := m.(guardedModel).inner.(echoModel)
	require.True(t, ok)
	assert.Len(t, inner.seen, 1, "message must reach the wrapped model")
}
