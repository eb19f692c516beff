package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-zk-vault/internal/service"
	"github.com/MKhiriev/go-zk-vault/internal/vault"
	"github.com/MKhiriev/go-zk-vault/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenUnlock screen = iota
	screenList
	screenAbout
)

const labelWidth = 32

// sessionModel is the whole interactive session: an unlock prompt, the item
// list of the open vault and an about page. Any lock sends it back to the
// prompt with every decrypted value dropped.
type sessionModel struct {
	ctx       context.Context
	vault     Vault
	lock      func()
	vaultID   string
	vaultName string
	info      models.AppBuildInfo

	screen   screen
	password textinput.Model
	busy     bool

	items  []models.ItemView
	cursor int
	detail *models.Item

	status string
	err    error
}

func newSessionModel(ctx context.Context, v Vault, lock func(), vaultID, vaultName string, info models.AppBuildInfo) sessionModel {
	pw := textinput.New()
	pw.Placeholder = "password"
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'
	pw.Focus()

	return sessionModel{
		ctx:       ctx,
		vault:     v,
		lock:      lock,
		vaultID:   vaultID,
		vaultName: vaultName,
		info:      info,
		screen:    screenUnlock,
		password:  pw,
	}
}

func (m sessionModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case lockedMsg:
		m.dropSecrets()
		m.status = fmt.Sprintf("Locked (%s)", msg.reason)
		return m, textinput.Blink

	case unlockDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = ""
		m.screen = screenList
		return m, m.loadItems()

	case listLoadedMsg:
		if msg.err != nil {
			return m.fail(msg.err)
		}
		m.items = msg.items
		if m.cursor >= len(m.items) {
			m.cursor = max(len(m.items)-1, 0)
		}
		return m, nil

	case revealDoneMsg:
		if msg.err != nil {
			return m.fail(msg.err)
		}
		item := msg.item
		m.detail = &item
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			return m.fail(msg.err)
		}
		m.err = nil
		m.status = fmt.Sprintf("Copied %s to clipboard", msg.field)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.quit) && (msg.String() == "ctrl+c" || m.screen != screenUnlock) {
			m.dropSecrets()
			return m, tea.Quit
		}
		switch m.screen {
		case screenUnlock:
			return m.updateUnlock(msg)
		case screenList:
			return m.updateList(msg)
		case screenAbout:
			if key.Matches(msg, keys.esc) {
				m.screen = screenList
			}
			return m, nil
		}
	}

	if m.screen == screenUnlock {
		var cmd tea.Cmd
		m.password, cmd = m.password.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m sessionModel) updateUnlock(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.enter) {
		if m.busy || m.password.Value() == "" {
			return m, nil
		}
		pw := m.password.Value()
		m.password.Reset()
		m.busy = true
		m.err = nil
		return m, m.unlock(pw)
	}

	var cmd tea.Cmd
	m.password, cmd = m.password.Update(msg)
	return m, cmd
}

func (m sessionModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.up):
		if m.cursor > 0 {
			m.cursor--
			m.detail = nil
		}
	case key.Matches(msg, keys.down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
			m.detail = nil
		}
	case key.Matches(msg, keys.esc):
		m.detail = nil
	case key.Matches(msg, keys.lock):
		lock := m.lock
		return m, func() tea.Msg {
			lock()
			return nil
		}
	case key.Matches(msg, keys.reload):
		return m, m.loadItems()
	case key.Matches(msg, keys.about):
		m.screen = screenAbout
	}

	item, ok := m.selected()
	if !ok || item.Corrupted {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.enter):
		return m, m.reveal(item.ID)
	case key.Matches(msg, keys.copy):
		return m, m.copyField(item.ID, service.FieldPassword)
	case key.Matches(msg, keys.copyUser):
		return m, m.copyField(item.ID, service.FieldUsername)
	case key.Matches(msg, keys.copyWebsite):
		return m, m.copyField(item.ID, service.FieldWebsite)
	}
	return m, nil
}

func (m sessionModel) View() string {
	switch m.screen {
	case screenAbout:
		return renderBuildInfo(m.info)
	case screenList:
		return m.listView()
	default:
		return m.unlockView()
	}
}

func (m sessionModel) unlockView() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Vault %q is locked.\n\n", m.vaultName))
	b.WriteString(m.password.View())
	b.WriteString("\n")
	m.writeStatus(&b)

	return renderPage("UNLOCK", b.String(), "enter: unlock • ctrl+c: quit")
}

func (m sessionModel) listView() string {
	var b strings.Builder
	if len(m.items) == 0 {
		b.WriteString("No items yet.\n")
	}
	for i, it := range m.items {
		line := fmt.Sprintf("%-*s  %s", labelWidth, fitText(it.Label, labelWidth), valueOrDash(it.Website))
		switch {
		case it.Corrupted:
			line = corruptStyle.Render(fmt.Sprintf("%-*s  (unreadable)", labelWidth, it.ID))
		case i == m.cursor:
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.detail != nil {
		b.WriteString("\n")
		b.WriteString(detailBox.Render(fmt.Sprintf(
			"Label:    %s\nWebsite:  %s\nUsername: %s\nPassword: %s",
			m.detail.Label, valueOrDash(m.detail.Website), valueOrDash(m.detail.Username), m.detail.Password,
		)))
		b.WriteString("\n")
	}
	m.writeStatus(&b)

	return renderPage(
		fmt.Sprintf("VAULT %s", strings.ToUpper(m.vaultName)),
		b.String(),
		"enter: show • c: copy password • u: copy username • w: copy website • r: reload • L: lock • ?: about • q: quit",
	)
}

func (m sessionModel) writeStatus(b *strings.Builder) {
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(humanizeError(m.err)))
		b.WriteString("\n")
		return
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
}

func (m sessionModel) selected() (models.ItemView, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return models.ItemView{}, false
	}
	return m.items[m.cursor], true
}

// fail records err. A locked vault means the guard got there first, so the
// screen falls back to the prompt.
func (m sessionModel) fail(err error) (tea.Model, tea.Cmd) {
	if errors.Is(err, vault.ErrVaultLocked) {
		m.dropSecrets()
	}
	m.err = err
	return m, nil
}

func (m *sessionModel) dropSecrets() {
	m.screen = screenUnlock
	m.items = nil
	m.detail = nil
	m.cursor = 0
	m.busy = false
	m.password.Reset()
	m.password.Focus()
}

func (m sessionModel) unlock(password string) tea.Cmd {
	ctx, v, id := m.ctx, m.vault, m.vaultID
	return func() tea.Msg {
		return unlockDoneMsg{err: v.Unlock(ctx, id, password)}
	}
}

func (m sessionModel) loadItems() tea.Cmd {
	ctx, v := m.ctx, m.vault
	return func() tea.Msg {
		items, err := v.ListItems(ctx)
		return listLoadedMsg{items: items, err: err}
	}
}

func (m sessionModel) reveal(itemID string) tea.Cmd {
	ctx, v := m.ctx, m.vault
	return func() tea.Msg {
		item, err := v.RevealItem(ctx, itemID)
		return revealDoneMsg{item: item, err: err}
	}
}

func (m sessionModel) copyField(itemID string, field service.Field) tea.Cmd {
	ctx, v := m.ctx, m.vault
	return func() tea.Msg {
		return copiedMsg{field: field, err: v.CopyField(ctx, itemID, field)}
	}
}
