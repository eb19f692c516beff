// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui is the interactive session screen of the zkvault client.
//
// The screen runs under a session.Guard: keys count as activity, losing
// terminal focus locks the vault, and every lock the guard performs sends the
// screen back to the password prompt.
package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/session"
	"github.com/MKhiriev/go-zk-vault/models"
	tea "github.com/charmbracelet/bubbletea"
)

// TUI runs interactive sessions for one vault service.
type TUI struct {
	vault Vault
	guard *session.Guard
	info  models.AppBuildInfo
	log   *logger.Logger
}

// New returns a TUI driving v under guard.
func New(v Vault, guard *session.Guard, info models.AppBuildInfo, log *logger.Logger) *TUI {
	return &TUI{vault: v, guard: guard, info: info, log: log}
}

// Run shows the session screen for vaultID until the user quits. The guard
// is started for the duration of the session and stopped, which locks, on
// return.
func (t *TUI) Run(ctx context.Context, vaultID, vaultName string) error {
	model := newSessionModel(ctx, t.vault, t.guard.LockNow, vaultID, vaultName, t.info)

	p := tea.NewProgram(
		session.WithGuard(model, t.guard),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)

	t.guard.OnLock(func(r session.Reason) {
		// the guard may lock from inside the event loop
		go p.Send(lockedMsg{reason: r})
	})

	t.guard.Start(ctx)
	defer t.guard.Stop()

	t.log.Info().Str("func", "tui.Run").Str("vault_id", vaultID).Msg("session started")
	_, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	t.log.Info().Str("func", "tui.Run").Str("vault_id", vaultID).Msg("session ended")
	return nil
}
