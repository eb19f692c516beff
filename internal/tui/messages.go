package tui

import (
	"github.com/MKhiriev/go-zk-vault/internal/service"
	"github.com/MKhiriev/go-zk-vault/internal/session"
	"github.com/MKhiriev/go-zk-vault/models"
)

type unlockDoneMsg struct {
	err error
}

type listLoadedMsg struct {
	items []models.ItemView
	err   error
}

type revealDoneMsg struct {
	item models.Item
	err  error
}

type copiedMsg struct {
	field service.Field
	err   error
}

type lockedMsg struct {
	reason session.Reason
}
