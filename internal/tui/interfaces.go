package tui

import (
	"context"

	"github.com/MKhiriev/go-zk-vault/internal/service"
	"github.com/MKhiriev/go-zk-vault/models"
)

// Vault is the part of *service.VaultService the session screen drives.
type Vault interface {
	Unlock(ctx context.Context, vaultID, password string) error
	ListItems(ctx context.Context) ([]models.ItemView, error)
	RevealItem(ctx context.Context, itemID string) (models.Item, error)
	CopyField(ctx context.Context, itemID string, field service.Field) error
}
