package store

import (
	"context"

	"github.com/MKhiriev/go-zk-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// VaultStore persists vault records and their encrypted items. It only ever
// sees public vault metadata and ciphertext envelopes.
type VaultStore interface {
	CreateVaultRecord(ctx context.Context, vault models.NewVault) (string, error)
	FetchVaultRecord(ctx context.Context, vaultID string) (models.VaultRecord, error)
	ListVaults(ctx context.Context) ([]models.VaultSummary, error)
	// DeleteVaultRecord removes the vault together with all of its items.
	DeleteVaultRecord(ctx context.Context, vaultID string) error

	CreateItemRecord(ctx context.Context, vaultID string, envelopes models.ItemEnvelopes) (string, error)
	FetchItems(ctx context.Context, vaultID string) ([]models.ItemRecord, error)
	UpdateItemRecord(ctx context.Context, vaultID, itemID string, patch models.ItemEnvelopesPatch) error
	DeleteItemRecord(ctx context.Context, vaultID, itemID string) error

	Close() error
}

// IDGenerator produces record identifiers.
type IDGenerator interface {
	Generate() string
}
