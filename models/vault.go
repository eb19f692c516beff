package models

import (
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
)

// NewVault is the payload written once when a vault is created.
// Salt, KDF and EncryptedVaultKey are public: without the password they
// reveal nothing about the vault key.
type NewVault struct {
	// Name is the plaintext display name of the vault.
	Name string `json:"vault_name"`

	// Salt is the 16-byte KDF salt, base64 in JSON.
	Salt []byte `json:"salt"`

	// EncryptedVaultKey is the vault key sealed under the password-derived key.
	EncryptedVaultKey crypto.Envelope `json:"encrypted_vault_key"`

	// KDF describes how the password-derived key is produced.
	KDF crypto.KDFParams `json:"kdf"`
}

// VaultRecord is a persisted vault as returned by a store.
type VaultRecord struct {
	ID string `json:"vault_id"`

	NewVault

	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// VaultSummary is the listing view of a vault. It carries no key material.
type VaultSummary struct {
	ID        string     `json:"vault_id"`
	Name      string     `json:"vault_name"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Summary returns the listing view of r.
func (r VaultRecord) Summary() VaultSummary {
	return VaultSummary{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}
}
