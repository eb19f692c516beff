// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service glues the vault key lifecycle and item encryption to a
// record store. It is the only layer that knows both the open vault's ID and
// its key state; the store below it only ever sees envelopes.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/store"
	"github.com/MKhiriev/go-zk-vault/internal/vault"
	"github.com/MKhiriev/go-zk-vault/models"
)

// DefaultPasswordLength is the length used by GeneratePassword when the
// caller does not ask for one.
const DefaultPasswordLength = 20

// VaultService runs vault and item operations against one store. At most one
// vault is open at a time; opening another locks the first.
type VaultService struct {
	store store.VaultStore
	keys  *vault.KeyManager
	items *vault.ItemCipher
	gen   crypto.SecretGenerator
	clip  SecureCopier
	log   *logger.Logger

	mu      sync.Mutex
	vaultID string
}

// NewVaultService builds a service over st. clip may be nil, in which case
// CopyField fails with ErrNoClipboard.
func NewVaultService(
	st store.VaultStore,
	keys *vault.KeyManager,
	codec crypto.EnvelopeCodec,
	gen crypto.SecretGenerator,
	clip SecureCopier,
	log *logger.Logger,
) *VaultService {
	s := &VaultService{
		store: st,
		keys:  keys,
		items: vault.NewItemCipher(keys, codec),
		gen:   gen,
		clip:  clip,
		log:   log,
	}
	keys.OnStateChange(func(state vault.State) {
		if state == vault.Locked {
			s.setOpen("")
		}
	})
	return s
}

// CreateVault creates a vault named name protected by password and leaves
// it open. Any open vault is locked first. If the record cannot be stored
// the fresh key is dropped again.
func (s *VaultService) CreateVault(ctx context.Context, name, password string) (string, error) {
	s.keys.Lock()

	header, err := s.keys.CreateVault(password)
	if err != nil {
		return "", fmt.Errorf("create vault key: %w", err)
	}

	id, err := s.store.CreateVaultRecord(ctx, models.NewVault{
		Name:              name,
		Salt:              header.Salt,
		EncryptedVaultKey: header.WrappedKey,
		KDF:               header.KDF,
	})
	if err != nil {
		s.keys.Lock()
		s.log.Err(err).Str("func", "service.CreateVault").Msg("vault record not stored")
		return "", fmt.Errorf("store vault record: %w", err)
	}

	s.setOpen(id)
	s.log.Info().Str("func", "service.CreateVault").Str("vault_id", id).Msg("vault created")
	return id, nil
}

// Unlock opens vaultID with password. Any open vault is locked first, so on
// failure nothing is open.
func (s *VaultService) Unlock(ctx context.Context, vaultID, password string) error {
	s.keys.Lock()

	rec, err := s.store.FetchVaultRecord(ctx, vaultID)
	if err != nil {
		return fmt.Errorf("fetch vault record: %w", err)
	}

	err = s.keys.Unlock(password, vault.Header{
		KDF:        rec.KDF,
		Salt:       rec.Salt,
		WrappedKey: rec.EncryptedVaultKey,
	})
	if err != nil {
		s.log.Warn().Str("func", "service.Unlock").Str("vault_id", vaultID).Err(err).Msg("unlock failed")
		return err
	}

	s.setOpen(vaultID)
	return nil
}

// DeleteVault removes vaultID and its items. password must unlock the vault
// first; a wrong one fails with vault.ErrUnlockFailed and deletes nothing.
// The service is locked afterwards either way.
func (s *VaultService) DeleteVault(ctx context.Context, vaultID, password string) error {
	if err := s.Unlock(ctx, vaultID, password); err != nil {
		return err
	}
	defer s.keys.Lock()

	if err := s.store.DeleteVaultRecord(ctx, vaultID); err != nil {
		s.log.Err(err).Str("func", "service.DeleteVault").Str("vault_id", vaultID).Msg("vault record not deleted")
		return fmt.Errorf("delete vault %s: %w", vaultID, err)
	}

	s.log.Info().Str("func", "service.DeleteVault").Str("vault_id", vaultID).Msg("vault deleted")
	return nil
}

// Lock closes the open vault. It is idempotent.
func (s *VaultService) Lock() {
	s.keys.Lock()
}

// OpenVault returns the ID of the open vault, or false when locked.
func (s *VaultService) OpenVault() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.vaultID, s.vaultID != ""
}

// ListVaults returns the vaults known to the store. It works while locked.
func (s *VaultService) ListVaults(ctx context.Context) ([]models.VaultSummary, error) {
	vaults, err := s.store.ListVaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vaults: %w", err)
	}
	return vaults, nil
}

// AddItem encrypts item and stores it in the open vault.
func (s *VaultService) AddItem(ctx context.Context, item models.Item) (string, error) {
	vaultID, err := s.requireOpen()
	if err != nil {
		return "", err
	}

	envelopes, err := s.items.EncryptItem(item)
	if err != nil {
		return "", fmt.Errorf("encrypt item: %w", err)
	}

	id, err := s.store.CreateItemRecord(ctx, vaultID, envelopes)
	if err != nil {
		return "", fmt.Errorf("store item: %w", err)
	}

	s.log.Debug().Str("func", "service.AddItem").Str("vault_id", vaultID).Str("item_id", id).Msg("item added")
	return id, nil
}

// ListItems returns the open vault's items with their metadata decrypted.
// Passwords stay sealed. An item whose envelopes do not open is returned
// with Corrupted set instead of failing the whole listing.
func (s *VaultService) ListItems(ctx context.Context) ([]models.ItemView, error) {
	vaultID, err := s.requireOpen()
	if err != nil {
		return nil, err
	}

	records, err := s.store.FetchItems(ctx, vaultID)
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}

	views := make([]models.ItemView, 0, len(records))
	for _, rec := range records {
		view := models.ItemView{ID: rec.ID, CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt}

		item, err := s.items.DecryptItemMeta(rec.ItemEnvelopes)
		switch {
		case err == nil:
			view.Label = item.Label
			view.Website = item.Website
			view.Username = item.Username
		case isCorruption(err):
			s.log.Warn().Str("func", "service.ListItems").Str("vault_id", vaultID).Str("item_id", rec.ID).Err(err).Msg("item does not decrypt")
			view.Corrupted = true
		default:
			return nil, fmt.Errorf("decrypt item %s: %w", rec.ID, err)
		}
		views = append(views, view)
	}
	return views, nil
}

// RevealItem returns itemID fully decrypted, password included.
func (s *VaultService) RevealItem(ctx context.Context, itemID string) (models.Item, error) {
	rec, err := s.findItem(ctx, itemID)
	if err != nil {
		return models.Item{}, err
	}

	item, err := s.items.DecryptItem(rec.ItemEnvelopes)
	if err != nil {
		return models.Item{}, fmt.Errorf("decrypt item %s: %w", itemID, err)
	}
	return item, nil
}

// CopyField decrypts a single field of itemID straight onto the clipboard.
// The decrypted bytes are wiped once copied.
func (s *VaultService) CopyField(ctx context.Context, itemID string, field Field) error {
	if s.clip == nil {
		return ErrNoClipboard
	}

	rec, err := s.findItem(ctx, itemID)
	if err != nil {
		return err
	}

	env, err := fieldEnvelope(rec.ItemEnvelopes, field)
	if err != nil {
		return err
	}

	plain, err := s.items.DecryptField(env)
	if err != nil {
		return fmt.Errorf("decrypt %s: %w", field, err)
	}
	if err = s.clip.CopySecure(plain); err != nil {
		return fmt.Errorf("copy %s: %w", field, err)
	}

	s.log.Info().Str("func", "service.CopyField").Str("item_id", itemID).Str("field", string(field)).Msg("field copied")
	return nil
}

// UpdateItem re-encrypts and stores an edit of itemID.
func (s *VaultService) UpdateItem(ctx context.Context, itemID string, u models.ItemUpdate) error {
	vaultID, err := s.requireOpen()
	if err != nil {
		return err
	}

	patch, err := s.items.EncryptUpdate(u)
	if err != nil {
		return fmt.Errorf("encrypt update: %w", err)
	}

	if err = s.store.UpdateItemRecord(ctx, vaultID, itemID, patch); err != nil {
		return fmt.Errorf("update item %s: %w", itemID, err)
	}
	return nil
}

// DeleteItem removes itemID from the open vault.
func (s *VaultService) DeleteItem(ctx context.Context, itemID string) error {
	vaultID, err := s.requireOpen()
	if err != nil {
		return err
	}

	if err = s.store.DeleteItemRecord(ctx, vaultID, itemID); err != nil {
		return fmt.Errorf("delete item %s: %w", itemID, err)
	}
	return nil
}

// GeneratePassword returns a random password. A non-positive length selects
// DefaultPasswordLength.
func (s *VaultService) GeneratePassword(length int) (string, error) {
	if length <= 0 {
		length = DefaultPasswordLength
	}
	return s.gen.GeneratePassword(length)
}

func (s *VaultService) requireOpen() (string, error) {
	vaultID, ok := s.OpenVault()
	if !ok || s.keys.State() != vault.Unlocked {
		return "", vault.ErrVaultLocked
	}
	return vaultID, nil
}

func (s *VaultService) setOpen(vaultID string) {
	s.mu.Lock()
	s.vaultID = vaultID
	s.mu.Unlock()
}

func (s *VaultService) findItem(ctx context.Context, itemID string) (models.ItemRecord, error) {
	vaultID, err := s.requireOpen()
	if err != nil {
		return models.ItemRecord{}, err
	}

	records, err := s.store.FetchItems(ctx, vaultID)
	if err != nil {
		return models.ItemRecord{}, fmt.Errorf("fetch items: %w", err)
	}
	for _, rec := range records {
		if rec.ID == itemID {
			return rec, nil
		}
	}
	return models.ItemRecord{}, store.ErrItemNotFound
}

func fieldEnvelope(e models.ItemEnvelopes, field Field) (crypto.Envelope, error) {
	var env *crypto.Envelope
	switch field {
	case FieldLabel:
		env = &e.Label
	case FieldPassword:
		env = &e.Password
	case FieldWebsite:
		env = e.Website
	case FieldUsername:
		env = e.Username
	default:
		return crypto.Envelope{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if env == nil {
		return crypto.Envelope{}, fmt.Errorf("%w: %s", ErrFieldAbsent, field)
	}
	return *env, nil
}

func isCorruption(err error) bool {
	return errors.Is(err, crypto.ErrDecryptionFailed) || errors.Is(err, crypto.ErrInvalidEnvelope)
}
