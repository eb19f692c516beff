// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-zk-vault/models"
)

// localStorage is a [VaultStore] kept in memory and mirrored to a single JSON
// file after every write. It suits a single process; concurrent processes
// writing the same file will overwrite each other.
type localStorage struct {
	path     string
	inMemory bool
	ids      IDGenerator
	now      func() time.Time

	mu     sync.RWMutex
	vaults map[string]*localVault
}

type localVault struct {
	Record models.VaultRecord           `json:"vault"`
	Items  map[string]models.ItemRecord `json:"items"`
}

type localPersistedState struct {
	Version int                    `json:"version"`
	Vaults  map[string]*localVault `json:"vaults"`
}

const localStateVersion = 1

// NewLocalStorage opens the JSON file store at path. An empty path or
// ":memory:" keeps everything in memory.
func NewLocalStorage(path string, ids IDGenerator) (VaultStore, error) {
	if path == "" {
		path = ":memory:"
	}

	s := &localStorage{
		path:     path,
		inMemory: path == ":memory:" || path == "memory",
		ids:      ids,
		now:      func() time.Time { return time.Now().UTC() },
		vaults:   make(map[string]*localVault),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *localStorage) CreateVaultRecord(ctx context.Context, vault models.NewVault) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	id := s.ids.Generate()
	s.vaults[id] = &localVault{
		Record: models.VaultRecord{ID: id, NewVault: vault, CreatedAt: &now},
		Items:  make(map[string]models.ItemRecord),
	}

	if err := s.persist(); err != nil {
		delete(s.vaults, id)
		return "", err
	}
	return id, nil
}

func (s *localStorage) FetchVaultRecord(ctx context.Context, vaultID string) (models.VaultRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.VaultRecord{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vaults[vaultID]
	if !ok {
		return models.VaultRecord{}, ErrVaultNotFound
	}
	return v.Record, nil
}

func (s *localStorage) ListVaults(ctx context.Context) ([]models.VaultSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.VaultSummary, 0, len(s.vaults))
	for _, v := range s.vaults {
		out = append(out, v.Record.Summary())
	}
	slices.SortFunc(out, func(a, b models.VaultSummary) int {
		return compareCreated(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return out, nil
}

func (s *localStorage) DeleteVaultRecord(ctx context.Context, vaultID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.vaults[vaultID]
	if !ok {
		return ErrVaultNotFound
	}

	delete(s.vaults, vaultID)
	if err := s.persist(); err != nil {
		s.vaults[vaultID] = prev
		return err
	}
	return nil
}

func (s *localStorage) CreateItemRecord(ctx context.Context, vaultID string, envelopes models.ItemEnvelopes) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vaults[vaultID]
	if !ok {
		return "", ErrVaultNotFound
	}

	now := s.now()
	id := s.ids.Generate()
	v.Items[id] = models.ItemRecord{
		ID:            id,
		VaultID:       vaultID,
		ItemEnvelopes: envelopes,
		CreatedAt:     &now,
		UpdatedAt:     &now,
	}

	if err := s.persist(); err != nil {
		delete(v.Items, id)
		return "", err
	}
	return id, nil
}

func (s *localStorage) FetchItems(ctx context.Context, vaultID string) ([]models.ItemRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vaults[vaultID]
	if !ok {
		return nil, ErrVaultNotFound
	}

	out := make([]models.ItemRecord, 0, len(v.Items))
	for _, item := range v.Items {
		out = append(out, item)
	}
	slices.SortFunc(out, func(a, b models.ItemRecord) int {
		return compareCreated(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return out, nil
}

func (s *localStorage) UpdateItemRecord(ctx context.Context, vaultID, itemID string, patch models.ItemEnvelopesPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vaults[vaultID]
	if !ok {
		return ErrVaultNotFound
	}
	prev, ok := v.Items[itemID]
	if !ok {
		return ErrItemNotFound
	}

	now := s.now()
	next := prev
	next.ItemEnvelopes = patch.Apply(prev.ItemEnvelopes)
	next.UpdatedAt = &now
	v.Items[itemID] = next

	if err := s.persist(); err != nil {
		v.Items[itemID] = prev
		return err
	}
	return nil
}

func (s *localStorage) DeleteItemRecord(ctx context.Context, vaultID, itemID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vaults[vaultID]
	if !ok {
		return ErrVaultNotFound
	}
	prev, ok := v.Items[itemID]
	if !ok {
		return ErrItemNotFound
	}

	delete(v.Items, itemID)
	if err := s.persist(); err != nil {
		v.Items[itemID] = prev
		return err
	}
	return nil
}

// Close implements VaultStore. Every write is already on disk.
func (s *localStorage) Close() error {
	return nil
}

func (s *localStorage) load() error {
	if s.inMemory {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read local storage file: %w", err)
	}

	var st localPersistedState
	if err = json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decode local storage file: %w", err)
	}

	for id, v := range st.Vaults {
		if v == nil {
			delete(st.Vaults, id)
			continue
		}
		if v.Items == nil {
			v.Items = make(map[string]models.ItemRecord)
		}
	}
	if st.Vaults != nil {
		s.vaults = st.Vaults
	}

	return nil
}

// persist writes the whole state to a temp file and renames it over the
// store file.
func (s *localStorage) persist() error {
	if s.inMemory {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create local storage dir: %w", err)
		}
	}

	state := localPersistedState{Version: localStateVersion, Vaults: s.vaults}
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write local storage file: %w", err)
	}
	if err = os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace local storage file: %w", err)
	}

	return nil
}

func compareCreated(a, b *time.Time, idA, idB string) int {
	switch {
	case a != nil && b != nil && !a.Equal(*b):
		return a.Compare(*b)
	case idA < idB:
		return -1
	case idA > idB:
		return 1
	}
	return 0
}
