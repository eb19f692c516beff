// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/config"
	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/store"
	"github.com/MKhiriev/go-zk-vault/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

// fakeBackend mimics the vault server routes in memory.
type fakeBackend struct {
	mu     sync.Mutex
	nextID int
	vaults map[string]vaultDTO
	items  map[string]map[string]itemDTO

	lastItemCreate map[string]any
	// dropKDF stores vaults the way a server without a kdf column does
	dropKDF bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		vaults: make(map[string]vaultDTO),
		items:  make(map[string]map[string]itemDTO),
	}
}

func (b *fakeBackend) id(prefix string) string {
	b.nextID++
	return fmt.Sprintf("%s-%d", prefix, b.nextID)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) router() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+testToken {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Invalid token"})
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Route("/api/vaults", func(r chi.Router) {
		r.Get("/", b.listVaults)
		r.Post("/", b.createVault)
		r.Route("/{vaultID}", func(r chi.Router) {
			r.Get("/", b.getVault)
			r.Delete("/", b.deleteVault)
			r.Get("/items", b.listItems)
			r.Post("/items", b.createItem)
			r.Patch("/items/{itemID}", b.patchItem)
			r.Delete("/items/{itemID}", b.deleteItem)
		})
	})
	return r
}

func (b *fakeBackend) listVaults(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]vaultDTO, 0, len(b.vaults))
	for _, v := range b.vaults {
		out = append(out, vaultDTO{ID: v.ID, Name: v.Name, CreatedAt: v.CreatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *fakeBackend) createVault(w http.ResponseWriter, r *http.Request) {
	var in vaultDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" || in.Salt == "" || in.EncryptedVaultKey == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Missing required fields"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now().UTC()
	in.ID = b.id("vault")
	in.CreatedAt = &now
	if b.dropKDF {
		in.KDF = nil
	}
	b.vaults[in.ID] = in
	b.items[in.ID] = make(map[string]itemDTO)
	writeJSON(w, http.StatusCreated, in)
}

func (b *fakeBackend) getVault(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	v, ok := b.vaults[chi.URLParam(r, "vaultID")]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Vault not found"})
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (b *fakeBackend) deleteVault(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	vaultID := chi.URLParam(r, "vaultID")
	if _, ok := b.vaults[vaultID]; !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Vault not found"})
		return
	}
	delete(b.vaults, vaultID)
	delete(b.items, vaultID)
	w.WriteHeader(http.StatusNoContent)
}

func (b *fakeBackend) listItems(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items, ok := b.items[chi.URLParam(r, "vaultID")]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Vault not found"})
		return
	}
	out := make([]itemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, it)
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *fakeBackend) createItem(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	body := new(bytes.Buffer)
	_, _ = body.ReadFrom(r.Body)
	_ = json.Unmarshal(body.Bytes(), &raw)

	var in itemDTO
	if err := json.Unmarshal(body.Bytes(), &in); err != nil || in.EncryptedLabel == nil || in.EncryptedPassword == nil || in.Nonce == "" || in.Tag == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Missing required encrypted fields"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	vaultID := chi.URLParam(r, "vaultID")
	items, ok := b.items[vaultID]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Vault not found"})
		return
	}

	b.lastItemCreate = raw
	now := time.Now().UTC()
	in.ID = b.id("item")
	in.VaultID = vaultID
	in.DateCreated, in.DateModified = &now, &now
	items[in.ID] = in
	writeJSON(w, http.StatusCreated, in)
}

func (b *fakeBackend) patchItem(w http.ResponseWriter, r *http.Request) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad body"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	items, ok := b.items[chi.URLParam(r, "vaultID")]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Vault not found"})
		return
	}
	it, ok := items[chi.URLParam(r, "itemID")]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Item not found"})
		return
	}

	set := func(key string, dst **string) {
		if v, ok := fields[key]; ok {
			var s *string
			_ = json.Unmarshal(v, &s)
			*dst = s
		}
	}
	set("encrypted_label", &it.EncryptedLabel)
	set("encrypted_website", &it.EncryptedWebsite)
	set("encrypted_username", &it.EncryptedUsername)
	set("encrypted_password", &it.EncryptedPassword)
	items[it.ID] = it
	writeJSON(w, http.StatusOK, it)
}

func (b *fakeBackend) deleteItem(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items, ok := b.items[chi.URLParam(r, "vaultID")]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Vault not found"})
		return
	}
	itemID := chi.URLParam(r, "itemID")
	if _, ok = items[itemID]; !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Item not found"})
		return
	}
	delete(items, itemID)
	w.WriteHeader(http.StatusNoContent)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func newTestStore(t *testing.T, serverURL, token string) store.VaultStore {
	t.Helper()
	s, err := NewHTTPVaultStore(config.ClientAdapter{
		Address:        serverURL,
		Token:          token,
		RequestTimeout: 5 * time.Second,
	}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func startBackend(t *testing.T) (*fakeBackend, store.VaultStore) {
	t.Helper()
	b := newFakeBackend()
	srv := httptest.NewServer(b.router())
	t.Cleanup(srv.Close)
	return b, newTestStore(t, srv.URL, testToken)
}

func env(b byte) crypto.Envelope {
	return crypto.Envelope{
		IV:         bytes.Repeat([]byte{b}, crypto.IVSize),
		Ciphertext: bytes.Repeat([]byte{b + 1}, 24),
	}
}

func envPtr(b byte) *crypto.Envelope {
	e := env(b)
	return &e
}

func testVault() models.NewVault {
	return models.NewVault{
		Name:              "personal",
		Salt:              bytes.Repeat([]byte{0x07}, crypto.SaltSize),
		EncryptedVaultKey: env(0x10),
		KDF:               crypto.DefaultKDFParams(),
	}
}

// ── vaults ───────────────────────────────────────────────────────────────────

func TestHTTPVaultStore_CreateAndFetchVault(t *testing.T) {
	_, s := startBackend(t)
	ctx := context.Background()

	want := testVault()
	id, err := s.CreateVaultRecord(ctx, want)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.FetchVaultRecord(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Salt, got.Salt)
	assert.True(t, want.EncryptedVaultKey.Equal(got.EncryptedVaultKey))
	assert.Equal(t, want.KDF, got.KDF)
	assert.NotNil(t, got.CreatedAt)

	list, err := s.ListVaults(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, "personal", list[0].Name)
}

func TestHTTPVaultStore_FetchVault_NotFound(t *testing.T) {
	_, s := startBackend(t)

	_, err := s.FetchVaultRecord(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrVaultNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPVaultStore_FetchVault_MalformedKey(t *testing.T) {
	b, s := startBackend(t)
	b.vaults["v1"] = vaultDTO{ID: "v1", Name: "x", Salt: "AAAA", EncryptedVaultKey: `{"iv_b64":"bad"}`}

	_, err := s.FetchVaultRecord(context.Background(), "v1")
	assert.ErrorIs(t, err, crypto.ErrInvalidEnvelope)
}

func TestHTTPVaultStore_FetchVault_LegacyRecordWithoutKDF(t *testing.T) {
	b, s := startBackend(t)
	b.vaults["v1"] = vaultDTO{
		ID:                "v1",
		Name:              "legacy",
		Salt:              "AAAAAAAAAAAAAAAAAAAAAA==",
		EncryptedVaultKey: env(0x01).String(),
	}

	got, err := s.FetchVaultRecord(context.Background(), "v1")
	require.NoError(t, err)
	assert.Zero(t, got.KDF)
	assert.Len(t, got.Salt, crypto.SaltSize)
}

func TestHTTPVaultStore_CreateVault_KDFDroppedByServer(t *testing.T) {
	b, s := startBackend(t)
	b.dropKDF = true
	ctx := context.Background()

	v := testVault()
	v.KDF = crypto.KDFParams{Algorithm: crypto.AlgorithmArgon2id, Iterations: 3, MemoryKiB: 64 * 1024, Threads: 4}

	_, err := s.CreateVaultRecord(ctx, v)
	assert.ErrorIs(t, err, ErrKDFNotStored)

	list, err := s.ListVaults(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, b.items)
}

func TestHTTPVaultStore_CreateVault_DefaultKDFDroppedByServer(t *testing.T) {
	b, s := startBackend(t)
	b.dropKDF = true
	ctx := context.Background()

	id, err := s.CreateVaultRecord(ctx, testVault())
	require.NoError(t, err)

	got, err := s.FetchVaultRecord(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, crypto.DefaultKDFParams(), got.KDF.Normalize())
}

func TestHTTPVaultStore_DeleteVault(t *testing.T) {
	b, s := startBackend(t)
	ctx := context.Background()

	id, err := s.CreateVaultRecord(ctx, testVault())
	require.NoError(t, err)
	_, err = s.CreateItemRecord(ctx, id, models.ItemEnvelopes{Label: env(1), Password: env(2)})
	require.NoError(t, err)

	require.NoError(t, s.DeleteVaultRecord(ctx, id))
	assert.NotContains(t, b.vaults, id)
	assert.NotContains(t, b.items, id)

	err = s.DeleteVaultRecord(ctx, id)
	assert.ErrorIs(t, err, store.ErrVaultNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPVaultStore_Unauthorized(t *testing.T) {
	b := newFakeBackend()
	srv := httptest.NewServer(b.router())
	defer srv.Close()

	s := newTestStore(t, srv.URL, "wrong")
	_, err := s.ListVaults(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "Invalid token")
}

// ── items ────────────────────────────────────────────────────────────────────

func TestHTTPVaultStore_ItemLifecycle(t *testing.T) {
	b, s := startBackend(t)
	ctx := context.Background()

	vaultID, err := s.CreateVaultRecord(ctx, testVault())
	require.NoError(t, err)

	envelopes := models.ItemEnvelopes{
		Label:    env(0x20),
		Website:  envPtr(0x30),
		Password: env(0x40),
	}
	itemID, err := s.CreateItemRecord(ctx, vaultID, envelopes)
	require.NoError(t, err)

	// legacy columns are filled and the absent username is an explicit null
	assert.Equal(t, legacyItemType, b.lastItemCreate["item_type"])
	assert.Equal(t, legacyNonce, b.lastItemCreate["nonce"])
	assert.Equal(t, legacyTag, b.lastItemCreate["tag"])
	username, present := b.lastItemCreate["encrypted_username"]
	assert.True(t, present)
	assert.Nil(t, username)

	items, err := s.FetchItems(ctx, vaultID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, itemID, items[0].ID)
	assert.Equal(t, vaultID, items[0].VaultID)
	assert.True(t, envelopes.Label.Equal(items[0].Label))
	require.NotNil(t, items[0].Website)
	assert.True(t, envelopes.Website.Equal(*items[0].Website))
	assert.Nil(t, items[0].Username)
	assert.True(t, envelopes.Password.Equal(items[0].Password))

	// password kept, website cleared, username set
	err = s.UpdateItemRecord(ctx, vaultID, itemID, models.ItemEnvelopesPatch{
		Label:    env(0x21),
		Username: envPtr(0x51),
	})
	require.NoError(t, err)

	items, err = s.FetchItems(ctx, vaultID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, env(0x21).Equal(items[0].Label))
	assert.Nil(t, items[0].Website)
	require.NotNil(t, items[0].Username)
	assert.True(t, env(0x51).Equal(*items[0].Username))
	assert.True(t, envelopes.Password.Equal(items[0].Password))

	require.NoError(t, s.DeleteItemRecord(ctx, vaultID, itemID))

	items, err = s.FetchItems(ctx, vaultID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestHTTPVaultStore_ItemNotFound(t *testing.T) {
	_, s := startBackend(t)
	ctx := context.Background()

	vaultID, err := s.CreateVaultRecord(ctx, testVault())
	require.NoError(t, err)

	err = s.DeleteItemRecord(ctx, vaultID, "nope")
	assert.ErrorIs(t, err, store.ErrItemNotFound)

	err = s.UpdateItemRecord(ctx, vaultID, "nope", models.ItemEnvelopesPatch{Label: env(0x01)})
	assert.ErrorIs(t, err, store.ErrItemNotFound)

	err = s.DeleteItemRecord(ctx, "no-vault", "nope")
	assert.ErrorIs(t, err, store.ErrVaultNotFound)

	_, err = s.CreateItemRecord(ctx, "no-vault", models.ItemEnvelopes{Label: env(1), Password: env(2)})
	assert.ErrorIs(t, err, store.ErrVaultNotFound)
}

func TestHTTPVaultStore_FetchItems_Malformed(t *testing.T) {
	b, s := startBackend(t)
	ctx := context.Background()

	vaultID, err := s.CreateVaultRecord(ctx, testVault())
	require.NoError(t, err)

	bad := "not-an-envelope"
	label := env(0x01).String()
	b.items[vaultID]["i1"] = itemDTO{ID: "i1", EncryptedLabel: &label, EncryptedPassword: &bad}

	_, err = s.FetchItems(ctx, vaultID)
	assert.ErrorIs(t, err, crypto.ErrInvalidEnvelope)
}

// ── construction and error mapping ───────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "localhost:8080", want: "http://localhost:8080"},
		{in: " https://vault.example/ ", want: "https://vault.example"},
		{in: "http://127.0.0.1:9000/base/", want: "http://127.0.0.1:9000/base"},
		{in: "", wantErr: true},
		{in: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewHTTPVaultStore_EmptyAddress(t *testing.T) {
	_, err := NewHTTPVaultStore(config.ClientAdapter{}, logger.Nop())
	assert.Error(t, err)
}

func TestMapHTTPError(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusInternalServerError, ErrInternalServerError},
		{http.StatusBadGateway, ErrBadGateway},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"boom"}`))
			}))
			defer srv.Close()

			s := newTestStore(t, srv.URL, testToken)
			_, err := s.ListVaults(context.Background())
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "boom")
		})
	}
}

func TestMapHTTPError_UnknownStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL, testToken)
	_, err := s.ListVaults(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 418")
}

func TestCreateVault_MissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]string{})
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL, testToken)
	_, err := s.CreateVaultRecord(context.Background(), testVault())
	assert.ErrorIs(t, err, ErrMissingID)
}
