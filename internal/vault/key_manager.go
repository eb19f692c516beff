// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
)

// State is the lifecycle state of a KeyManager.
type State int

const (
	// Locked means no vault key is resident. It is the initial state.
	Locked State = iota
	// Unlocked means exactly one vault key is resident.
	Unlocked
)

// String implements [fmt.Stringer].
func (s State) String() string {
	switch s {
	case Locked:
		return "locked"
	case Unlocked:
		return "unlocked"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Header is the public part of a vault needed to unlock it: the KDF
// descriptor, the salt and the wrapped vault key.
type Header struct {
	KDF        crypto.KDFParams
	Salt       []byte
	WrappedKey crypto.Envelope
}

// KeyManager holds the vault key of the currently open vault.
// All methods are safe for concurrent use.
type KeyManager struct {
	gen   crypto.SecretGenerator
	codec crypto.EnvelopeCodec
	kdf   crypto.KDFParams
	log   *logger.Logger

	legacyWrap bool

	mu        sync.Mutex
	resident  *residentKey
	observers []func(State)
}

// Option configures a KeyManager.
type Option func(*KeyManager)

// WithLegacyKeyWrap makes CreateVault wrap the base64 text of the vault key
// instead of its raw bytes. The browser client of the vault server can only
// open keys in that form. Unlock accepts both forms regardless.
func WithLegacyKeyWrap(on bool) Option {
	return func(m *KeyManager) {
		m.legacyWrap = on
	}
}

// NewKeyManager returns a Locked manager. New vaults are created with kdf;
// existing vaults are opened with the descriptor stored in their Header.
func NewKeyManager(gen crypto.SecretGenerator, codec crypto.EnvelopeCodec, kdf crypto.KDFParams, log *logger.Logger, opts ...Option) *KeyManager {
	m := &KeyManager{
		gen:   gen,
		codec: codec,
		kdf:   kdf.Normalize(),
		log:   log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateVault generates a fresh vault key and salt, wraps the key under the
// key derived from password and makes it resident. A previously resident key
// is retired first. The returned Header must be persisted by the caller.
func (m *KeyManager) CreateVault(password string) (Header, error) {
	deriver, err := crypto.NewKeyDeriver(m.kdf)
	if err != nil {
		return Header{}, fmt.Errorf("key deriver: %w", err)
	}

	salt, err := m.gen.GenerateSalt()
	if err != nil {
		return Header{}, fmt.Errorf("generate salt: %w", err)
	}

	vaultKey, err := m.gen.GenerateVaultKey()
	if err != nil {
		return Header{}, fmt.Errorf("generate vault key: %w", err)
	}

	derived, err := deriver.DeriveKey(password, salt)
	if err != nil {
		vaultKey.Destroy()
		return Header{}, fmt.Errorf("derive key: %w", err)
	}
	plain := vaultKey.Bytes()
	if m.legacyWrap {
		plain = []byte(base64.StdEncoding.EncodeToString(plain))
		defer crypto.Wipe(plain)
	}
	wrapped, err := m.codec.Seal(plain, derived)
	crypto.Wipe(derived)
	if err != nil {
		vaultKey.Destroy()
		return Header{}, fmt.Errorf("wrap vault key: %w", err)
	}

	m.install(vaultKey)

	m.log.Info().Str("kdf", deriver.Params().Algorithm).Bool("legacy_wrap", m.legacyWrap).Msg("vault created")
	return Header{KDF: deriver.Params(), Salt: salt, WrappedKey: wrapped}, nil
}

// Unlock derives the wrapping key from password and h, unwraps the vault key
// and makes it resident.
//
// Any resident key is dropped before anything else, so on failure the
// manager is always Locked. A wrong password and a tampered wrapped key both
// give ErrUnlockFailed. A structurally malformed header gives
// crypto.ErrInvalidEnvelope.
func (m *KeyManager) Unlock(password string, h Header) error {
	m.Lock()

	if len(h.Salt) != crypto.SaltSize {
		return fmt.Errorf("%w: salt must be %d bytes, got %d", crypto.ErrInvalidEnvelope, crypto.SaltSize, len(h.Salt))
	}
	if err := h.WrappedKey.Validate(); err != nil {
		return err
	}
	deriver, err := crypto.NewKeyDeriver(h.KDF)
	if err != nil {
		return fmt.Errorf("%w: %v", crypto.ErrInvalidEnvelope, err)
	}

	derived, err := deriver.DeriveKey(password, h.Salt)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}
	plain, err := m.codec.Open(h.WrappedKey, derived)
	crypto.Wipe(derived)
	if err != nil {
		if errors.Is(err, crypto.ErrDecryptionFailed) {
			m.log.Warn().Msg("unlock rejected")
			return ErrUnlockFailed
		}
		return err
	}

	vaultKey, err := unwrapVaultKey(plain)
	if err != nil {
		m.log.Warn().Msg("unlock rejected: unexpected vault key length")
		return ErrUnlockFailed
	}

	m.install(vaultKey)

	m.log.Info().Msg("vault unlocked")
	return nil
}

// Lock drops the resident vault key and moves to Locked. It is idempotent.
// The key buffer is wiped as soon as no lease holds it.
func (m *KeyManager) Lock() {
	m.mu.Lock()
	r := m.resident
	m.resident = nil
	observers := m.observers
	m.mu.Unlock()

	if r == nil {
		return
	}
	r.retire()

	m.log.Info().Msg("vault locked")
	notify(observers, Locked)
}

// State reports the current lifecycle state.
func (m *KeyManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resident == nil {
		return Locked
	}
	return Unlocked
}

// Acquire leases the resident vault key. The lease keeps the key bytes valid
// until Release, even if Lock runs in the meantime. Returns ErrVaultLocked
// when no key is resident.
func (m *KeyManager) Acquire() (*KeyLease, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resident == nil {
		return nil, ErrVaultLocked
	}
	m.resident.acquire()
	return &KeyLease{resident: m.resident}, nil
}

// OnStateChange registers fn to be called after every transition. fn runs on
// the goroutine that caused the transition and must not block.
func (m *KeyManager) OnStateChange(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.observers = append(m.observers, fn)
}

func (m *KeyManager) install(key *crypto.SecretKey) {
	m.mu.Lock()
	old := m.resident
	m.resident = &residentKey{key: key}
	observers := m.observers
	m.mu.Unlock()

	if old != nil {
		old.retire()
	}
	notify(observers, Unlocked)
}

func notify(observers []func(State), s State) {
	for _, fn := range observers {
		fn(s)
	}
}

// unwrapVaultKey turns the opened wrapped-key plaintext into a SecretKey.
// Vaults created by the web client store the base64 text of the key rather
// than the raw bytes; both forms are accepted. plain is wiped.
func unwrapVaultKey(plain []byte) (*crypto.SecretKey, error) {
	if len(plain) == crypto.KeySize {
		return crypto.NewSecretKey(plain)
	}

	defer crypto.Wipe(plain)
	if len(plain) != base64.StdEncoding.EncodedLen(crypto.KeySize) {
		return nil, crypto.ErrInvalidInput
	}
	raw := make([]byte, crypto.KeySize+2)
	n, err := base64.StdEncoding.Decode(raw, plain)
	if err != nil || n != crypto.KeySize {
		crypto.Wipe(raw)
		return nil, crypto.ErrInvalidInput
	}
	return crypto.NewSecretKey(raw[:n])
}

// residentKey reference-counts a vault key so that Lock never wipes bytes
// that an in-flight operation is still reading.
type residentKey struct {
	mu      sync.Mutex
	key     *crypto.SecretKey
	leases  int
	retired bool
}

func (r *residentKey) acquire() {
	r.mu.Lock()
	r.leases++
	r.mu.Unlock()
}

func (r *residentKey) release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leases--
	if r.retired && r.leases == 0 {
		r.key.Destroy()
	}
}

func (r *residentKey) retire() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.retired = true
	if r.leases == 0 {
		r.key.Destroy()
	}
}

// KeyLease is a borrowed reference to the resident vault key.
type KeyLease struct {
	resident *residentKey
	once     sync.Once
}

// Bytes returns the vault key. The slice must not be retained past Release.
func (l *KeyLease) Bytes() []byte {
	return l.resident.key.Bytes()
}

// Release returns the lease. Calling it more than once is a no-op.
func (l *KeyLease) Release() {
	l.once.Do(l.resident.release)
}
