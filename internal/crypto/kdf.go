// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// Supported key derivation algorithms.
const (
	AlgorithmPBKDF2SHA256 = "pbkdf2-sha256"
	AlgorithmArgon2id     = "argon2id"
)

// DefaultIterations is the PBKDF2-HMAC-SHA-256 work factor for new vaults and
// for records that carry no KDF descriptor.
const DefaultIterations = 600000

// Argon2id defaults (OWASP 2024): 1 pass, 64 MiB, 4 lanes.
const (
	DefaultArgon2Time    = 1
	DefaultArgon2Memory  = 64 * 1024
	DefaultArgon2Threads = 4
)

// Upper cost bounds. Descriptors come from vault records, so a hostile or
// corrupt record must not be able to stall an unlock or exhaust memory.
const (
	MaxPBKDF2Iterations = 10_000_000
	MaxArgon2Time       = 10
	MaxArgon2MemoryKiB  = 1 << 20 // 1 GiB
	MaxArgon2Threads    = 16
)

// KDFParams describes how a derived key was produced. It is public and is
// stored on the vault record next to the salt.
type KDFParams struct {
	Algorithm  string `json:"algorithm"`
	Iterations int    `json:"iterations"`
	MemoryKiB  uint32 `json:"memory_kib,omitempty"`
	Threads    uint8  `json:"threads,omitempty"`
}

// DefaultKDFParams returns the PBKDF2-SHA-256 descriptor with
// DefaultIterations.
func DefaultKDFParams() KDFParams {
	return KDFParams{Algorithm: AlgorithmPBKDF2SHA256, Iterations: DefaultIterations}
}

// DefaultArgon2idParams returns the Argon2id descriptor with the OWASP
// defaults.
func DefaultArgon2idParams() KDFParams {
	return KDFParams{
		Algorithm:  AlgorithmArgon2id,
		Iterations: DefaultArgon2Time,
		MemoryKiB:  DefaultArgon2Memory,
		Threads:    DefaultArgon2Threads,
	}
}

// Normalize fills an empty descriptor with DefaultKDFParams. Vault records
// written before descriptors existed have none.
func (p KDFParams) Normalize() KDFParams {
	if p.Algorithm == "" && p.Iterations == 0 {
		return DefaultKDFParams()
	}
	return p
}

// DeriveKey derives a KeySize key from password and salt with
// PBKDF2-HMAC-SHA-256. It is pure and deterministic. The password content is
// never validated; only the salt length and the iteration count are.
func DeriveKey(password string, salt []byte, iterations int) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrInvalidInput, SaltSize, len(salt))
	}
	if iterations < 1 {
		return nil, fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidInput, iterations)
	}

	pw := []byte(password)
	defer Wipe(pw)

	return pbkdf2.Key(pw, salt, iterations, KeySize, sha256.New), nil
}

// NewKeyDeriver returns the [KeyDeriver] described by params. An empty
// descriptor selects DefaultKDFParams. Unknown algorithms and cost values
// outside (0, Max*] give ErrInvalidInput.
func NewKeyDeriver(params KDFParams) (KeyDeriver, error) {
	params = params.Normalize()

	switch params.Algorithm {
	case AlgorithmPBKDF2SHA256:
		if params.Iterations < 1 {
			return nil, fmt.Errorf("%w: pbkdf2 iterations must be positive", ErrInvalidInput)
		}
		if params.Iterations > MaxPBKDF2Iterations {
			return nil, fmt.Errorf("%w: pbkdf2 iterations %d exceed %d", ErrInvalidInput, params.Iterations, MaxPBKDF2Iterations)
		}
		return &pbkdf2Deriver{iterations: params.Iterations}, nil
	case AlgorithmArgon2id:
		if params.Iterations < 1 || params.MemoryKiB == 0 || params.Threads == 0 {
			return nil, fmt.Errorf("%w: argon2id time, memory and threads must be positive", ErrInvalidInput)
		}
		if params.Iterations > MaxArgon2Time || params.MemoryKiB > MaxArgon2MemoryKiB || params.Threads > MaxArgon2Threads {
			return nil, fmt.Errorf("%w: argon2id cost above limits (time %d, memory %d KiB, threads %d)",
				ErrInvalidInput, MaxArgon2Time, MaxArgon2MemoryKiB, MaxArgon2Threads)
		}
		return &argon2idDeriver{
			time:    uint32(params.Iterations),
			memory:  params.MemoryKiB,
			threads: params.Threads,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown kdf algorithm %q", ErrInvalidInput, params.Algorithm)
	}
}

type pbkdf2Deriver struct {
	iterations int
}

// DeriveKey implements [KeyDeriver].
func (d *pbkdf2Deriver) DeriveKey(password string, salt []byte) ([]byte, error) {
	return DeriveKey(password, salt, d.iterations)
}

// Params implements [KeyDeriver].
func (d *pbkdf2Deriver) Params() KDFParams {
	return KDFParams{Algorithm: AlgorithmPBKDF2SHA256, Iterations: d.iterations}
}

// argon2idDeriver is the memory-hard alternative. Its parameters are stored
// in the struct so they can be tuned per device class.
type argon2idDeriver struct {
	time    uint32
	memory  uint32
	threads uint8
}

// DeriveKey implements [KeyDeriver].
func (d *argon2idDeriver) DeriveKey(password string, salt []byte) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrInvalidInput, SaltSize, len(salt))
	}

	pw := []byte(password)
	defer Wipe(pw)

	return argon2.IDKey(pw, salt, d.time, d.memory, d.threads, KeySize), nil
}

// Params implements [KeyDeriver].
func (d *argon2idDeriver) Params() KDFParams {
	return KDFParams{
		Algorithm:  AlgorithmArgon2id,
		Iterations: int(d.time),
		MemoryKiB:  d.memory,
		Threads:    d.threads,
	}
}
