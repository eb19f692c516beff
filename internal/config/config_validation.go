// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
)

// Lower bounds on the configured key derivation cost for new vaults.
const (
	MinPBKDF2Iterations = 100000
	MinArgon2MemoryKiB  = 19 * 1024
)

func (cfg *ClientConfig) validate() error {
	if cfg.App.IdleTimeout <= 0 {
		return fmt.Errorf("%w: idle timeout must be positive", ErrInvalidAppConfigs)
	}

	if _, err := crypto.NewKeyDeriver(cfg.App.KDF); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAppConfigs, err)
	}
	kdf := cfg.App.KDF.Normalize()
	switch {
	case kdf.Algorithm == crypto.AlgorithmPBKDF2SHA256 && kdf.Iterations < MinPBKDF2Iterations:
		return fmt.Errorf("%w: pbkdf2 iterations below %d", ErrInvalidAppConfigs, MinPBKDF2Iterations)
	case kdf.Algorithm == crypto.AlgorithmArgon2id && kdf.MemoryKiB < MinArgon2MemoryKiB:
		return fmt.Errorf("%w: argon2id memory below %d KiB", ErrInvalidAppConfigs, MinArgon2MemoryKiB)
	}

	switch cfg.Storage.Backend {
	case BackendSQLite:
		if cfg.Storage.DB.DSN == "" {
			return fmt.Errorf("%w: empty sqlite dsn", ErrInvalidStorageConfigs)
		}
	case BackendFile:
		if cfg.Storage.Files.Path == "" {
			return fmt.Errorf("%w: empty file store path", ErrInvalidStorageConfigs)
		}
	case BackendRemote:
		if cfg.Adapter.Address == "" || cfg.Adapter.RequestTimeout <= 0 {
			return ErrInvalidAdapterConfigs
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidStorageConfigs, cfg.Storage.Backend)
	}

	return nil
}
