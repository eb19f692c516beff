package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-zk-vault/internal/config"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/utils"
)

// NewVaultStore initialises the local storage backend selected by
// cfg.Backend:
//   - "sqlite" opens (or creates) the database at cfg.DB.DSN and runs the
//     pending schema migrations;
//   - "file" opens the JSON file store at cfg.Files.Path.
//
// The "remote" backend lives in the adapter package; asking for it here
// gives ErrUnknownBackend.
func NewVaultStore(ctx context.Context, cfg config.ClientStorage, log *logger.Logger) (VaultStore, error) {
	log.Info().Str("backend", cfg.Backend).Msg("creating vault store...")

	ids := utils.NewUUIDGenerator()

	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := NewConnectSQLite(ctx, cfg.DB.DSN, log)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}

		if err = db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}

		return NewSQLiteVaultStore(db, ids, log), nil
	case config.BackendFile:
		return NewLocalStorage(cfg.Files.Path, ids)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
