package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/migrations"
)

// writeAttempts bounds how often a write hitting a locked database is tried.
const writeAttempts = 3

// DB is an open SQLite connection with the logger it was created with.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	applied, err := migrations.Migrate(ctx, db.DB)
	if err != nil {
		db.logger.Err(err).Str("func", "DB.Migrate").Msg("schema migration failed")
		return err
	}
	if len(applied) > 0 {
		db.logger.Info().Ints64("versions", applied).Msg("applied schema migrations")
	}
	return nil
}

// execWrite runs a write statement, retrying while the database reports lock
// contention. The wait doubles from 50ms between attempts.
func (db *DB) execWrite(ctx context.Context, query string, args ...any) (sql.Result, error) {
	wait := 50 * time.Millisecond

	for attempt := 1; ; attempt++ {
		res, err := db.ExecContext(ctx, query, args...)
		if err == nil || attempt == writeAttempts || db.errorClassificator == nil ||
			db.errorClassificator.Classify(err) != Retryable {
			return res, err
		}

		db.logger.Warn().Err(err).Int("attempt", attempt).Msg("database is locked, retrying write")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
}
