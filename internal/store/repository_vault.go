package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/models"
)

// vaultRepository is the SQLite-backed implementation of [VaultStore]. Vault
// records live in the "vaults" table and their items in "vault_items".
// Envelopes are stored in their text form, the salt as base64 and the KDF
// descriptor as JSON.
type vaultRepository struct {
	db     *DB
	ids    IDGenerator
	now    func() time.Time
	logger *logger.Logger
}

// NewSQLiteVaultStore constructs a [VaultStore] over an already migrated
// database connection.
func NewSQLiteVaultStore(db *DB, ids IDGenerator, log *logger.Logger) VaultStore {
	log.Debug().Msg("creating sqlite vault store")
	return &vaultRepository{
		db:     db,
		ids:    ids,
		now:    func() time.Time { return time.Now().UTC() },
		logger: log,
	}
}

func (r *vaultRepository) CreateVaultRecord(ctx context.Context, vault models.NewVault) (string, error) {
	log := logger.FromContext(ctx)

	vaultID := r.ids.Generate()
	query, args, err := buildInsertVaultQuery(vaultID, vault, r.now())
	if err != nil {
		log.Err(err).Str("func", "vaultRepository.CreateVaultRecord").Msg("failed to create query")
		return "", err
	}

	res, err := r.db.execWrite(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "vaultRepository.CreateVaultRecord").
			Str("vault_id", vaultID).
			Msg("failed to insert vault record")
		return "", fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return "", ErrVaultNotSaved
	}

	return vaultID, nil
}

func (r *vaultRepository) FetchVaultRecord(ctx context.Context, vaultID string) (models.VaultRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectVaultQuery(vaultID)
	if err != nil {
		log.Err(err).Str("func", "vaultRepository.FetchVaultRecord").Msg("failed to create query")
		return models.VaultRecord{}, err
	}

	var (
		record    models.VaultRecord
		salt      string
		wrapped   string
		kdf       string
		createdAt time.Time
	)
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&record.ID, &record.Name, &salt, &wrapped, &kdf, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VaultRecord{}, ErrVaultNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "vaultRepository.FetchVaultRecord").
			Str("vault_id", vaultID).
			Msg("failed to scan vault row")
		return models.VaultRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if record.Salt, err = decodeSalt(salt); err != nil {
		return models.VaultRecord{}, err
	}
	if record.EncryptedVaultKey, err = crypto.ParseEnvelope(wrapped); err != nil {
		return models.VaultRecord{}, fmt.Errorf("vault %s: %w", vaultID, err)
	}
	if record.KDF, err = decodeKDF(kdf); err != nil {
		return models.VaultRecord{}, err
	}
	record.CreatedAt = &createdAt

	return record, nil
}

func (r *vaultRepository) ListVaults(ctx context.Context) ([]models.VaultSummary, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListVaultsQuery()
	if err != nil {
		log.Err(err).Str("func", "vaultRepository.ListVaults").Msg("failed to create query")
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "vaultRepository.ListVaults").Msg("failed to list vaults")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	vaults := make([]models.VaultSummary, 0)
	for rows.Next() {
		var (
			v         models.VaultSummary
			createdAt time.Time
		)
		if err = rows.Scan(&v.ID, &v.Name, &createdAt); err != nil {
			log.Err(err).Str("func", "vaultRepository.ListVaults").Msg("failed to scan vault row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		v.CreatedAt = &createdAt
		vaults = append(vaults, v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return vaults, nil
}

// DeleteVaultRecord deletes the vault row. Its items go with it through the
// ON DELETE CASCADE foreign key.
func (r *vaultRepository) DeleteVaultRecord(ctx context.Context, vaultID string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteVaultQuery(vaultID)
	if err != nil {
		log.Err(err).Str("func", "vaultRepository.DeleteVaultRecord").Msg("failed to create query")
		return err
	}

	res, err := r.db.execWrite(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "vaultRepository.DeleteVaultRecord").
			Str("vault_id", vaultID).
			Msg("failed to delete vault record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return requireAffected(res, ErrVaultNotFound)
}

func (r *vaultRepository) CreateItemRecord(ctx context.Context, vaultID string, envelopes models.ItemEnvelopes) (string, error) {
	log := logger.FromContext(ctx)

	if err := r.vaultExists(ctx, vaultID); err != nil {
		return "", err
	}

	itemID := r.ids.Generate()
	query, args, err := buildInsertItemQuery(itemID, vaultID, envelopes, r.now())
	if err != nil {
		log.Err(err).Str("func", "vaultRepository.CreateItemRecord").Msg("failed to create query")
		return "", err
	}

	if _, err = r.db.execWrite(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "vaultRepository.CreateItemRecord").
			Str("vault_id", vaultID).
			Str("item_id", itemID).
			Msg("failed to insert item record")
		return "", fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return itemID, nil
}

func (r *vaultRepository) FetchItems(ctx context.Context, vaultID string) ([]models.ItemRecord, error) {
	log := logger.FromContext(ctx)

	if err := r.vaultExists(ctx, vaultID); err != nil {
		return nil, err
	}

	query, args, err := buildSelectItemsQuery(vaultID)
	if err != nil {
		log.Err(err).Str("func", "vaultRepository.FetchItems").Msg("failed to create query")
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "vaultRepository.FetchItems").
			Str("vault_id", vaultID).
			Msg("failed to query items")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	items := make([]models.ItemRecord, 0)
	for rows.Next() {
		item, scanErr := scanItem(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "vaultRepository.FetchItems").
				Str("vault_id", vaultID).
				Msg("failed to scan item row")
			return nil, scanErr
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return items, nil
}

func (r *vaultRepository) UpdateItemRecord(ctx context.Context, vaultID, itemID string, patch models.ItemEnvelopesPatch) error {
	log := logger.FromContext(ctx)

	if err := r.vaultExists(ctx, vaultID); err != nil {
		return err
	}

	query, args, err := buildUpdateItemQuery(vaultID, itemID, patch, r.now())
	if err != nil {
		log.Err(err).Str("func", "vaultRepository.UpdateItemRecord").Msg("failed to create query")
		return err
	}

	res, err := r.db.execWrite(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "vaultRepository.UpdateItemRecord").
			Str("vault_id", vaultID).
			Str("item_id", itemID).
			Msg("failed to update item record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return requireAffected(res, ErrItemNotFound)
}

func (r *vaultRepository) DeleteItemRecord(ctx context.Context, vaultID, itemID string) error {
	log := logger.FromContext(ctx)

	if err := r.vaultExists(ctx, vaultID); err != nil {
		return err
	}

	query, args, err := buildDeleteItemQuery(vaultID, itemID)
	if err != nil {
		log.Err(err).Str("func", "vaultRepository.DeleteItemRecord").Msg("failed to create query")
		return err
	}

	res, err := r.db.execWrite(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "vaultRepository.DeleteItemRecord").
			Str("vault_id", vaultID).
			Str("item_id", itemID).
			Msg("failed to delete item record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return requireAffected(res, ErrItemNotFound)
}

func (r *vaultRepository) Close() error {
	return r.db.Close()
}

func (r *vaultRepository) vaultExists(ctx context.Context, vaultID string) error {
	query, args, err := buildVaultExistsQuery(vaultID)
	if err != nil {
		return err
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrVaultNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func scanItem(rows *sql.Rows) (models.ItemRecord, error) {
	var (
		item                 models.ItemRecord
		label, password      string
		website, username    sql.NullString
		createdAt, updatedAt time.Time
	)
	if err := rows.Scan(&item.ID, &item.VaultID, &label, &website, &username, &password, &createdAt, &updatedAt); err != nil {
		return models.ItemRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	var err error
	if item.Label, err = crypto.ParseEnvelope(label); err != nil {
		return models.ItemRecord{}, fmt.Errorf("item %s label: %w", item.ID, err)
	}
	if item.Website, err = parseNullEnvelope(website); err != nil {
		return models.ItemRecord{}, fmt.Errorf("item %s website: %w", item.ID, err)
	}
	if item.Username, err = parseNullEnvelope(username); err != nil {
		return models.ItemRecord{}, fmt.Errorf("item %s username: %w", item.ID, err)
	}
	if item.Password, err = crypto.ParseEnvelope(password); err != nil {
		return models.ItemRecord{}, fmt.Errorf("item %s password: %w", item.ID, err)
	}
	item.CreatedAt = &createdAt
	item.UpdatedAt = &updatedAt

	return item, nil
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
