package store

import (
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/models"
)

const (
	vaultsTable = "vaults"
	itemsTable  = "vault_items"
)

var (
	vaultColumns = []string{
		"vault_id",
		"vault_name",
		"salt",
		"encrypted_vault_key",
		"kdf",
		"created_at",
	}

	itemColumns = []string{
		"item_id",
		"vault_id",
		"encrypted_label",
		"encrypted_website",
		"encrypted_username",
		"encrypted_password",
		"created_at",
		"updated_at",
	}
)

// sqlite placeholders
var sqlBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func buildInsertVaultQuery(vaultID string, vault models.NewVault, now time.Time) (string, []any, error) {
	kdf, err := encodeKDF(vault.KDF)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	query, args, err := sqlBuilder.
		Insert(vaultsTable).
		Columns(vaultColumns...).
		Values(
			vaultID,
			vault.Name,
			base64.StdEncoding.EncodeToString(vault.Salt),
			vault.EncryptedVaultKey.String(),
			kdf,
			now,
		).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

func buildSelectVaultQuery(vaultID string) (string, []any, error) {
	query, args, err := sqlBuilder.
		Select(vaultColumns...).
		From(vaultsTable).
		Where(sq.Eq{"vault_id": vaultID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

func buildListVaultsQuery() (string, []any, error) {
	query, args, err := sqlBuilder.
		Select("vault_id", "vault_name", "created_at").
		From(vaultsTable).
		OrderBy("created_at", "vault_id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

func buildVaultExistsQuery(vaultID string) (string, []any, error) {
	query, args, err := sqlBuilder.
		Select("1").
		From(vaultsTable).
		Where(sq.Eq{"vault_id": vaultID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

func buildDeleteVaultQuery(vaultID string) (string, []any, error) {
	query, args, err := sqlBuilder.
		Delete(vaultsTable).
		Where(sq.Eq{"vault_id": vaultID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

func buildInsertItemQuery(itemID, vaultID string, envelopes models.ItemEnvelopes, now time.Time) (string, []any, error) {
	query, args, err := sqlBuilder.
		Insert(itemsTable).
		Columns(itemColumns...).
		Values(
			itemID,
			vaultID,
			envelopes.Label.String(),
			nullEnvelope(envelopes.Website),
			nullEnvelope(envelopes.Username),
			envelopes.Password.String(),
			now,
			now,
		).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

func buildSelectItemsQuery(vaultID string) (string, []any, error) {
	query, args, err := sqlBuilder.
		Select(itemColumns...).
		From(itemsTable).
		Where(sq.Eq{"vault_id": vaultID}).
		OrderBy("created_at", "item_id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildUpdateItemQuery always rewrites label, website and username; the
// password column is only touched when the patch carries one.
func buildUpdateItemQuery(vaultID, itemID string, patch models.ItemEnvelopesPatch, now time.Time) (string, []any, error) {
	update := sqlBuilder.
		Update(itemsTable).
		Set("encrypted_label", patch.Label.String()).
		Set("encrypted_website", nullEnvelope(patch.Website)).
		Set("encrypted_username", nullEnvelope(patch.Username))

	if patch.Password != nil {
		update = update.Set("encrypted_password", patch.Password.String())
	}

	query, args, err := update.
		Set("updated_at", now).
		Where(sq.Eq{"vault_id": vaultID}).
		Where(sq.Eq{"item_id": itemID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

func buildDeleteItemQuery(vaultID, itemID string) (string, []any, error) {
	query, args, err := sqlBuilder.
		Delete(itemsTable).
		Where(sq.Eq{"vault_id": vaultID}).
		Where(sq.Eq{"item_id": itemID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

func nullEnvelope(e *crypto.Envelope) sql.NullString {
	if e == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: e.String(), Valid: true}
}

func parseNullEnvelope(s sql.NullString) (*crypto.Envelope, error) {
	if !s.Valid {
		return nil, nil
	}

	e, err := crypto.ParseEnvelope(s.String)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// encodeKDF stores a zero descriptor as an empty string so that records
// without one read back as zero.
func encodeKDF(p crypto.KDFParams) (string, error) {
	if p == (crypto.KDFParams{}) {
		return "", nil
	}

	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeKDF(s string) (crypto.KDFParams, error) {
	var p crypto.KDFParams
	if s == "" {
		return p, nil
	}

	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return crypto.KDFParams{}, fmt.Errorf("%w: kdf descriptor: %v", crypto.ErrInvalidEnvelope, err)
	}
	return p, nil
}

func decodeSalt(s string) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: salt: %v", crypto.ErrInvalidEnvelope, err)
	}
	return salt, nil
}
