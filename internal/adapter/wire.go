package adapter

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/models"
)

// Legacy columns the server still requires on item creation. The IV and tag
// travel inside every envelope, so these hold fixed markers.
const (
	legacyItemType = "website"
	legacyNonce    = "iv-included-in-fields"
	legacyTag      = "tag-included-in-aes-gcm"
)

type vaultDTO struct {
	ID                string            `json:"vault_id,omitempty"`
	Name              string            `json:"vault_name"`
	Salt              string            `json:"salt,omitempty"`
	EncryptedVaultKey string            `json:"encrypted_vault_key,omitempty"`
	KDF               *crypto.KDFParams `json:"kdf,omitempty"`
	CreatedAt         *time.Time        `json:"created_at,omitempty"`
}

type itemDTO struct {
	ID                string     `json:"item_id,omitempty"`
	VaultID           string     `json:"vault_id,omitempty"`
	ItemType          string     `json:"item_type,omitempty"`
	EncryptedLabel    *string    `json:"encrypted_label"`
	EncryptedWebsite  *string    `json:"encrypted_website"`
	EncryptedUsername *string    `json:"encrypted_username"`
	EncryptedPassword *string    `json:"encrypted_password,omitempty"`
	Nonce             string     `json:"nonce,omitempty"`
	Tag               string     `json:"tag,omitempty"`
	DateCreated       *time.Time `json:"date_created,omitempty"`
	DateModified      *time.Time `json:"date_modified,omitempty"`
}

func newVaultDTO(v models.NewVault) vaultDTO {
	dto := vaultDTO{
		Name:              v.Name,
		Salt:              base64.StdEncoding.EncodeToString(v.Salt),
		EncryptedVaultKey: v.EncryptedVaultKey.String(),
	}
	if v.KDF != (crypto.KDFParams{}) {
		kdf := v.KDF
		dto.KDF = &kdf
	}
	return dto
}

func (d vaultDTO) record() (models.VaultRecord, error) {
	salt, err := base64.StdEncoding.DecodeString(d.Salt)
	if err != nil {
		return models.VaultRecord{}, fmt.Errorf("%w: salt: %v", crypto.ErrInvalidEnvelope, err)
	}
	key, err := crypto.ParseEnvelope(d.EncryptedVaultKey)
	if err != nil {
		return models.VaultRecord{}, fmt.Errorf("vault %s: %w", d.ID, err)
	}

	r := models.VaultRecord{
		ID: d.ID,
		NewVault: models.NewVault{
			Name:              d.Name,
			Salt:              salt,
			EncryptedVaultKey: key,
		},
		CreatedAt: d.CreatedAt,
	}
	if d.KDF != nil {
		r.KDF = *d.KDF
	}
	return r, nil
}

func (d vaultDTO) summary() models.VaultSummary {
	return models.VaultSummary{ID: d.ID, Name: d.Name, CreatedAt: d.CreatedAt}
}

func newItemDTO(e models.ItemEnvelopes) itemDTO {
	return itemDTO{
		ItemType:          legacyItemType,
		EncryptedLabel:    envelopeText(&e.Label),
		EncryptedWebsite:  envelopeText(e.Website),
		EncryptedUsername: envelopeText(e.Username),
		EncryptedPassword: envelopeText(&e.Password),
		Nonce:             legacyNonce,
		Tag:               legacyTag,
	}
}

func patchItemDTO(p models.ItemEnvelopesPatch) itemDTO {
	return itemDTO{
		EncryptedLabel:    envelopeText(&p.Label),
		EncryptedWebsite:  envelopeText(p.Website),
		EncryptedUsername: envelopeText(p.Username),
		EncryptedPassword: envelopeText(p.Password),
	}
}

func (d itemDTO) record() (models.ItemRecord, error) {
	if d.EncryptedLabel == nil || d.EncryptedPassword == nil {
		return models.ItemRecord{}, fmt.Errorf("%w: item %s misses a required field", crypto.ErrInvalidEnvelope, d.ID)
	}

	r := models.ItemRecord{
		ID:        d.ID,
		VaultID:   d.VaultID,
		CreatedAt: d.DateCreated,
		UpdatedAt: d.DateModified,
	}

	var err error
	if r.Label, err = crypto.ParseEnvelope(*d.EncryptedLabel); err != nil {
		return models.ItemRecord{}, fmt.Errorf("item %s label: %w", d.ID, err)
	}
	if r.Website, err = parseOptional(d.EncryptedWebsite); err != nil {
		return models.ItemRecord{}, fmt.Errorf("item %s website: %w", d.ID, err)
	}
	if r.Username, err = parseOptional(d.EncryptedUsername); err != nil {
		return models.ItemRecord{}, fmt.Errorf("item %s username: %w", d.ID, err)
	}
	if r.Password, err = crypto.ParseEnvelope(*d.EncryptedPassword); err != nil {
		return models.ItemRecord{}, fmt.Errorf("item %s password: %w", d.ID, err)
	}

	return r, nil
}

func envelopeText(e *crypto.Envelope) *string {
	if e == nil {
		return nil
	}
	s := e.String()
	return &s
}

func parseOptional(s *string) (*crypto.Envelope, error) {
	if s == nil {
		return nil, nil
	}
	e, err := crypto.ParseEnvelope(*s)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
