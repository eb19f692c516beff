package models

import (
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
)

// Item is a decrypted vault entry. Label and Password are mandatory.
// Website and Username are optional: nil means absent, which is not the same
// as a present empty string.
type Item struct {
	Label    string
	Website  *string
	Username *string
	Password string
}

// ItemEnvelopes holds one envelope per present item field. Absent optional
// fields stay nil and are persisted as null.
type ItemEnvelopes struct {
	Label    crypto.Envelope  `json:"encrypted_label"`
	Website  *crypto.Envelope `json:"encrypted_website"`
	Username *crypto.Envelope `json:"encrypted_username"`
	Password crypto.Envelope  `json:"encrypted_password"`
}

// ItemRecord is a persisted item as returned by a store.
type ItemRecord struct {
	ID      string `json:"item_id"`
	VaultID string `json:"vault_id"`

	ItemEnvelopes

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ItemUpdate is an edit of an existing item.
//
// Label is required. Website and Username replace the stored values, so nil
// clears them. Password is changed only when non-nil.
type ItemUpdate struct {
	Label    string
	Website  *string
	Username *string
	Password *string
}

// ItemEnvelopesPatch is the encrypted form of an ItemUpdate. Website and
// Username are always written (nil becomes null); Password is left untouched
// when nil.
type ItemEnvelopesPatch struct {
	Label    crypto.Envelope  `json:"encrypted_label"`
	Website  *crypto.Envelope `json:"encrypted_website"`
	Username *crypto.Envelope `json:"encrypted_username"`
	Password *crypto.Envelope `json:"encrypted_password,omitempty"`
}

// Apply returns e with the patch written over it.
func (p ItemEnvelopesPatch) Apply(e ItemEnvelopes) ItemEnvelopes {
	e.Label = p.Label
	e.Website = p.Website
	e.Username = p.Username
	if p.Password != nil {
		e.Password = *p.Password
	}
	return e
}

// ItemView is the list view of an item: its metadata decrypted, the password
// left sealed until explicitly revealed.
type ItemView struct {
	ID       string
	Label    string
	Website  *string
	Username *string

	// Corrupted is set when the item's envelopes could not be opened with
	// the current vault key.
	Corrupted bool

	CreatedAt *time.Time
	UpdatedAt *time.Time
}
