package vault

import (
	"fmt"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/MKhiriev/go-zk-vault/models"
)

// ItemCipher encrypts and decrypts item fields under the resident vault key
// of a KeyManager. Every call takes its own lease, so a concurrent Lock never
// pulls the key out from under an operation already in progress.
type ItemCipher struct {
	keys  *KeyManager
	codec crypto.EnvelopeCodec
}

// NewItemCipher returns an ItemCipher bound to keys.
func NewItemCipher(keys *KeyManager, codec crypto.EnvelopeCodec) *ItemCipher {
	return &ItemCipher{keys: keys, codec: codec}
}

// EncryptField seals plaintext under the vault key with a fresh IV.
func (c *ItemCipher) EncryptField(plaintext []byte) (crypto.Envelope, error) {
	lease, err := c.keys.Acquire()
	if err != nil {
		return crypto.Envelope{}, err
	}
	defer lease.Release()

	return c.codec.Seal(plaintext, lease.Bytes())
}

// DecryptField opens env under the vault key.
func (c *ItemCipher) DecryptField(env crypto.Envelope) ([]byte, error) {
	lease, err := c.keys.Acquire()
	if err != nil {
		return nil, err
	}
	defer lease.Release()

	return c.codec.Open(env, lease.Bytes())
}

// EncryptItem encrypts every present field of item. Label and Password must
// be non-empty. Nil or empty optional fields are stored as null.
func (c *ItemCipher) EncryptItem(item models.Item) (models.ItemEnvelopes, error) {
	if err := requireFields(item.Label, item.Password); err != nil {
		return models.ItemEnvelopes{}, err
	}

	lease, err := c.keys.Acquire()
	if err != nil {
		return models.ItemEnvelopes{}, err
	}
	defer lease.Release()
	key := lease.Bytes()

	var out models.ItemEnvelopes
	if out.Label, err = c.sealString(item.Label, key); err != nil {
		return models.ItemEnvelopes{}, fmt.Errorf("label: %w", err)
	}
	if out.Website, err = c.sealOptional(item.Website, key); err != nil {
		return models.ItemEnvelopes{}, fmt.Errorf("website: %w", err)
	}
	if out.Username, err = c.sealOptional(item.Username, key); err != nil {
		return models.ItemEnvelopes{}, fmt.Errorf("username: %w", err)
	}
	if out.Password, err = c.sealString(item.Password, key); err != nil {
		return models.ItemEnvelopes{}, fmt.Errorf("password: %w", err)
	}
	return out, nil
}

// DecryptItem opens every present envelope of e.
func (c *ItemCipher) DecryptItem(e models.ItemEnvelopes) (models.Item, error) {
	lease, err := c.keys.Acquire()
	if err != nil {
		return models.Item{}, err
	}
	defer lease.Release()
	key := lease.Bytes()

	item, err := c.openMeta(e, key)
	if err != nil {
		return models.Item{}, err
	}
	if item.Password, err = c.openString(e.Password, key); err != nil {
		return models.Item{}, fmt.Errorf("password: %w", err)
	}
	return item, nil
}

// DecryptItemMeta opens label, website and username only. The password is
// left sealed and Item.Password is empty.
func (c *ItemCipher) DecryptItemMeta(e models.ItemEnvelopes) (models.Item, error) {
	lease, err := c.keys.Acquire()
	if err != nil {
		return models.Item{}, err
	}
	defer lease.Release()

	return c.openMeta(e, lease.Bytes())
}

// EncryptUpdate encrypts an edit. Label is re-encrypted and mandatory.
// Website and Username are encrypted when non-empty and cleared otherwise.
// The password envelope is produced only when a non-empty new password is
// supplied.
func (c *ItemCipher) EncryptUpdate(u models.ItemUpdate) (models.ItemEnvelopesPatch, error) {
	if u.Label == "" {
		return models.ItemEnvelopesPatch{}, fmt.Errorf("%w: label", ErrMissingField)
	}
	if u.Password != nil && *u.Password == "" {
		return models.ItemEnvelopesPatch{}, fmt.Errorf("%w: password", ErrMissingField)
	}

	lease, err := c.keys.Acquire()
	if err != nil {
		return models.ItemEnvelopesPatch{}, err
	}
	defer lease.Release()
	key := lease.Bytes()

	var out models.ItemEnvelopesPatch
	if out.Label, err = c.sealString(u.Label, key); err != nil {
		return models.ItemEnvelopesPatch{}, fmt.Errorf("label: %w", err)
	}
	if out.Website, err = c.sealOptional(u.Website, key); err != nil {
		return models.ItemEnvelopesPatch{}, fmt.Errorf("website: %w", err)
	}
	if out.Username, err = c.sealOptional(u.Username, key); err != nil {
		return models.ItemEnvelopesPatch{}, fmt.Errorf("username: %w", err)
	}
	if out.Password, err = c.sealOptional(u.Password, key); err != nil {
		return models.ItemEnvelopesPatch{}, fmt.Errorf("password: %w", err)
	}
	return out, nil
}

func (c *ItemCipher) openMeta(e models.ItemEnvelopes, key []byte) (models.Item, error) {
	var (
		item models.Item
		err  error
	)
	if item.Label, err = c.openString(e.Label, key); err != nil {
		return models.Item{}, fmt.Errorf("label: %w", err)
	}
	if item.Website, err = c.openOptional(e.Website, key); err != nil {
		return models.Item{}, fmt.Errorf("website: %w", err)
	}
	if item.Username, err = c.openOptional(e.Username, key); err != nil {
		return models.Item{}, fmt.Errorf("username: %w", err)
	}
	return item, nil
}

func (c *ItemCipher) sealString(s string, key []byte) (crypto.Envelope, error) {
	plain := []byte(s)
	defer crypto.Wipe(plain)

	return c.codec.Seal(plain, key)
}

// sealOptional stores an absent or empty value as null.
func (c *ItemCipher) sealOptional(s *string, key []byte) (*crypto.Envelope, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	env, err := c.sealString(*s, key)
	if err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *ItemCipher) openString(env crypto.Envelope, key []byte) (string, error) {
	plain, err := c.codec.Open(env, key)
	if err != nil {
		return "", err
	}
	s := string(plain)
	crypto.Wipe(plain)
	return s, nil
}

func (c *ItemCipher) openOptional(env *crypto.Envelope, key []byte) (*string, error) {
	if env == nil {
		return nil, nil
	}
	s, err := c.openString(*env, key)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func requireFields(label, password string) error {
	if label == "" {
		return fmt.Errorf("%w: label", ErrMissingField)
	}
	if password == "" {
		return fmt.Errorf("%w: password", ErrMissingField)
	}
	return nil
}
