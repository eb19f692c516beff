package crypto

import (
	"fmt"

	"github.com/awnumar/memguard"
)

// SecretKey holds 256-bit key material in a memguard locked buffer: the pages
// are mlocked, surrounded by guard pages and wiped on Destroy.
//
// This is best-effort hygiene. Copies made by the AES key schedule or by the
// runtime before the bytes reached the buffer are outside its reach.
type SecretKey struct {
	buf *memguard.LockedBuffer
}

// NewSecretKey moves b into a locked buffer. b is wiped on success and on
// failure. Returns ErrInvalidInput if b is not KeySize bytes long.
func NewSecretKey(b []byte) (*SecretKey, error) {
	if len(b) != KeySize {
		Wipe(b)
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", ErrInvalidInput, KeySize, len(b))
	}

	// NewBufferFromBytes wipes the source slice.
	return &SecretKey{buf: memguard.NewBufferFromBytes(b)}, nil
}

// Bytes returns the key material. The slice aliases the locked buffer and
// becomes invalid after Destroy; it must not be retained.
func (k *SecretKey) Bytes() []byte {
	if k == nil || k.buf == nil {
		return nil
	}
	return k.buf.Bytes()
}

// Alive reports whether the key has not been destroyed yet.
func (k *SecretKey) Alive() bool {
	return k != nil && k.buf != nil && k.buf.IsAlive()
}

// Destroy wipes and releases the buffer. Safe to call more than once.
func (k *SecretKey) Destroy() {
	if k == nil || k.buf == nil {
		return
	}
	k.buf.Destroy()
}

// Wipe overwrites b with zeros.
func Wipe(b []byte) {
	memguard.WipeBytes(b)
}
