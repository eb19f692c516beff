package crypto

import "errors"

// Sentinel errors of the crypto primitives. Callers match them with
// [errors.Is]. ErrDecryptionFailed deliberately has one generic message for
// every authentication failure.
var (
	// ErrInvalidInput is returned when derivation or sealing receives a
	// malformed argument (wrong salt or key length, non-positive iteration
	// count or password length).
	ErrInvalidInput = errors.New("invalid input")

	// ErrDecryptionFailed is returned when an envelope does not authenticate
	// under the given key.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidEnvelope is returned when stored ciphertext cannot be parsed
	// into an envelope (bad encoding, wrong IV length, missing tag).
	ErrInvalidEnvelope = errors.New("invalid envelope")
)
