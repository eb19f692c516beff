package crypto

// SecretGenerator is the single source of randomness for the client. Salts,
// IVs, vault keys and generated passwords all come from it.
type SecretGenerator interface {
	// RandomBytes returns n bytes read from the CSPRNG.
	RandomBytes(n int) ([]byte, error)

	// GenerateSalt returns a fresh 16-byte vault salt. The salt is public and
	// is stored next to the wrapped vault key.
	GenerateSalt() ([]byte, error)

	// GenerateVaultKey returns a fresh 256-bit vault key held in a locked
	// buffer. The caller owns the key and must Destroy it.
	GenerateVaultKey() (*SecretKey, error)

	// GeneratePassword returns a random password of exactly length characters
	// drawn from PasswordCharset.
	GeneratePassword(length int) (string, error)
}

// KeyDeriver stretches a password and salt into a 256-bit key. Implementations
// are deterministic: the same inputs always give the same key.
type KeyDeriver interface {
	// DeriveKey returns the derived key. The caller must Wipe it after use.
	// Fails with ErrInvalidInput only if the salt is not SaltSize bytes.
	DeriveKey(password string, salt []byte) ([]byte, error)

	// Params reports the descriptor that has to be stored next to the salt
	// to derive the same key again.
	Params() KDFParams
}

// EnvelopeCodec seals plaintext into self-contained authenticated envelopes.
type EnvelopeCodec interface {
	// Seal encrypts plaintext under key with a freshly drawn IV.
	Seal(plaintext, key []byte) (Envelope, error)

	// Open authenticates and decrypts env. Any tag mismatch, whether caused by
	// a wrong key or by a modified envelope, is reported as ErrDecryptionFailed.
	Open(env Envelope, key []byte) ([]byte, error)
}
