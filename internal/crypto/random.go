// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	// SaltSize is the length of a vault salt in bytes.
	SaltSize = 16
	// KeySize is the length of vault and derived keys in bytes (AES-256).
	KeySize = 32
	// IVSize is the AES-GCM nonce length in bytes.
	IVSize = 12
)

// PasswordCharset is the alphabet used by GeneratePassword: lowercase,
// uppercase, digits and symbols, 76 characters in total.
const PasswordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()_+-="

// secretGenerator is the private implementation of [SecretGenerator].
type secretGenerator struct {
	rand io.Reader
}

// NewSecretGenerator returns a [SecretGenerator] backed by crypto/rand.
func NewSecretGenerator() SecretGenerator {
	return &secretGenerator{rand: rand.Reader}
}

// RandomBytes implements [SecretGenerator].
func (g *secretGenerator) RandomBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrInvalidInput, n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(g.rand, b); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return b, nil
}

// GenerateSalt implements [SecretGenerator]. It returns SaltSize random bytes.
func (g *secretGenerator) GenerateSalt() ([]byte, error) {
	return g.RandomBytes(SaltSize)
}

// GenerateVaultKey implements [SecretGenerator]. The random bytes go straight
// into a locked buffer and the temporary slice is wiped.
func (g *secretGenerator) GenerateVaultKey() (*SecretKey, error) {
	raw, err := g.RandomBytes(KeySize)
	if err != nil {
		return nil, err
	}
	return NewSecretKey(raw)
}

// GeneratePassword implements [SecretGenerator]. Random bytes at or above the
// largest multiple of len(PasswordCharset) are rejected, so every character
// of the charset is equally likely.
func (g *secretGenerator) GeneratePassword(length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("%w: password length must be positive, got %d", ErrInvalidInput, length)
	}

	const limit = 256 - 256%len(PasswordCharset)

	out := make([]byte, 0, length)
	buf := make([]byte, length)
	defer Wipe(buf)

	for len(out) < length {
		if _, err := io.ReadFull(g.rand, buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, PasswordCharset[int(b)%len(PasswordCharset)])
			if len(out) == length {
				break
			}
		}
	}

	password := string(out)
	Wipe(out)
	return password, nil
}
