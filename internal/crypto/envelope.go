// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// tagSize is the length of the AES-GCM authentication tag.
const tagSize = 16

// Envelope is one unit of authenticated ciphertext: the IV and the
// ciphertext with the GCM tag appended. A single envelope is enough to
// attempt decryption.
//
// Its JSON form is {"iv_b64": "...", "ct_b64": "..."} with standard base64.
type Envelope struct {
	IV         []byte
	Ciphertext []byte
}

type envelopeJSON struct {
	IV         string `json:"iv_b64"`
	Ciphertext string `json:"ct_b64"`
}

// Validate checks the structural invariants of e: a 12-byte IV and a
// ciphertext at least as long as the authentication tag.
func (e Envelope) Validate() error {
	if len(e.IV) != IVSize {
		return fmt.Errorf("%w: iv must be %d bytes, got %d", ErrInvalidEnvelope, IVSize, len(e.IV))
	}
	if len(e.Ciphertext) < tagSize {
		return fmt.Errorf("%w: ciphertext shorter than authentication tag", ErrInvalidEnvelope)
	}
	return nil
}

// Equal reports whether both envelopes hold the same bytes.
func (e Envelope) Equal(other Envelope) bool {
	return bytes.Equal(e.IV, other.IV) && bytes.Equal(e.Ciphertext, other.Ciphertext)
}

// MarshalJSON implements [json.Marshaler].
func (e Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelopeJSON{
		IV:         base64.StdEncoding.EncodeToString(e.IV),
		Ciphertext: base64.StdEncoding.EncodeToString(e.Ciphertext),
	})
}

// UnmarshalJSON implements [json.Unmarshaler]. Malformed JSON, bad base64 and
// wrong lengths all give ErrInvalidEnvelope.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var raw envelopeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}

	iv, err := base64.StdEncoding.DecodeString(raw.IV)
	if err != nil {
		return fmt.Errorf("%w: decode iv: %v", ErrInvalidEnvelope, err)
	}
	ct, err := base64.StdEncoding.DecodeString(raw.Ciphertext)
	if err != nil {
		return fmt.Errorf("%w: decode ciphertext: %v", ErrInvalidEnvelope, err)
	}

	parsed := Envelope{IV: iv, Ciphertext: ct}
	if err = parsed.Validate(); err != nil {
		return err
	}

	*e = parsed
	return nil
}

// String returns the stored text form of e (its JSON encoding).
func (e Envelope) String() string {
	b, _ := e.MarshalJSON()
	return string(b)
}

// ParseEnvelope parses the stored text form produced by [Envelope.String].
func ParseEnvelope(s string) (Envelope, error) {
	var e Envelope
	if err := e.UnmarshalJSON([]byte(s)); err != nil {
		return Envelope{}, err
	}
	return e, nil
}

// envelopeCodec is the AES-256-GCM implementation of [EnvelopeCodec].
type envelopeCodec struct {
	gen SecretGenerator
}

// NewEnvelopeCodec returns an AES-256-GCM [EnvelopeCodec] that draws every IV
// from gen.
func NewEnvelopeCodec(gen SecretGenerator) EnvelopeCodec {
	return &envelopeCodec{gen: gen}
}

// Seal implements [EnvelopeCodec]. Returns ErrInvalidInput if key is not
// KeySize bytes, or an error if the IV cannot be drawn.
func (c *envelopeCodec) Seal(plaintext, key []byte) (Envelope, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return Envelope{}, err
	}

	iv, err := c.gen.RandomBytes(gcm.NonceSize())
	if err != nil {
		return Envelope{}, fmt.Errorf("generate iv: %w", err)
	}

	return Envelope{IV: iv, Ciphertext: gcm.Seal(nil, iv, plaintext, nil)}, nil
}

// Open implements [EnvelopeCodec]. The AEAD error is dropped on purpose:
// callers only ever see ErrDecryptionFailed.
func (c *envelopeCodec) Open(env Envelope, key []byte) ([]byte, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, env.IV, env.Ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", ErrInvalidInput, KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
