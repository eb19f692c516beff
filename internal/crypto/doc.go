// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto holds the client-side primitives of the zero-knowledge scheme.
// It knows nothing about vaults, storage or users: it generates randomness,
// stretches passwords into keys and seals bytes into envelopes.
//
// Scheme:
//
//	Salt, VaultKey = GenerateSalt() + GenerateVaultKey()   (step 1)
//	DerivedKey     = KeyDeriver.DeriveKey(password, salt)  (step 2)
//	WrappedKey     = EnvelopeCodec.Seal(VaultKey, DerivedKey) (step 3)
//	FieldEnvelope  = EnvelopeCodec.Seal(field, VaultKey)   (step 4)
package crypto
