// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vault owns the vault key lifecycle and field-level item
// encryption.
//
// A [KeyManager] is Locked until CreateVault or Unlock succeeds, and holds at
// most one resident vault key. The key is never handed out directly: callers
// take a [KeyLease], use the bytes and release it. Lock clears the resident
// slot immediately; the key buffer itself is wiped once the last outstanding
// lease is released.
//
// [ItemCipher] turns plaintext items into one envelope per present field and
// back, always under the manager's resident key.
package vault
