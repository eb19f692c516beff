// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the remote implementation of [store.VaultStore]: a
// REST client for a vault server exposing /api/vaults and
// /api/vaults/{id}/items.
//
// The server only ever receives public vault metadata and ciphertext. Each
// envelope travels as its stored text form, a JSON string inside the JSON
// body, so records written by the browser client stay readable.
//
// HTTP status codes are mapped by mapHTTPError to the sentinels in errors.go;
// 404 on a vault route is additionally reported as [store.ErrVaultNotFound].
package adapter
