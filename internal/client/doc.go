// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the client application runtime.
//
// It picks the storage backend from configuration and wires the vault
// service, session guard, clipboard guard and session screen into a single
// process lifecycle.
package client
