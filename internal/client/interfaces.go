// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run opens an interactive session for vaultID and blocks until exit.
	Run(ctx context.Context, vaultID string) error
	// Close releases every resource the client holds, locking first.
	Close() error
}

var _ Client = (*App)(nil)
