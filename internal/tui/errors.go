// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-zk-vault/internal/service"
	"github.com/MKhiriev/go-zk-vault/internal/vault"
)

// humanizeError turns an operation error into a one-line message for the
// status bar.
func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, vault.ErrUnlockFailed):
		return "Wrong password"
	case errors.Is(err, vault.ErrVaultLocked):
		return "Vault is locked"
	case errors.Is(err, service.ErrFieldAbsent):
		return "Field is empty for this item"
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "Network is down or the vault server is unreachable"
	}

	return err.Error()
}
