// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_IDLE_TIMEOUT":          "90s",
		"APP_CLIPBOARD_CLEAR_AFTER": "15s",
		"APP_KDF_ALGORITHM":         "argon2id",
		"APP_KDF_ITERATIONS":        "3",
		"APP_KDF_MEMORY_KIB":        "65536",
		"APP_KDF_THREADS":           "2",
		"APP_LOG_FILE":              "/var/log/zkvault.log",

		// Storage has nested prefixes: STORAGE_ + DB_ / FILES_
		"STORAGE_BACKEND":    "remote",
		"STORAGE_DB_DSN":     "/tmp/vault.db",
		"STORAGE_FILES_PATH": "/tmp/vault.json",

		"ADAPTER_ADDRESS":         "localhost:8080",
		"ADAPTER_TOKEN":           "bearer-token",
		"ADAPTER_REQUEST_TIMEOUT": "5s",
	}
	setEnvVars(t, envVars)

	// Act
	cfg, err := parseEnv()

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, 90*time.Second, cfg.App.IdleTimeout)
	assert.Equal(t, 15*time.Second, cfg.App.ClipboardClearAfter)
	assert.Equal(t, "argon2id", cfg.App.KDFAlgorithm)
	assert.Equal(t, 3, cfg.App.KDFIterations)
	assert.Equal(t, uint32(65536), cfg.App.KDFMemoryKiB)
	assert.Equal(t, uint8(2), cfg.App.KDFThreads)
	assert.Equal(t, "/var/log/zkvault.log", cfg.App.LogFile)

	assert.Equal(t, "remote", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/vault.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "/tmp/vault.json", cfg.Storage.Files.Path)

	assert.Equal(t, "localhost:8080", cfg.Adapter.Address)
	assert.Equal(t, "bearer-token", cfg.Adapter.Token)
	assert.Equal(t, 5*time.Second, cfg.Adapter.RequestTimeout)
}

func TestParseEnv_PartialFields(t *testing.T) {
	setEnvVars(t, map[string]string{
		"APP_LOG_FILE":    "x.log",
		"ADAPTER_ADDRESS": "localhost:8080",
	})

	cfg, err := parseEnv()

	require.NoError(t, err)
	assert.Equal(t, "x.log", cfg.App.LogFile)
	assert.Zero(t, cfg.App.IdleTimeout)
	assert.Equal(t, "localhost:8080", cfg.Adapter.Address)
	assert.Empty(t, cfg.Storage.Backend)
}

func TestParseEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad duration", key: "APP_IDLE_TIMEOUT", val: "two minutes"},
		{name: "bad int", key: "APP_KDF_ITERATIONS", val: "many"},
		{name: "uint8 overflow", key: "APP_KDF_THREADS", val: "300"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			cfg, err := parseEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "error getting env configs")
			assert.Nil(t, cfg)
		})
	}
}
