// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Storage backends accepted in Storage.Backend.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRemote = "remote"
)

// StructuredConfig is the top-level configuration container for the
// zkvault client. It aggregates all sub-configurations and is populated by
// merging defaults, environment variables, command-line flags and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds session, clipboard, key derivation and logging settings.
	App App `envPrefix:"APP_"`

	// Storage selects and configures the vault record store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds the remote vault server settings used by the "remote"
	// storage backend.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / --config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds client-side behaviour settings.
type App struct {
	// IdleTimeout is how long an unlocked vault may stay idle before it is
	// locked again.
	// Env: APP_IDLE_TIMEOUT
	IdleTimeout time.Duration `env:"IDLE_TIMEOUT"`

	// ClipboardClearAfter is the delay after which a copied secret is
	// removed from the clipboard. A negative value disables clearing.
	// Env: APP_CLIPBOARD_CLEAR_AFTER
	ClipboardClearAfter time.Duration `env:"CLIPBOARD_CLEAR_AFTER"`

	// KDFAlgorithm selects the key derivation for new vaults:
	// "pbkdf2-sha256" or "argon2id".
	// Env: APP_KDF_ALGORITHM
	KDFAlgorithm string `env:"KDF_ALGORITHM"`

	// KDFIterations is the PBKDF2 iteration count, or the Argon2id time
	// parameter.
	// Env: APP_KDF_ITERATIONS
	KDFIterations int `env:"KDF_ITERATIONS"`

	// KDFMemoryKiB is the Argon2id memory parameter.
	// Env: APP_KDF_MEMORY_KIB
	KDFMemoryKiB uint32 `env:"KDF_MEMORY_KIB"`

	// KDFThreads is the Argon2id parallelism parameter.
	// Env: APP_KDF_THREADS
	KDFThreads uint8 `env:"KDF_THREADS"`

	// LegacyKeyWrap wraps the key of new vaults as base64 text, the form
	// the browser client of the vault server expects.
	// Env: APP_LEGACY_KEY_WRAP
	LegacyKeyWrap bool `env:"LEGACY_KEY_WRAP"`

	// LogFile is the path of the JSON log file.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// Backend is one of "sqlite", "file" or "remote".
	// Env: STORAGE_BACKEND
	Backend string `env:"BACKEND"`

	// DB holds the SQLite settings.
	DB DB `envPrefix:"DB_"`

	// Files holds the JSON file store settings.
	Files Files `envPrefix:"FILES_"`
}

// DB holds connection settings for the SQLite backend.
type DB struct {
	// DSN is the SQLite data source name, usually a file path.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Files holds settings for the JSON file backend.
type Files struct {
	// Path is the JSON file holding all vault records.
	// Env: STORAGE_FILES_PATH
	Path string `env:"PATH"`
}

// Adapter holds settings for the remote vault server.
type Adapter struct {
	// Address is the server address, "host:port" or a full URL.
	// Env: ADAPTER_ADDRESS
	Address string `env:"ADDRESS"`

	// Token is the bearer token sent with every request.
	// Env: ADAPTER_TOKEN
	Token string `env:"TOKEN"`

	// RequestTimeout bounds a single outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// GetStructuredConfig loads and merges the configuration from all available
// sources in the following priority order (last source wins for non-zero
// fields):
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags registered on fs with [RegisterFlags]
//  4. JSON file (path resolved from sources 2 and 3)
func GetStructuredConfig(fs *pflag.FlagSet) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(fs).
		withJSON().
		build()
}
