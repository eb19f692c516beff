package config

import (
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
)

// Built-in defaults.
const (
	DefaultIdleTimeout         = 2 * time.Minute
	DefaultClipboardClearAfter = 30 * time.Second
	DefaultDSN                 = "zkvault.db"
	DefaultFilesPath           = "zkvault.json"
	DefaultRequestTimeout      = 10 * time.Second
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			IdleTimeout:         DefaultIdleTimeout,
			ClipboardClearAfter: DefaultClipboardClearAfter,
			KDFAlgorithm:        crypto.AlgorithmPBKDF2SHA256,
			KDFIterations:       crypto.DefaultIterations,
		},
		Storage: Storage{
			Backend: BackendSQLite,
			DB:      DB{DSN: DefaultDSN},
			Files:   Files{Path: DefaultFilesPath},
		},
		Adapter: Adapter{
			RequestTimeout: DefaultRequestTimeout,
		},
	}
}
