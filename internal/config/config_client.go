package config

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-zk-vault/internal/crypto"
	"github.com/spf13/pflag"
)

// ClientApp holds client-side application settings derived from the shared
// structured config.
type ClientApp struct {
	// IdleTimeout is the session idle lock window.
	IdleTimeout time.Duration
	// ClipboardClearAfter is the clipboard auto-clear delay; zero disables it.
	ClipboardClearAfter time.Duration
	// KDF is the key derivation used for newly created vaults.
	KDF crypto.KDFParams
	// LegacyKeyWrap stores new vault keys in the browser client's text form.
	LegacyKeyWrap bool
	// LogFile is the JSON log file path.
	LogFile string
}

// ClientAdapter holds network settings used by the remote storage backend.
type ClientAdapter struct {
	// Address is the server address, "host:port" or a full URL.
	Address string
	// Token is the bearer token sent with every request.
	Token string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite connection string used by the client.
	DSN string
}

// ClientFiles contains the JSON file store settings.
type ClientFiles struct {
	// Path is the JSON file holding all vault records.
	Path string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// Backend is one of BackendSQLite, BackendFile or BackendRemote.
	Backend string
	// DB holds local database settings.
	DB ClientDB
	// Files holds JSON file store settings.
	Files ClientFiles
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// Adapter contains remote server settings.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
}

// GetClientConfig builds and validates the client config view from the
// merged structured configuration. fs must already be parsed; it may be nil
// when no flags are in play.
func GetClientConfig(fs *pflag.FlagSet) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(fs)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := cfg.ClientConfig()
	return clientCfg, clientCfg.validate()
}

// ClientConfig maps the structured config onto the client view.
func (cfg *StructuredConfig) ClientConfig() *ClientConfig {
	clearAfter := cfg.App.ClipboardClearAfter
	if clearAfter < 0 {
		clearAfter = 0
	}

	return &ClientConfig{
		App: ClientApp{
			IdleTimeout:         cfg.App.IdleTimeout,
			ClipboardClearAfter: clearAfter,
			KDF: crypto.KDFParams{
				Algorithm:  cfg.App.KDFAlgorithm,
				Iterations: cfg.App.KDFIterations,
				MemoryKiB:  cfg.App.KDFMemoryKiB,
				Threads:    cfg.App.KDFThreads,
			},
			LegacyKeyWrap: cfg.App.LegacyKeyWrap,
			LogFile:       cfg.App.LogFile,
		},
		Adapter: ClientAdapter{
			Address:        cfg.Adapter.Address,
			Token:          cfg.Adapter.Token,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			Backend: cfg.Storage.Backend,
			DB:      ClientDB{DSN: cfg.Storage.DB.DSN},
			Files:   ClientFiles{Path: cfg.Storage.Files.Path},
		},
	}
}
