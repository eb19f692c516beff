package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk JSON layout of the configuration.
type StructuredJSONConfig struct {
	App struct {
		IdleTimeout         Duration `json:"idle_timeout"`
		ClipboardClearAfter Duration `json:"clipboard_clear_after"`
		KDFAlgorithm        string   `json:"kdf_algorithm"`
		KDFIterations       int      `json:"kdf_iterations"`
		KDFMemoryKiB        uint32   `json:"kdf_memory_kib"`
		KDFThreads          uint8    `json:"kdf_threads"`
		LegacyKeyWrap       bool     `json:"legacy_key_wrap"`
		LogFile             string   `json:"log_file"`
	} `json:"app,omitempty"`

	Storage struct {
		Backend string `json:"backend"`

		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Files struct {
			Path string `json:"path"`
		} `json:"files,omitempty"`
	} `json:"storage,omitempty"`

	Adapter struct {
		Address        string   `json:"address"`
		Token          string   `json:"token"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			IdleTimeout:         time.Duration(jsonCfg.App.IdleTimeout),
			ClipboardClearAfter: time.Duration(jsonCfg.App.ClipboardClearAfter),
			KDFAlgorithm:        jsonCfg.App.KDFAlgorithm,
			KDFIterations:       jsonCfg.App.KDFIterations,
			KDFMemoryKiB:        jsonCfg.App.KDFMemoryKiB,
			KDFThreads:          jsonCfg.App.KDFThreads,
			LegacyKeyWrap:       jsonCfg.App.LegacyKeyWrap,
			LogFile:             jsonCfg.App.LogFile,
		},
		Storage: Storage{
			Backend: jsonCfg.Storage.Backend,
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Files: Files{
				Path: jsonCfg.Storage.Files.Path,
			},
		},
		Adapter: Adapter{
			Address:        jsonCfg.Adapter.Address,
			Token:          jsonCfg.Adapter.Token,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
