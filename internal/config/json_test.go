package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	jsonBody := `{
		"app": {
			"idle_timeout": "5m",
			"clipboard_clear_after": "10s",
			"kdf_algorithm": "pbkdf2-sha256",
			"kdf_iterations": 700000,
			"legacy_key_wrap": true,
			"log_file": "/tmp/zkvault.log"
		},
		"storage": {
			"backend": "file",
			"db": { "dsn": "/tmp/vault.db" },
			"files": { "path": "/tmp/vault.json" }
		},
		"adapter": {
			"address": "https://vault.example",
			"token": "tok",
			"request_timeout": "30s"
		}
	}`

	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 5*time.Minute, cfg.App.IdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.App.ClipboardClearAfter)
	assert.Equal(t, "pbkdf2-sha256", cfg.App.KDFAlgorithm)
	assert.Equal(t, 700000, cfg.App.KDFIterations)
	assert.True(t, cfg.App.LegacyKeyWrap)
	assert.Equal(t, "/tmp/zkvault.log", cfg.App.LogFile)

	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/vault.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "/tmp/vault.json", cfg.Storage.Files.Path)

	assert.Equal(t, "https://vault.example", cfg.Adapter.Address)
	assert.Equal(t, "tok", cfg.Adapter.Token)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)

	assert.Empty(t, cfg.JSONFilePath, "json file must not point to another file")
}

func TestParseJSON_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not valid json"), 0o600))
	badDuration := filepath.Join(dir, "duration.json")
	require.NoError(t, os.WriteFile(badDuration, []byte(`{"app":{"idle_timeout":"later"}}`), 0o600))

	for _, p := range []string{filepath.Join(dir, "missing.json"), bad, badDuration} {
		_, err := parseJSON(p)
		assert.Error(t, err, p)
	}
}

func TestDuration_JSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"1m30s"`), &d))
	assert.Equal(t, 90*time.Second, time.Duration(d))

	require.NoError(t, json.Unmarshal([]byte(`1000`), &d))
	assert.Equal(t, time.Microsecond, time.Duration(d))

	out, err := json.Marshal(Duration(2 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, `"2m0s"`, string(out))
}
