package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_sqliteDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{dsn: "vault.db", want: "vault.db?_foreign_keys=on"},
		{dsn: "vault.db?_busy_timeout=5000", want: "vault.db?_busy_timeout=5000&_foreign_keys=on"},
		{dsn: "file:vault.db?cache=shared&mode=rwc", want: "file:vault.db?cache=shared&mode=rwc&_foreign_keys=on"},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, sqliteDSN(tt.dsn))
		})
	}
}

func Test_sqliteFilePath(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{dsn: "vault.db", want: "vault.db"},
		{dsn: "vault.db?_busy_timeout=5000", want: "vault.db"},
		{dsn: "file:/tmp/vault.db?mode=rwc", want: "/tmp/vault.db"},
		{dsn: ":memory:", want: ""},
		{dsn: "file::memory:?cache=shared", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, sqliteFilePath(tt.dsn))
		})
	}
}

func Test_createLocalDBFileIfNotExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.db")

	require.NoError(t, createLocalDBFileIfNotExists(sqliteFilePath(path+"?_busy_timeout=5000")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, createLocalDBFileIfNotExists(""))
}
