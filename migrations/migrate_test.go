// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package migrations

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_NilDB(t *testing.T) {
	var db *sql.DB

	applied, err := Migrate(context.Background(), db)

	require.ErrorIs(t, err, ErrNilDB)
	assert.Nil(t, applied)
}

func TestMigrate_DriverFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.MatchExpectationsInOrder(false)
	boom := errors.New("disk I/O error")
	mock.ExpectExec(".*").WillReturnError(boom)
	mock.ExpectQuery(".*").WillReturnError(boom)

	_, err = Migrate(context.Background(), db)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration error")
}

func TestSchema_EmbedsInitialMigration(t *testing.T) {
	entries, err := schema.ReadDir(".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "00001_init.sql", entries[0].Name())
}
