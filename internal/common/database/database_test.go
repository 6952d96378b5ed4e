package database

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idea-validator/internal/common/config"
)

func TestPostgresClient_Migrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	migrations := fstest.MapFS{
		"002_index.sql":  {Data: []byte("CREATE INDEX IF NOT EXISTS idx ON t (a);")},
		"001_create.sql": {Data: []byte("CREATE TABLE IF NOT EXISTS t (a int);")},
		"README.md":      {Data: []byte("ignored")},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS t").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx").WillReturnResult(sqlmock.NewResult(0, 0))

	client := &PostgresClient{DB: db}
	applied, err := client.Migrate(context.Background(), migrations)

	require.NoError(t, err)
	assert.Equal(t, []string{"001_create.sql", "002_index.sql"}, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_Migrate_StopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	migrations := fstest.MapFS{
		"001_create.sql": {Data: []byte("CREATE TABLE t (a int);")},
		"002_index.sql":  {Data: []byte("CREATE INDEX idx ON t (a);")},
	}

	mock.ExpectExec("CREATE TABLE t").WillReturnError(errors.New("permission denied"))

	client := &PostgresClient{DB: db}
	applied, err := client.Migrate(context.Background(), migrations)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_create.sql")
	assert.Empty(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing()
	mock.ExpectClose()

	client := &PostgresClient{DB: db}
	assert.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, client.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))
	assert.NotNil(t, client.GetClient())

	_, err = NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}
