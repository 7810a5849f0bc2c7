package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/exchange/internal/config"
)

func TestIsInMemory(t *testing.T) {
	cases := []struct {
		driver, dsn string
		want        bool
	}{
		{"sqlite", ":memory:", true},
		{"sqlite", "file::memory:?cache=shared", true},
		{"sqlite", "file:exchange?mode=memory&cache=shared", true},
		{"sqlite", "file:exchange.db", false},
		{"postgres", "postgres://localhost/:memory:", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsInMemory(tc.driver, tc.dsn), tc.dsn)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "dsn", config.Database{})
	assert.Error(t, err)

	_, err = Open("sqlite", "", config.Database{})
	assert.Error(t, err)
}

func TestOpenInMemoryKeepsOneConnection(t *testing.T) {
	db, err := Open("sqlite", ":memory:", config.Database{MaxOpenConns: 10})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, 1, db.DB.Stats().MaxOpenConnections)

	ctx := context.Background()
	_, err = db.ExecContext(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)

	var count int
	require.NoError(t, db.NewSelect().Table("t").ColumnExpr("count(*)").Scan(ctx, &count))
	assert.Zero(t, count)
}

func TestIsUniqueViolation(t *testing.T) {
	db, err := Open("sqlite", ":memory:", config.Database{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	_, err = db.ExecContext(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY, phone TEXT UNIQUE)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO t (id, phone) VALUES (1, 'a')")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, "INSERT INTO t (id, phone) VALUES (2, 'a')")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", err)))

	_, err = db.ExecContext(ctx, "INSERT INTO t (id, phone) VALUES (1, 'b')")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	assert.True(t, IsUniqueViolation(&mysql.MySQLError{Number: 1062}))
	assert.False(t, IsUniqueViolation(&mysql.MySQLError{Number: 1452}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}
