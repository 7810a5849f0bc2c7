package migration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/exchange/internal/config"
	"github.com/Additional-Code/exchange/internal/database"
)

func newMigrator(t *testing.T) (*Migrator, *database.Connections) {
	t.Helper()

	db, err := database.Open("sqlite", ":memory:", config.Database{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conns := &database.Connections{Writer: db, Reader: db, Driver: "sqlite"}
	mig, err := New(conns, zap.NewNop())
	require.NoError(t, err)
	return mig, conns
}

func tableCount(t *testing.T, conns *database.Connections) int {
	t.Helper()
	var n int
	err := conns.Writer.NewSelect().
		TableExpr("sqlite_master").
		ColumnExpr("count(*)").
		Where("type = 'table' AND name IN ('users', 'orders', 'offers')").
		Scan(context.Background(), &n)
	require.NoError(t, err)
	return n
}

func TestUpDown(t *testing.T) {
	mig, conns := newMigrator(t)
	ctx := context.Background()

	require.NoError(t, mig.Up(ctx))
	assert.Equal(t, 3, tableCount(t, conns))

	// applying twice is a no-op.
	require.NoError(t, mig.Up(ctx))

	statuses, err := mig.Status(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, statuses)
	assert.Equal(t, int64(1), statuses[0].Version)
	assert.True(t, statuses[0].Applied)

	require.NoError(t, mig.Down(ctx, 0, true))
	assert.Zero(t, tableCount(t, conns))

	require.NoError(t, mig.Down(ctx, 3, false))
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := New(&database.Connections{Driver: "oracle"}, zap.NewNop())
	assert.Error(t, err)
}
