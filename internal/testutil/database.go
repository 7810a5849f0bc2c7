// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/exchange/internal/config"
	"github.com/Additional-Code/exchange/internal/database"
	"github.com/Additional-Code/exchange/internal/migration"
)

// NewConnections opens a private in-memory sqlite database with the schema applied.
func NewConnections(t *testing.T) *database.Connections {
	t.Helper()

	db, err := database.Open("sqlite", ":memory:", config.Database{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conns := &database.Connections{Writer: db, Reader: db, Driver: "sqlite"}

	mig, err := migration.New(conns, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, mig.Up(context.Background()))

	return conns
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
