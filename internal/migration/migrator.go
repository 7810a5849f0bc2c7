package migration

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	goosedb "github.com/pressly/goose/v3/database"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/exchange/internal/database"
)

//go:embed sql/*.sql
var migrations embed.FS

// Module provides the migrator to Fx.
var Module = fx.Provide(New)

// Migrator applies the embedded schema to the writer connection.
type Migrator struct {
	provider *goose.Provider
	logger   *zap.Logger
}

// Status describes one embedded migration.
type Status struct {
	Version int64
	Name    string
	Applied bool
}

// New builds a goose provider for the connection's dialect.
func New(conns *database.Connections, logger *zap.Logger) (*Migrator, error) {
	dialect, err := gooseDialect(conns.Driver)
	if err != nil {
		return nil, err
	}

	fsys, err := fs.Sub(migrations, "sql")
	if err != nil {
		return nil, err
	}

	provider, err := goose.NewProvider(dialect, conns.Writer.DB, fsys)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}

	return &Migrator{provider: provider, logger: logger}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	results, err := m.provider.Up(ctx)
	if err != nil {
		if isNoMigrationErr(err) {
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}
	m.logger.Info("schema up to date", zap.Int("applied", len(results)))
	return nil
}

// Down rolls back migrations. Steps <=0 defaults to 1; all=true rolls everything back.
func (m *Migrator) Down(ctx context.Context, steps int, all bool) error {
	if all {
		results, err := m.provider.DownTo(ctx, 0)
		if err != nil && !isNoMigrationErr(err) {
			return fmt.Errorf("roll back migrations: %w", err)
		}
		m.logger.Info("schema rolled back", zap.Int("reverted", len(results)))
		return nil
	}

	if steps <= 0 {
		steps = 1
	}
	reverted := 0
	for ; reverted < steps; reverted++ {
		if _, err := m.provider.Down(ctx); err != nil {
			if isNoMigrationErr(err) {
				break
			}
			return fmt.Errorf("roll back migration: %w", err)
		}
	}
	m.logger.Info("schema rolled back", zap.Int("reverted", reverted))
	return nil
}

// Status lists every embedded migration in version order.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	raw, err := m.provider.Status(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(raw))
	for _, s := range raw {
		out = append(out, Status{
			Version: s.Source.Version,
			Name:    s.Source.Path,
			Applied: s.State == goose.StateApplied,
		})
	}
	return out, nil
}

func gooseDialect(driver string) (goosedb.Dialect, error) {
	switch driver {
	case "postgres":
		return goosedb.DialectPostgres, nil
	case "mysql":
		return goosedb.DialectMySQL, nil
	case "sqlite":
		return goosedb.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("unsupported goose dialect for driver %s", driver)
	}
}

func isNoMigrationErr(err error) bool {
	return errors.Is(err, goose.ErrNoNextVersion) ||
		errors.Is(err, goose.ErrNoCurrentVersion) ||
		errors.Is(err, goose.ErrNoMigrations)
}
