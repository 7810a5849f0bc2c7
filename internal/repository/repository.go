package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/exchange/internal/database"
	"github.com/Additional-Code/exchange/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/exchange/repository")

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned when inserting an id that already exists.
	ErrDuplicateID = errors.New("duplicate record id")
	// ErrConflict is returned when a write violates a unique column other than the id.
	ErrConflict = errors.New("unique constraint violated")
)

// Table provides storage for one entity type. Writes are serialized per table.
type Table[T any, P entity.Model[T]] struct {
	name   string
	writer *bun.DB
	reader *bun.DB
	mu     sync.Mutex
}

// NewTable wires a table backed by configured database connections.
func NewTable[T any, P entity.Model[T]](name string, conns *database.Connections) *Table[T, P] {
	return &Table[T, P]{
		name:   name,
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// Name returns the entity name used for tracing and logging.
func (t *Table[T, P]) Name() string { return t.name }

// Insert adds a new record. The existing record is left untouched on ErrDuplicateID.
func (t *Table[T, P]) Insert(ctx context.Context, rec P) error {
	if rec == nil {
		return fmt.Errorf("nil %s", t.name)
	}
	ctx, span := t.start(ctx, "Insert", rec.PrimaryKey())
	defer span.End()

	t.mu.Lock()
	defer t.mu.Unlock()

	err := t.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((P)(nil)).Where("id = ?", rec.PrimaryKey()).Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateID
		}
		_, err = tx.NewInsert().Model(rec).Exec(ctx)
		return err
	})
	return t.finish(span, "insert failed", err)
}

// Get fetches a record by id using the read connection.
func (t *Table[T, P]) Get(ctx context.Context, id int64) (P, error) {
	ctx, span := t.start(ctx, "Get", id)
	defer span.End()

	rec := P(new(T))
	err := t.reader.NewSelect().Model(rec).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return rec, nil
}

// List returns every record ordered by id.
func (t *Table[T, P]) List(ctx context.Context) ([]T, error) {
	ctx, span := repoTracer.Start(ctx, t.spanName("List"))
	defer span.End()

	records := make([]T, 0)
	if err := t.reader.NewSelect().Model(&records).Order("id ASC").Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return records, nil
}

// Update replaces every column of an existing record.
func (t *Table[T, P]) Update(ctx context.Context, rec P) error {
	if rec == nil {
		return fmt.Errorf("nil %s", t.name)
	}
	ctx, span := t.start(ctx, "Update", rec.PrimaryKey())
	defer span.End()

	t.mu.Lock()
	defer t.mu.Unlock()

	err := t.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((P)(nil)).Where("id = ?", rec.PrimaryKey()).Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		_, err = tx.NewUpdate().Model(rec).WherePK().Exec(ctx)
		return err
	})
	return t.finish(span, "update failed", err)
}

// Delete removes a record by id.
func (t *Table[T, P]) Delete(ctx context.Context, id int64) error {
	ctx, span := t.start(ctx, "Delete", id)
	defer span.End()

	t.mu.Lock()
	defer t.mu.Unlock()

	res, err := t.writer.NewDelete().Model((P)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return t.finish(span, "delete failed", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return t.finish(span, "delete failed", err)
	}
	if affected == 0 {
		return t.finish(span, "", ErrNotFound)
	}
	return nil
}

func (t *Table[T, P]) start(ctx context.Context, op string, id int64) (context.Context, trace.Span) {
	return repoTracer.Start(ctx, t.spanName(op), trace.WithAttributes(
		attribute.String("record.entity", t.name),
		attribute.Int64("record.id", id),
	))
}

func (t *Table[T, P]) spanName(op string) string {
	return strings.ToUpper(t.name[:1]) + t.name[1:] + "Repository." + op
}

func (t *Table[T, P]) finish(span trace.Span, status string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicateID):
		span.SetStatus(codes.Error, err.Error())
		return err
	case database.IsUniqueViolation(err):
		span.SetStatus(codes.Error, "unique violation")
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
		return err
	}
}
