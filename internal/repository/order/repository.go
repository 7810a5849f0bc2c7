package order

import (
	"github.com/Additional-Code/exchange/internal/database"
	"github.com/Additional-Code/exchange/internal/entity"
	"github.com/Additional-Code/exchange/internal/repository"
)

// Repository stores orders.
type Repository = repository.Table[entity.Order, *entity.Order]

// NewRepository wires the order table on the configured connections.
func NewRepository(conns *database.Connections) *Repository {
	return repository.NewTable[entity.Order]("order", conns)
}
