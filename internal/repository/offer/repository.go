package offer

import (
	"github.com/Additional-Code/exchange/internal/database"
	"github.com/Additional-Code/exchange/internal/entity"
	"github.com/Additional-Code/exchange/internal/repository"
)

// Repository stores offers.
type Repository = repository.Table[entity.Offer, *entity.Offer]

// NewRepository wires the offer table on the configured connections.
func NewRepository(conns *database.Connections) *Repository {
	return repository.NewTable[entity.Offer]("offer", conns)
}
