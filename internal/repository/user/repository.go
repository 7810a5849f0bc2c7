package user

import (
	"github.com/Additional-Code/exchange/internal/database"
	"github.com/Additional-Code/exchange/internal/entity"
	"github.com/Additional-Code/exchange/internal/repository"
)

// Repository stores users.
type Repository = repository.Table[entity.User, *entity.User]

// NewRepository wires the user table on the configured connections.
func NewRepository(conns *database.Connections) *Repository {
	return repository.NewTable[entity.User]("user", conns)
}
