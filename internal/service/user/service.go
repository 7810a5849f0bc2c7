package user

import (
	"github.com/Additional-Code/exchange/internal/entity"
	repo "github.com/Additional-Code/exchange/internal/repository/user"
	"github.com/Additional-Code/exchange/internal/service/record"
)

// NotFoundMessage is reported when a user id is unknown.
const NotFoundMessage = "Пользователь не найден"

// Service manages users.
type Service = record.Service[entity.User, *entity.User]

// NewService wires the user service.
func NewService(p record.Params, repository *repo.Repository) *Service {
	return record.New[entity.User](p, repository, record.Descriptor{
		Entity:          "user",
		NotFoundMessage: NotFoundMessage,
	})
}
