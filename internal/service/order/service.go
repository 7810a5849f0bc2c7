package order

import (
	"github.com/Additional-Code/exchange/internal/entity"
	repo "github.com/Additional-Code/exchange/internal/repository/order"
	"github.com/Additional-Code/exchange/internal/service/record"
)

// NotFoundMessage is reported when a order id is unknown.
const NotFoundMessage = "Заказ не найден"

// Service manages orders.
type Service = record.Service[entity.Order, *entity.Order]

// NewService wires the order service.
func NewService(p record.Params, repository *repo.Repository) *Service {
	return record.New[entity.Order](p, repository, record.Descriptor{
		Entity:          "order",
		NotFoundMessage: NotFoundMessage,
	})
}
