package offer

import (
	"github.com/Additional-Code/exchange/internal/entity"
	repo "github.com/Additional-Code/exchange/internal/repository/offer"
	"github.com/Additional-Code/exchange/internal/service/record"
)

// NotFoundMessage is reported when a offer id is unknown.
const NotFoundMessage = "Предложение не найдено"

// Service manages offers.
type Service = record.Service[entity.Offer, *entity.Offer]

// NewService wires the offer service.
func NewService(p record.Params, repository *repo.Repository) *Service {
	return record.New[entity.Offer](p, repository, record.Descriptor{
		Entity:          "offer",
		NotFoundMessage: NotFoundMessage,
	})
}
