package offer

import (
	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/exchange/internal/config"
	"github.com/Additional-Code/exchange/internal/dto"
	"github.com/Additional-Code/exchange/internal/entity"
	service "github.com/Additional-Code/exchange/internal/service/offer"
	"github.com/Additional-Code/exchange/internal/transport/http/resource"
)

// Handler exposes offer endpoints over HTTP.
type Handler = resource.Handler[entity.Offer, dto.OfferRequest, *dto.OfferRequest]

// NewHandler constructs a offer Handler.
func NewHandler(svc *service.Service, cfg config.Config) *Handler {
	return resource.NewHandler[entity.Offer, dto.OfferRequest](svc, toDTO, resource.Options{
		LegacyNotFound: cfg.HTTP.LegacyNotFound,
	})
}

// Register routes under /offers.
func Register(e *echo.Echo, h *Handler) {
	h.Register(e.Group("/offers"))
}

func toDTO(rec *entity.Offer) any {
	return dto.NewOfferResponse(rec)
}
