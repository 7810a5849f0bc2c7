package order

import (
	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/exchange/internal/config"
	"github.com/Additional-Code/exchange/internal/dto"
	"github.com/Additional-Code/exchange/internal/entity"
	service "github.com/Additional-Code/exchange/internal/service/order"
	"github.com/Additional-Code/exchange/internal/transport/http/resource"
)

// Handler exposes order endpoints over HTTP.
type Handler = resource.Handler[entity.Order, dto.OrderRequest, *dto.OrderRequest]

// NewHandler constructs a order Handler.
func NewHandler(svc *service.Service, cfg config.Config) *Handler {
	return resource.NewHandler[entity.Order, dto.OrderRequest](svc, toDTO, resource.Options{
		LegacyNotFound: cfg.HTTP.LegacyNotFound,
	})
}

// Register routes under /orders.
func Register(e *echo.Echo, h *Handler) {
	h.Register(e.Group("/orders"))
}

func toDTO(rec *entity.Order) any {
	return dto.NewOrderResponse(rec)
}
