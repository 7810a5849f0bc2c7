package user

import (
	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/exchange/internal/config"
	"github.com/Additional-Code/exchange/internal/dto"
	"github.com/Additional-Code/exchange/internal/entity"
	service "github.com/Additional-Code/exchange/internal/service/user"
	"github.com/Additional-Code/exchange/internal/transport/http/resource"
)

// Handler exposes user endpoints over HTTP.
type Handler = resource.Handler[entity.User, dto.UserRequest, *dto.UserRequest]

// NewHandler constructs a user Handler.
func NewHandler(svc *service.Service, cfg config.Config) *Handler {
	return resource.NewHandler[entity.User, dto.UserRequest](svc, toDTO, resource.Options{
		LegacyNotFound: cfg.HTTP.LegacyNotFound,
	})
}

// Register routes under /users.
func Register(e *echo.Echo, h *Handler) {
	h.Register(e.Group("/users"))
}

func toDTO(rec *entity.User) any {
	return dto.NewUserResponse(rec)
}
