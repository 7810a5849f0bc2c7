package http

import (
	"go.uber.org/fx"

	offertransport "github.com/Additional-Code/exchange/internal/transport/http/offer"
	ordertransport "github.com/Additional-Code/exchange/internal/transport/http/order"
	usertransport "github.com/Additional-Code/exchange/internal/transport/http/user"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	usertransport.Module,
	ordertransport.Module,
	offertransport.Module,
)
