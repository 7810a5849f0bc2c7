package offer

import "go.uber.org/fx"

// Module provides the offer service to Fx.
var Module = fx.Provide(NewService)
