package components

import (
	"parkbook/internal/handler"
	"parkbook/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewAvailabilityHandler,
		api.NewPricingHandler,
	),
	fx.Invoke(handler.NewRouter),
)
