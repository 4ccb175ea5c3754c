package components

import (
	"time"

	"parkbook/internal/pkg/clock"
	"parkbook/internal/pkg/config"
	"parkbook/internal/usecase/commands"
	"parkbook/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		func(store queries.AvailabilityReadStore, cfg config.BookingConfig, loc *time.Location) queries.AvailabilityQueries {
			return queries.NewAvailabilityQueries(store, cfg.DefaultCapacity, loc)
		},
		queries.NewPricingQueries,
	),
)
