package bootstrap

import (
	"time"

	"parkbook/internal/domain/pricing"
	"parkbook/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.BookingConfig { return cfg.Booking },
		func(cfg config.Config) config.PricingConfig { return cfg.Pricing },
		NewBookingLocation,
		NewPricingService,
	),
)

func NewBookingLocation(cfg config.BookingConfig) (*time.Location, error) {
	return cfg.Location()
}

func NewPricingService(cfg config.PricingConfig) (*pricing.Service, error) {
	rates := pricing.Rates{
		pricing.SeasonSummer: {
			pricing.DayTypeWeekday: cfg.SummerWeekdayMinor,
			pricing.DayTypeWeekend: cfg.SummerWeekendMinor,
		},
		pricing.SeasonWinter: {
			pricing.DayTypeWeekday: cfg.WinterWeekdayMinor,
			pricing.DayTypeWeekend: cfg.WinterWeekendMinor,
		},
	}
	return pricing.New(
		cfg.Currency,
		rates,
		toMonths(cfg.SummerMonths),
		toMonths(cfg.WinterMonths),
		pricing.Season(cfg.DefaultSeason),
		toWeekdays(cfg.WeekendDays),
	)
}

func toMonths(ns []int) []time.Month {
	months := make([]time.Month, len(ns))
	for i, n := range ns {
		months[i] = time.Month(n)
	}
	return months
}

func toWeekdays(ns []int) []time.Weekday {
	days := make([]time.Weekday, len(ns))
	for i, n := range ns {
		days[i] = time.Weekday(n)
	}
	return days
}
