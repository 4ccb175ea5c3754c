package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: values that differ between environments (port, DB connection, etc.)
// - default: values common across all environments (rates, calendar, timeouts)
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	Booking BookingConfig
	Pricing PricingConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

// BookingConfig is read once at startup and immutable thereafter.
type BookingConfig struct {
	// Capacity assumed for any day without an explicit capacities row.
	DefaultCapacity  int    `envconfig:"BOOKING_DEFAULT_CAPACITY" default:"10"`
	ReferencePrefix  string `envconfig:"BOOKING_REFERENCE_PREFIX" default:"BK-"`
	MaxStayDays      int    `envconfig:"BOOKING_MAX_STAY_DAYS" default:"10"`
	QuoteHorizonDays int    `envconfig:"BOOKING_QUOTE_HORIZON_DAYS" default:"365"`
	// Calendar in which occupied days are evaluated. Single-calendar by design.
	TimeZone string `envconfig:"BOOKING_TIMEZONE" default:"UTC"`
}

func (c BookingConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid booking timezone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// PricingConfig mirrors the season x day-type rate matrix. Amounts are
// minor units (pence for GBP); months are 1..12, weekend days 0=Sun..6=Sat.
type PricingConfig struct {
	Currency string `envconfig:"PRICING_CURRENCY" default:"GBP"`

	SummerWeekdayMinor int64 `envconfig:"PRICING_SUMMER_WEEKDAY_MINOR" default:"1500"`
	SummerWeekendMinor int64 `envconfig:"PRICING_SUMMER_WEEKEND_MINOR" default:"2000"`
	WinterWeekdayMinor int64 `envconfig:"PRICING_WINTER_WEEKDAY_MINOR" default:"1200"`
	WinterWeekendMinor int64 `envconfig:"PRICING_WINTER_WEEKEND_MINOR" default:"1600"`

	SummerMonths []int `envconfig:"PRICING_SUMMER_MONTHS" default:"6,7,8"`
	WinterMonths []int `envconfig:"PRICING_WINTER_MONTHS" default:"12,1,2"`

	// Season applied to months in neither set (shoulder months).
	DefaultSeason string `envconfig:"PRICING_DEFAULT_SEASON" default:"winter"`
	WeekendDays   []int  `envconfig:"PRICING_WEEKEND_DAYS" default:"0,6"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		CORS: CORSConfig{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		Log: LogConfig{
			Level:      "error",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Booking: BookingConfig{
			DefaultCapacity:  10,
			ReferencePrefix:  "BK-",
			MaxStayDays:      10,
			QuoteHorizonDays: 365,
			TimeZone:         "UTC",
		},
		Pricing: PricingConfig{
			Currency:           "GBP",
			SummerWeekdayMinor: 1500,
			SummerWeekendMinor: 2000,
			WinterWeekdayMinor: 1200,
			WinterWeekendMinor: 1600,
			SummerMonths:       []int{6, 7, 8},
			WinterMonths:       []int{12, 1, 2},
			DefaultSeason:      "winter",
			WeekendDays:        []int{0, 6},
		},
	}
}
