package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	DebugSQL        bool
}

type AuthConfig struct {
	AccessSecret string
}

type RateLimitConfig struct {
	WritePerMinute  int
	ExportPerMinute int
	DefaultPerHour  int
	DefaultPerDay   int
}

type Config struct {
	Environment string
	LogLevel    string
	Timezone    string
	Location    *time.Location
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")

	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 7090)
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("RATE_LIMIT_WRITE_PER_MINUTE", 10)
	v.SetDefault("RATE_LIMIT_EXPORT_PER_MINUTE", 5)
	v.SetDefault("RATE_LIMIT_DEFAULT_PER_HOUR", 50)
	v.SetDefault("RATE_LIMIT_DEFAULT_PER_DAY", 200)

	_ = v.ReadInConfig()
	return v
}

func Load() (*Config, error) {
	v := newViper()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Timezone:    v.GetString("APP_TIMEZONE"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			Driver:          v.GetString("DB_DRIVER"),
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			DebugSQL:        v.GetBool("DB_DEBUG_SQL"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		RateLimit: RateLimitConfig{
			WritePerMinute:  v.GetInt("RATE_LIMIT_WRITE_PER_MINUTE"),
			ExportPerMinute: v.GetInt("RATE_LIMIT_EXPORT_PER_MINUTE"),
			DefaultPerHour:  v.GetInt("RATE_LIMIT_DEFAULT_PER_HOUR"),
			DefaultPerDay:   v.GetInt("RATE_LIMIT_DEFAULT_PER_DAY"),
		},
	}

	if cfg.DB.Driver == DriverSQLite && cfg.DB.DSN == "" {
		cfg.DB.DSN = "faults.db"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.DB.Driver)
	}
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	loc, err := loadLocation(cfg.Timezone)
	if err != nil {
		return err
	}
	cfg.Location = loc
	return nil
}

// LoadLocation resolves APP_TIMEZONE alone, for tools that never open the
// store or verify tokens.
func LoadLocation() (*time.Location, error) {
	return loadLocation(newViper().GetString("APP_TIMEZONE"))
}

func loadLocation(name string) (*time.Location, error) {
	// The zone name is also bound into postgres queries, which cannot resolve "Local".
	if name == "" || name == "Local" {
		return nil, fmt.Errorf("APP_TIMEZONE must be an IANA zone name, got %q", name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	return loc, nil
}
