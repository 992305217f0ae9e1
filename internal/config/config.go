package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

// DefaultDataURL is the public location of the published changelog artifacts.
const DefaultDataURL = "https://raw.githubusercontent.com/dr5hn/countries-states-cities-database/changelogs-data/changelogs"

type Config struct {
	Port string `env:"PORT" envDefault:"3000" validate:"required,numeric"`

	// DataURL is the base URL serving stats.json, global-changelog.json, countries/ and archives/.
	DataURL string `env:"CHANGELOG_DATA_URL" envDefault:"https://raw.githubusercontent.com/dr5hn/countries-states-cities-database/changelogs-data/changelogs" validate:"required,url"`

	// HTTPTimeout bounds every upstream fetch (default 30s). Set via CHANGELOG_HTTP_TIMEOUT.
	HTTPTimeout time.Duration `env:"CHANGELOG_HTTP_TIMEOUT" envDefault:"30s" validate:"gt=0"`

	// Env is "dev" (default) or "prod".
	Env string `env:"ENV" envDefault:"dev" validate:"oneof=dev prod"`

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the server listens with plain HTTP.
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn warning error"`

	// CORSAllowedOrigins is a list of origins allowed to call the JSON API (comma-separated).
	// When empty, no CORS headers are sent (same-origin only); "*" allows any origin.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," validate:"dive,url|eq=*"`

	// Per-IP rate limit for page and API requests.
	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120" validate:"min=1"`
	RateLimitBurst     int `env:"RATE_LIMIT_BURST" envDefault:"30" validate:"min=1"`

	// ProbeSchedule is the cron spec for the upstream availability probe.
	ProbeSchedule string `env:"UPSTREAM_PROBE_SCHEDULE" envDefault:"@every 5m" validate:"required"`

	TracingEnabled bool `env:"TRACING_ENABLED" envDefault:"false"`
}

var validate = validator.New()

// Load parses environment variables into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints. TLS needs both files or neither.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("invalid config: TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	return nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// TLSEnabled reports whether the server should listen with HTTPS.
func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// IsProduction returns true when ENV=prod.
func (c Config) IsProduction() bool {
	return c.Env == "prod"
}

// HSTSEnabled reports whether responses carry Strict-Transport-Security. In
// production TLS is usually terminated in front of the server, so ENV=prod
// turns it on even without local certificates.
func (c Config) HSTSEnabled() bool {
	return c.TLSEnabled() || c.IsProduction()
}
