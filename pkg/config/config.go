// Package config loads console configuration from environment
// variables, with an optional .env file for development.
package config

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrParsingConfig is returned when environment variables cannot be
	// parsed into the config struct.
	ErrParsingConfig = errors.New("config.parsing_failed")

	// ErrNilPointer is returned when Load receives a nil target.
	ErrNilPointer = errors.New("config.nil_pointer")
)

var dotenvOnce sync.Once

// Load parses environment variables into v based on `env` struct tags.
// A .env file in the working directory is loaded once per process if
// present; a missing file is fine.
func Load[T any](v *T) error {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure. Use for configuration
// the console cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Console is the root configuration of the console core.
type Console struct {
	// BaseURL is the backend API prefix, e.g. https://api.example.uz/v1.
	BaseURL string `env:"CONSOLE_API_BASE_URL,required,notEmpty"`

	// Locale is sent as Accept-Language on every request.
	Locale string `env:"CONSOLE_LOCALE" envDefault:"uz"`

	// RetryAttempts is the default number of extra attempts after a
	// transport-level failure.
	RetryAttempts int `env:"CONSOLE_RETRY_ATTEMPTS" envDefault:"2"`

	// RetryDelay is the base backoff; attempt n waits n * RetryDelay.
	RetryDelay time.Duration `env:"CONSOLE_RETRY_DELAY" envDefault:"300ms"`

	// RequestTimeout bounds every call including retries. Zero keeps
	// the historical no-timeout behavior.
	RequestTimeout time.Duration `env:"CONSOLE_REQUEST_TIMEOUT" envDefault:"0"`

	// SessionStore selects the session backend: memory, file or redis.
	SessionStore string `env:"CONSOLE_SESSION_STORE" envDefault:"file"`

	// SessionFile is the file store path; used when SessionStore=file.
	SessionFile string `env:"CONSOLE_SESSION_FILE" envDefault:".console/session.json"`

	// RedisURL is the connection string when SessionStore=redis.
	RedisURL string `env:"CONSOLE_REDIS_URL"`

	// RouteTable is a YAML route permission table path. Empty means the
	// table is registered in code.
	RouteTable string `env:"CONSOLE_ROUTE_TABLE"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `env:"CONSOLE_LOG_LEVEL" envDefault:"info"`

	// LogFormat is json or text.
	LogFormat string `env:"CONSOLE_LOG_FORMAT" envDefault:"json"`
}
