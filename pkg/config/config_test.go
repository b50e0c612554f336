package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasiyapay/consolekit/pkg/config"
)

func TestLoad(t *testing.T) {
	t.Setenv("CONSOLE_API_BASE_URL", "https://api.example.uz/v1")
	t.Setenv("CONSOLE_LOCALE", "ru")
	t.Setenv("CONSOLE_RETRY_DELAY", "150ms")

	var cfg config.Console
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "https://api.example.uz/v1", cfg.BaseURL)
	assert.Equal(t, "ru", cfg.Locale)
	assert.Equal(t, 2, cfg.RetryAttempts)
	assert.Equal(t, 150*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout)
	assert.Equal(t, "file", cfg.SessionStore)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("CONSOLE_API_BASE_URL", "")

	var cfg config.Console
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrParsingConfig))
}

func TestLoad_NilPointer(t *testing.T) {
	err := config.Load[config.Console](nil)
	assert.True(t, errors.Is(err, config.ErrNilPointer))
}
