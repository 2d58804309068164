package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CFG_TEST_STRING", "value")
	t.Setenv("CFG_TEST_INT64", "42")
	t.Setenv("CFG_TEST_BAD_INT64", "forty-two")
	t.Setenv("CFG_TEST_BOOL", "Yes")
	t.Setenv("CFG_TEST_DURATION", "1m30s")

	assert.Equal(t, "value", GetEnvOrDefault("CFG_TEST_STRING", "default"))
	assert.Equal(t, "default", GetEnvOrDefault("CFG_TEST_UNSET", "default"))
	assert.Equal(t, int64(42), GetEnvInt64("CFG_TEST_INT64", 7))
	assert.Equal(t, int64(7), GetEnvInt64("CFG_TEST_BAD_INT64", 7))
	assert.True(t, GetEnvBool("CFG_TEST_BOOL", false))
	assert.True(t, GetEnvBool("CFG_TEST_UNSET", true))
	assert.Equal(t, 90*time.Second, GetEnvDuration("CFG_TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, GetEnvDuration("CFG_TEST_UNSET", time.Second))
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("APP_ENV", "whatever")
	assert.Equal(t, Development, GetEnvironment())
}

func TestAccountServiceConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := NewAccountServiceConfigFromEnv()
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:8000/signup", cfg.SignupURL())
		assert.Zero(t, cfg.Timeout)
	})

	t.Run("from env", func(t *testing.T) {
		t.Setenv("ACCOUNT_SERVICE_URL", "https://api.example.com/")
		t.Setenv("ACCOUNT_SERVICE_SIGNUP_PATH", "/v1/accounts")
		t.Setenv("ACCOUNT_SERVICE_TIMEOUT", "5s")

		cfg := NewAccountServiceConfigFromEnv()
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "https://api.example.com/v1/accounts", cfg.SignupURL())
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("invalid", func(t *testing.T) {
		cfg := AccountServiceConfig{BaseURL: "localhost:8000", SignupPath: "signup", Timeout: -time.Second}

		err := cfg.Validate()
		require.Error(t, err)
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 3)
		assert.Contains(t, err.Error(), "configuration validation failed:")
	})
}

func TestUploadAndWebConfig(t *testing.T) {
	require.NoError(t, DefaultUploadConfig().Validate())
	assert.Equal(t, int64(10<<20), NewUploadConfigFromEnv().MaxProfilePictureBytes)
	assert.Error(t, UploadConfig{}.Validate())

	t.Setenv("PROFILE_PICTURE_MAX_BYTES", "2048")
	assert.Equal(t, int64(2048), NewUploadConfigFromEnv().MaxProfilePictureBytes)

	t.Setenv("APP_ENV", "production")
	web := NewWebConfigFromEnv()
	require.NoError(t, web.Validate())
	assert.True(t, web.CookieSecure, "cookies are secure by default in production")
	assert.Equal(t, "signup_session", web.SessionCookieName)

	t.Setenv("SIGNUP_COOKIE_SECURE", "false")
	t.Setenv("SIGNUP_SESSION_TTL", "5m")
	web = NewWebConfigFromEnv()
	assert.False(t, web.CookieSecure)
	assert.Equal(t, 5*time.Minute, web.SessionTTL)

	assert.Error(t, WebConfig{}.Validate())
}
