package config

import (
	"strings"
	"time"
)

// AccountServiceConfig describes how to reach the backend that creates accounts.
// Fields have no env tags - populate manually or use NewAccountServiceConfigFromEnv() for standard env var names.
type AccountServiceConfig struct {
	BaseURL    string        // e.g. "http://localhost:8000"
	SignupPath string        // path of the create-account endpoint
	Timeout    time.Duration // 0 means no client-side timeout
	UserAgent  string
}

// DefaultAccountServiceConfig returns the development backend settings
func DefaultAccountServiceConfig() AccountServiceConfig {
	return AccountServiceConfig{
		BaseURL:    "http://localhost:8000",
		SignupPath: "/signup",
		Timeout:    0,
		UserAgent:  "simple-profile/1.0",
	}
}

// NewAccountServiceConfigFromEnv loads AccountServiceConfig from standard environment variables.
//
// Environment variables:
//   - ACCOUNT_SERVICE_URL: Base URL of the account service (default: http://localhost:8000)
//   - ACCOUNT_SERVICE_SIGNUP_PATH: Path of the signup endpoint (default: /signup)
//   - ACCOUNT_SERVICE_TIMEOUT: Request timeout, 0 disables it (default: 0)
//   - ACCOUNT_SERVICE_USER_AGENT: User-Agent header (default: simple-profile/1.0)
func NewAccountServiceConfigFromEnv() AccountServiceConfig {
	d := DefaultAccountServiceConfig()
	return AccountServiceConfig{
		BaseURL:    GetEnvOrDefault("ACCOUNT_SERVICE_URL", d.BaseURL),
		SignupPath: GetEnvOrDefault("ACCOUNT_SERVICE_SIGNUP_PATH", d.SignupPath),
		Timeout:    GetEnvDuration("ACCOUNT_SERVICE_TIMEOUT", d.Timeout),
		UserAgent:  GetEnvOrDefault("ACCOUNT_SERVICE_USER_AGENT", d.UserAgent),
	}
}

// SignupURL joins BaseURL and SignupPath.
func (c AccountServiceConfig) SignupURL() string {
	return strings.TrimRight(c.BaseURL, "/") + c.SignupPath
}

// Validate checks the account service settings
func (c AccountServiceConfig) Validate() error {
	return Validate(func() ValidationErrors {
		return CollectErrors(
			RequireValidURL("account_service.base_url", c.BaseURL),
			RequirePath("account_service.signup_path", c.SignupPath),
			RequireNonNegativeDuration("account_service.timeout", c.Timeout),
		)
	})
}

// UploadConfig limits profile picture uploads.
type UploadConfig struct {
	MaxProfilePictureBytes int64
}

// DefaultUploadConfig allows pictures up to 10 MiB
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		MaxProfilePictureBytes: 10 << 20,
	}
}

// NewUploadConfigFromEnv loads UploadConfig from standard environment variables.
//
// Environment variables:
//   - PROFILE_PICTURE_MAX_BYTES: Largest accepted picture in bytes (default: 10485760)
func NewUploadConfigFromEnv() UploadConfig {
	return UploadConfig{
		MaxProfilePictureBytes: GetEnvInt64("PROFILE_PICTURE_MAX_BYTES", DefaultUploadConfig().MaxProfilePictureBytes),
	}
}

// Validate checks the upload settings
func (c UploadConfig) Validate() error {
	return Validate(func() ValidationErrors {
		return CollectErrors(
			RequirePositive64("upload.max_profile_picture_bytes", c.MaxProfilePictureBytes),
		)
	})
}

// WebConfig holds settings of the browser front end.
type WebConfig struct {
	SessionCookieName string
	CookieSecure      bool
	SessionTTL        time.Duration
}

// DefaultWebConfig returns development-friendly web settings
func DefaultWebConfig() WebConfig {
	return WebConfig{
		SessionCookieName: "signup_session",
		CookieSecure:      false,
		SessionTTL:        30 * time.Minute,
	}
}

// NewWebConfigFromEnv loads WebConfig from standard environment variables.
//
// Environment variables:
//   - SIGNUP_SESSION_COOKIE: Name of the form session cookie (default: signup_session)
//   - SIGNUP_COOKIE_SECURE: Mark the cookie Secure (default: true in production, false otherwise)
//   - SIGNUP_SESSION_TTL: Idle time before a form session is dropped (default: 30m)
func NewWebConfigFromEnv() WebConfig {
	d := DefaultWebConfig()
	return WebConfig{
		SessionCookieName: GetEnvOrDefault("SIGNUP_SESSION_COOKIE", d.SessionCookieName),
		CookieSecure:      GetEnvBool("SIGNUP_COOKIE_SECURE", IsProduction()),
		SessionTTL:        GetEnvDuration("SIGNUP_SESSION_TTL", d.SessionTTL),
	}
}

// Validate checks the web settings
func (c WebConfig) Validate() error {
	return Validate(func() ValidationErrors {
		return CollectErrors(
			RequireNonEmpty("web.session_cookie_name", c.SessionCookieName),
			RequireNonNegativeDuration("web.session_ttl", c.SessionTTL),
		)
	})
}
