// Package config provides common configuration utilities and patterns for simple-profile.
//
// This package centralizes configuration loading and validation for the signup
// client binaries: where the account service lives, how large a profile
// picture may be, and how the web front end keeps form sessions.
//
// # Environment Variable Helpers
//
//	base := config.GetEnvOrDefault("ACCOUNT_SERVICE_URL", "http://localhost:8000")
//	limit := config.GetEnvInt64("PROFILE_PICTURE_MAX_BYTES", 10<<20)
//	secure := config.GetEnvBool("SIGNUP_COOKIE_SECURE", false)
//	timeout := config.GetEnvDuration("ACCOUNT_SERVICE_TIMEOUT", 0)
//
// # Configuration Structs
//
// Each concern has a struct without env tags, a Default constructor, a
// FromEnv constructor using the standard variable names, and Validate:
//
//	account := config.NewAccountServiceConfigFromEnv()
//	if err := account.Validate(); err != nil {
//		log.Fatal(err)
//	}
//
// Binaries that read their own Config with cleanenv copy values into these
// structs and validate them the same way.
//
// # Configuration Validation
//
//	func (c AccountServiceConfig) Validate() error {
//		return config.Validate(func() config.ValidationErrors {
//			return config.CollectErrors(
//				config.RequireValidURL("account_service.base_url", c.BaseURL),
//				config.RequirePath("account_service.signup_path", c.SignupPath),
//			)
//		})
//	}
//
// Multiple failures are reported together:
//
//	configuration validation failed:
//	  - account_service.base_url: is required
//	  - account_service.signup_path: must start with '/', got "signup"
package config
