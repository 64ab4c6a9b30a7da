package catalogapi

import "time"

// Config represents the configuration for the catalog backend client
type Config struct {
	// BaseURL is the backend API base URL
	BaseURL string

	// CSRFToken is sent as X-CSRFToken on every request. The backend
	// rejects mutating requests without it.
	CSRFToken string

	// Timeout applies to every request; zero means DefaultTimeout.
	Timeout time.Duration

	// UserAgent overrides the default User-Agent header when set.
	UserAgent string
}

// DefaultTimeout is used when Config.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	if c.CSRFToken == "" {
		return ErrInvalidConfig
	}
	return nil
}
