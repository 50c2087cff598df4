package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.TokenSecret) < 32 {
		return fmt.Errorf("auth.token_secret must be at least 32 characters (got %d)", len(c.Auth.TokenSecret))
	}

	if c.Relay.StoreTimeout <= 0 {
		return fmt.Errorf("relay.store_timeout must be > 0 (got %v)", c.Relay.StoreTimeout)
	}
	if c.Relay.WriteTimeout <= 0 {
		return fmt.Errorf("relay.write_timeout must be > 0 (got %v)", c.Relay.WriteTimeout)
	}
	if len(c.Relay.OriginList()) == 0 {
		return fmt.Errorf("relay.allowed_origins must not be empty")
	}

	if c.Media.MaxUploadSize <= 0 {
		return fmt.Errorf("media.max_upload_size must be > 0 (got %d)", c.Media.MaxUploadSize)
	}

	return nil
}
