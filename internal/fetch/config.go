package fetch

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadConfig constructs a Config by reading from Viper. The struct stays
// decoupled from Viper so the fetcher can be configured directly in tests.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		UserAgent:    v.GetString("fetch.user_agent"),
		Timeout:      v.GetDuration("fetch.timeout"),
		MaxBodyBytes: v.GetInt64("fetch.max_body_bytes"),
		MaxAttempts:  v.GetInt("fetch.max_attempts"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.UserAgent == "" {
		return fmt.Errorf("fetch.user_agent must be set")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be > 0")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("fetch.max_body_bytes must be > 0")
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("fetch.max_attempts must be > 0")
	}
	return nil
}
