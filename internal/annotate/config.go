package annotate

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		MaxTextRunes: v.GetInt("annotate.max_text_runes"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.MaxTextRunes < 0 {
		return fmt.Errorf("annotate.max_text_runes must be >= 0")
	}
	return nil
}
