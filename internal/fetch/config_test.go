package fetch

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	v := viper.New()
	v.Set("fetch.user_agent", "test-agent/1.0")
	v.Set("fetch.timeout", "5s")
	v.Set("fetch.max_body_bytes", 1024)
	v.Set("fetch.max_attempts", 2)

	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	require.Equal(t, "test-agent/1.0", cfg.UserAgent)
	require.Equal(t, 5*time.Second, cfg.Timeout)
	require.Equal(t, int64(1024), cfg.MaxBodyBytes)
	require.Equal(t, 2, cfg.MaxAttempts)
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		set  func(v *viper.Viper)
	}{
		{"missing user agent", func(v *viper.Viper) { v.Set("fetch.user_agent", "") }},
		{"zero timeout", func(v *viper.Viper) { v.Set("fetch.timeout", "0s") }},
		{"zero body limit", func(v *viper.Viper) { v.Set("fetch.max_body_bytes", 0) }},
		{"zero attempts", func(v *viper.Viper) { v.Set("fetch.max_attempts", 0) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := viper.New()
			v.Set("fetch.user_agent", "test-agent/1.0")
			v.Set("fetch.timeout", "5s")
			v.Set("fetch.max_body_bytes", 1024)
			v.Set("fetch.max_attempts", 2)
			tc.set(v)

			_, err := LoadConfig(v)
			require.Error(t, err)
		})
	}
}
