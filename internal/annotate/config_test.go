package annotate

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	v := viper.New()
	v.Set("annotate.max_text_runes", 5000)

	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	require.Equal(t, 5000, cfg.MaxTextRunes)
}

func TestLoadConfigRejectsNegativeCap(t *testing.T) {
	v := viper.New()
	v.Set("annotate.max_text_runes", -1)

	_, err := LoadConfig(v)
	require.Error(t, err)
}
