// Package app_test contains unit tests for the app package.
package app_test

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/knowmesh/knowmesh/internal/app"
)

func setDefaults(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("fetch.user_agent", "test-agent/1.0")
	viper.Set("fetch.timeout", "5s")
	viper.Set("fetch.max_body_bytes", 1024)
	viper.Set("fetch.max_attempts", 2)
	viper.Set("annotate.max_text_runes", 1000)
}

func TestNewApp(t *testing.T) {
	setDefaults(t)

	a, err := app.NewApp(context.Background())
	require.NoError(t, err)
	require.NotNil(t, a.GetLogger())
	require.NotNil(t, a.GetGraph())
	require.NotNil(t, a.GetRunner())
	a.Close()
}

func TestNewAppRejectsBadFetchConfig(t *testing.T) {
	setDefaults(t)
	viper.Set("fetch.timeout", "0s")

	_, err := app.NewApp(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "fetch")
}

func TestNewAppRejectsBadAnnotateConfig(t *testing.T) {
	setDefaults(t)
	viper.Set("annotate.max_text_runes", -5)

	_, err := app.NewApp(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "annotate")
}
