package main

import (
	"context"
	"testing"

	"github.com/charmbracelet/genprobe/internal/probe"
	"github.com/stretchr/testify/require"
)

func TestAPIKey(t *testing.T) {
	ctx := context.Background()
	google := API{
		Name:      "google",
		APIKeyEnv: KeyEnvs{"GENPROBE_TEST_GOOGLE_KEY", "GENPROBE_TEST_GEMINI_KEY"},
	}

	t.Run("first env", func(t *testing.T) {
		t.Setenv("GENPROBE_TEST_GOOGLE_KEY", "from-google")
		t.Setenv("GENPROBE_TEST_GEMINI_KEY", "from-gemini")
		key, err := apiKey(ctx, google)
		require.NoError(t, err)
		require.Equal(t, "from-google", key)
	})

	t.Run("second env", func(t *testing.T) {
		t.Setenv("GENPROBE_TEST_GOOGLE_KEY", "")
		t.Setenv("GENPROBE_TEST_GEMINI_KEY", "from-gemini")
		key, err := apiKey(ctx, google)
		require.NoError(t, err)
		require.Equal(t, "from-gemini", key)
	})

	t.Run("env wins over settings", func(t *testing.T) {
		t.Setenv("GENPROBE_TEST_GOOGLE_KEY", "from-env")
		api := google
		api.APIKey = "from-settings"
		key, err := apiKey(ctx, api)
		require.NoError(t, err)
		require.Equal(t, "from-env", key)
	})

	t.Run("settings", func(t *testing.T) {
		t.Setenv("GENPROBE_TEST_GOOGLE_KEY", "")
		t.Setenv("GENPROBE_TEST_GEMINI_KEY", "")
		api := google
		api.APIKey = "from-settings"
		api.APIKeyCmd = "echo from-cmd"
		key, err := apiKey(ctx, api)
		require.NoError(t, err)
		require.Equal(t, "from-settings", key)
	})

	t.Run("cmd", func(t *testing.T) {
		t.Setenv("GENPROBE_TEST_GOOGLE_KEY", "")
		t.Setenv("GENPROBE_TEST_GEMINI_KEY", "")
		api := google
		api.APIKeyCmd = `echo "  from-cmd  "`
		key, err := apiKey(ctx, api)
		require.NoError(t, err)
		require.Equal(t, "from-cmd", key)
	})

	t.Run("cmd fails", func(t *testing.T) {
		api := API{APIKeyCmd: "false"}
		_, err := apiKey(ctx, api)
		var perr probeError
		require.ErrorAs(t, err, &perr)
		require.Equal(t, "Cannot exec api-key-cmd.", perr.Reason())
	})

	t.Run("cmd prints nothing", func(t *testing.T) {
		api := API{APIKeyCmd: "true"}
		_, err := apiKey(ctx, api)
		require.ErrorIs(t, err, probe.ErrMissingAPIKey)
	})

	t.Run("cmd does not parse", func(t *testing.T) {
		api := API{APIKeyCmd: `echo "unterminated`}
		_, err := apiKey(ctx, api)
		var perr probeError
		require.ErrorAs(t, err, &perr)
		require.Equal(t, "Failed to parse api-key-cmd.", perr.Reason())
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv("GENPROBE_TEST_GOOGLE_KEY", "")
		t.Setenv("GENPROBE_TEST_GEMINI_KEY", "")
		_, err := apiKey(ctx, google)
		require.ErrorIs(t, err, probe.ErrMissingAPIKey)
	})
}
