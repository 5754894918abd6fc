package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResetSettings(t *testing.T) {
	t.Run("backup", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "genprobe.yml")
		require.NoError(t, os.WriteFile(path, []byte("default-api: cohere\n"), 0o600))

		var out bytes.Buffer
		require.NoError(t, resetSettings(&out, path))
		require.Contains(t, out.String(), path+".bak")

		old, err := os.ReadFile(path + ".bak")
		require.NoError(t, err)
		require.Equal(t, "default-api: cohere\n", string(old))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		cfg := defaultConfig()
		require.NoError(t, parseConfig(content, &cfg))
		require.Equal(t, "google", cfg.API)
	})

	t.Run("no previous file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "genprobe.yml")
		var out bytes.Buffer
		require.NoError(t, resetSettings(&out, path))
		require.NotContains(t, out.String(), ".bak")
		require.FileExists(t, path)
	})
}
