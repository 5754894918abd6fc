package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/genprobe/internal/proto"
	"github.com/stretchr/testify/require"
)

func TestKnownModels(t *testing.T) {
	cfg := defaultConfig()
	cfg.DataPath = t.TempDir()
	api := API{
		Name:       proto.APIGoogle,
		CheckModel: "gemini-2.0-flash",
		TestModel:  "gemini-1.5-flash",
		Models:     []string{"gemini-2.5-pro", "gemini-2.0-flash"},
	}

	require.Equal(t, []string{
		"gemini-1.5-flash",
		"gemini-2.0-flash",
		"gemini-2.5-pro",
	}, knownModels(cfg, api))

	rememberModels(cfg, proto.APIGoogle, []proto.Model{
		{Name: "models/gemini-2.0-flash-lite"},
		{Name: "models/gemini-2.0-flash"},
	})
	require.Equal(t, []string{
		"gemini-1.5-flash",
		"gemini-2.0-flash",
		"gemini-2.0-flash-lite",
		"gemini-2.5-pro",
	}, knownModels(cfg, api))
}

func TestModelsCmd(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() || r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3.2:latest"},{"name":"llava:7b"}]}`))
	}))
	t.Cleanup(srv.Close)

	old := config
	t.Cleanup(func() { config = old })
	config = mcpTestConfig(t, srv.URL)
	config.DataPath = t.TempDir()
	api, _ := config.APIs.Find(proto.APIOllama)

	run := func() error {
		root := newRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetArgs([]string{"models"})
		return root.ExecuteContext(context.Background())
	}

	require.NoError(t, run())
	require.Contains(t, knownModels(config, api), "llava:7b")

	fail.Store(true)
	require.Error(t, run())
	require.NotContains(t, knownModels(config, api), "llava:7b")
}
