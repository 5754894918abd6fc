package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/genprobe/internal/probe"
	"github.com/charmbracelet/genprobe/internal/proto"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	ctx := context.Background()
	for _, api := range defaultAPIs {
		t.Run(api.Name, func(t *testing.T) {
			c, err := newClient(ctx, api, "key", &http.Client{})
			require.NoError(t, err)
			require.NotNil(t, c)
		})
	}

	t.Run("openai compatible", func(t *testing.T) {
		c, err := newClient(ctx, API{Name: "localai", BaseURL: "http://localhost:8080"}, "", &http.Client{})
		require.NoError(t, err)
		require.NotNil(t, c)
	})

	t.Run("unknown without base url", func(t *testing.T) {
		_, err := newClient(ctx, API{Name: "nope"}, "", &http.Client{})
		var perr probeError
		require.ErrorAs(t, err, &perr)
		require.Equal(t, "API 'nope' needs a base-url in the settings.", perr.Reason())
	})
}

func TestNeedsKey(t *testing.T) {
	require.True(t, API{Name: proto.APIGoogle}.NeedsKey())
	require.False(t, API{Name: proto.APIOllama}.NeedsKey())
	require.False(t, API{Name: "localai"}.NeedsKey())
	require.True(t, API{Name: "localai", APIKeyEnv: KeyEnvs{"LOCALAI_KEY"}}.NeedsKey())
}

func TestSetupFor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = fmt.Fprint(w, `{"models":[{"name":"llama3.2:latest"}]}`)
		case "/api/generate":
			_, _ = fmt.Fprint(w, `{"model":"llama3.2:latest","response":"hi","done":true}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	api := API{Name: proto.APIOllama, BaseURL: srv.URL, CheckModel: "llama3.2:latest"}
	s := setupFor(context.Background(), api)
	require.Equal(t, "Ollama", s.Name)
	require.False(t, s.NeedsKey)
	require.Len(t, s.Checklist, 5)

	res, err := probe.Test(context.Background(), io.Discard, s, probe.Probe{
		API:    api.Name,
		Model:  api.CheckModel,
		Prompt: "hello",
	})
	require.NoError(t, err)
	require.Equal(t, "hi", res.Response.Text)
	require.Len(t, res.Models, 1)
}
