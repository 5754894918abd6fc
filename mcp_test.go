package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/genprobe/internal/proto"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
)

func ollamaServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/tags":
			_, _ = fmt.Fprint(w, `{"models":[{"name":"llama3.2:latest"},{"name":"llava:7b"}]}`)
		case "/api/generate":
			_, _ = fmt.Fprint(w, `{"model":"llama3.2:latest","response":"Hello there.","done":true}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func mcpTestConfig(t *testing.T, baseURL string) Config {
	t.Helper()
	cfg := defaultConfig()
	cfg.NoHistory = true
	cfg.Quiet = true
	cfg.API = proto.APIOllama
	cfg.APIs = APIs{
		{Name: proto.APIOllama, BaseURL: baseURL, CheckModel: "llama3.2:latest", TestModel: "llama3.2:latest"},
		{Name: proto.APIGoogle, APIKeyEnv: KeyEnvs{"GENPROBE_TEST_MISSING_KEY"}, CheckModel: "gemini-2.0-flash"},
	}
	return cfg
}

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestMCPProbes(t *testing.T) {
	srv := ollamaServer(t)
	p := mcpProbes{cfg: mcpTestConfig(t, srv.URL)}
	ctx := context.Background()

	t.Run("check", func(t *testing.T) {
		res, err := p.check(ctx, callTool("check", nil))
		require.NoError(t, err)
		require.False(t, res.IsError)
		text := resultText(t, res)
		require.Contains(t, text, "Checking Ollama API setup...")
		require.Contains(t, text, "- llava:7b\n")
		require.Contains(t, text, "Response: Hello there.\n")
	})

	t.Run("check missing key", func(t *testing.T) {
		t.Setenv("GENPROBE_TEST_MISSING_KEY", "")
		res, err := p.check(ctx, callTool("check", map[string]any{"api": "google"}))
		require.NoError(t, err)
		require.True(t, res.IsError)
		text := resultText(t, res)
		require.Contains(t, text, "API Key configured: No")
		require.Contains(t, text, "Error: no API key configured")
		require.Contains(t, text, "Troubleshooting steps:")
	})

	t.Run("list models", func(t *testing.T) {
		res, err := p.listModels(ctx, callTool("list_models", nil))
		require.NoError(t, err)
		require.False(t, res.IsError)
		require.Equal(t, "Available models:\n- llama3.2:latest\n- llava:7b\n", resultText(t, res))
	})

	t.Run("generate", func(t *testing.T) {
		res, err := p.generate(ctx, callTool("generate", map[string]any{"prompt": "hi"}))
		require.NoError(t, err)
		require.False(t, res.IsError)
		require.Equal(t, "Hello there.", resultText(t, res))
	})

	t.Run("generate with sampling options", func(t *testing.T) {
		res, err := p.generate(ctx, callTool("generate", map[string]any{
			"prompt":      "hi",
			"max_tokens":  float64(8),
			"temperature": 0.2,
		}))
		require.NoError(t, err)
		require.False(t, res.IsError)

		res, err = p.generate(ctx, callTool("generate", map[string]any{
			"prompt":     "hi",
			"max_tokens": float64(0),
		}))
		require.NoError(t, err)
		require.True(t, res.IsError)
		require.Contains(t, resultText(t, res), "Max tokens must be a positive number.")
	})

	t.Run("generate without prompt", func(t *testing.T) {
		res, err := p.generate(ctx, callTool("generate", nil))
		require.NoError(t, err)
		require.True(t, res.IsError)
	})

	t.Run("unknown api", func(t *testing.T) {
		res, err := p.listModels(ctx, callTool("list_models", map[string]any{"api": "nope"}))
		require.NoError(t, err)
		require.True(t, res.IsError)
		require.Contains(t, resultText(t, res), "API 'nope' is not in the settings. Use one of ollama and google.")
	})
}

func TestMCPLastResult(t *testing.T) {
	srv := ollamaServer(t)
	cfg := mcpTestConfig(t, srv.URL)
	cfg.NoHistory = false
	cfg.DataPath = t.TempDir()
	p := mcpProbes{cfg: cfg}
	ctx := context.Background()

	res, err := p.lastResult(ctx, callTool("last_result", nil))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Equal(t, "No probes of ollama recorded yet.", resultText(t, res))

	_, err = p.check(ctx, callTool("check", nil))
	require.NoError(t, err)

	res, err = p.lastResult(ctx, callTool("last_result", nil))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Contains(t, resultText(t, res), "ok     ollama     check    llama3.2:latest")
}

func TestNewMCPServer(t *testing.T) {
	require.NotNil(t, newMCPServer(mcpTestConfig(t, "http://localhost:11434")))
}
