package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/genprobe/internal/anthropic"
	"github.com/charmbracelet/genprobe/internal/cohere"
	"github.com/charmbracelet/genprobe/internal/google"
	"github.com/charmbracelet/genprobe/internal/ollama"
	"github.com/charmbracelet/genprobe/internal/openai"
	"github.com/charmbracelet/genprobe/internal/probe"
	"github.com/charmbracelet/genprobe/internal/proto"
	"github.com/charmbracelet/x/exp/ordered"
)

// setupFor returns how to authenticate and connect to api.
func setupFor(ctx context.Context, api API) probe.Setup {
	return probe.Setup{
		Name:     probe.Title(api.Name),
		NeedsKey: api.NeedsKey(),
		Key: func() (string, error) {
			return apiKey(ctx, api)
		},
		Connect: func(key string) (probe.Client, error) {
			return newClient(ctx, api, key, &http.Client{})
		},
		Checklist: probe.ChecklistFor(api.Name, api.KeyEnv()),
	}
}

func newClient(ctx context.Context, api API, key string, hc *http.Client) (probe.Client, error) {
	switch api.Name {
	case proto.APIGoogle:
		cfg := google.DefaultConfig(key)
		cfg.BaseURL = ordered.First(api.BaseURL, cfg.BaseURL)
		cfg.HTTPClient = hc
		c, err := google.New(ctx, cfg)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}
		return c, nil
	case proto.APIOpenRouter:
		cfg := openai.OpenRouterConfig(key)
		cfg.BaseURL = ordered.First(api.BaseURL, cfg.BaseURL)
		cfg.HTTPClient = hc
		return openai.New(cfg), nil
	case proto.APIAnthropic:
		cfg := anthropic.DefaultConfig(key)
		cfg.BaseURL = api.BaseURL
		cfg.HTTPClient = hc
		return anthropic.New(cfg), nil
	case proto.APICohere:
		cfg := cohere.DefaultConfig(key)
		cfg.BaseURL = api.BaseURL
		cfg.HTTPClient = hc
		return cohere.New(cfg), nil
	case proto.APIOllama:
		cfg := ollama.DefaultConfig()
		cfg.BaseURL = ordered.First(api.BaseURL, cfg.BaseURL)
		cfg.HTTPClient = hc
		c, err := ollama.New(cfg)
		if err != nil {
			return nil, probeError{err, fmt.Sprintf("Invalid base-url for API '%s'.", api.Name)}
		}
		return c, nil
	case proto.APIOpenAI:
		cfg := openai.DefaultConfig(key)
		cfg.BaseURL = api.BaseURL
		cfg.HTTPClient = hc
		return openai.New(cfg), nil
	default:
		// anything else is assumed to be OpenAI compatible
		if api.BaseURL == "" {
			return nil, probeError{
				fmt.Errorf("unknown API %q", api.Name),
				fmt.Sprintf("API '%s' needs a base-url in the settings.", api.Name),
			}
		}
		cfg := openai.DefaultConfig(key)
		cfg.BaseURL = api.BaseURL
		cfg.HTTPClient = hc
		return openai.New(cfg), nil
	}
}
