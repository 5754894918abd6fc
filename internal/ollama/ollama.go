// Package ollama implements [probe.Client] for Ollama.
package ollama

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/genprobe/internal/probe"
	"github.com/charmbracelet/genprobe/internal/proto"
	"github.com/ollama/ollama/api"
)

var _ probe.Client = &Client{}

// DefaultBaseURL is the address `ollama serve` listens on.
const DefaultBaseURL = "http://localhost:11434/"

// Config represents the configuration for the Ollama API client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// DefaultConfig returns the default configuration for the Ollama API client.
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{},
	}
}

// Client ollama client.
type Client struct {
	*api.Client
}

// New creates a new [Client] with the given [Config].
func New(config Config) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(config.BaseURL, "/api"))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	client := api.NewClient(u, config.HTTPClient)
	return &Client{
		Client: client,
	}, nil
}

// Models implements probe.Client.
func (c *Client) Models(ctx context.Context) iter.Seq2[proto.Model, error] {
	return func(yield func(proto.Model, error) bool) {
		resp, err := c.List(ctx)
		if err != nil {
			yield(proto.Model{}, err)
			return
		}
		for _, m := range resp.Models {
			if !yield(proto.Model{Name: m.Name}, nil) {
				return
			}
		}
	}
}

// Generate implements probe.Client.
func (c *Client) Generate(ctx context.Context, req proto.Request) (proto.Response, error) {
	var sb strings.Builder
	var model string
	if err := c.Client.Generate(ctx, fromProtoRequest(req), func(resp api.GenerateResponse) error {
		model = resp.Model
		sb.WriteString(resp.Response)
		return nil
	}); err != nil {
		return proto.Response{}, err //nolint:wrapcheck
	}
	if model == "" {
		model = req.Model
	}
	return proto.Response{
		Model: model,
		Text:  sb.String(),
	}, nil
}

// StatusCode returns the HTTP status code of an Ollama API error, or 0.
func StatusCode(err error) int {
	var se api.StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	var sep *api.StatusError
	if errors.As(err, &sep) {
		return sep.StatusCode
	}
	return 0
}

func fromProtoRequest(req proto.Request) *api.GenerateRequest {
	stream := false
	body := &api.GenerateRequest{
		Model:   req.Model,
		Prompt:  req.Prompt,
		Stream:  &stream,
		Options: map[string]any{},
	}
	for _, img := range req.Images {
		body.Images = append(body.Images, api.ImageData(img.Data))
	}
	if req.MaxTokens != nil {
		body.Options["num_predict"] = *req.MaxTokens
	}
	if req.Temperature != nil {
		body.Options["temperature"] = *req.Temperature
	}
	return body
}
