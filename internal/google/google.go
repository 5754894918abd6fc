// Package google implements [probe.Client] for the Gemini API.
package google

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"

	"github.com/charmbracelet/genprobe/internal/probe"
	"github.com/charmbracelet/genprobe/internal/proto"
	"google.golang.org/genai"
)

var _ probe.Client = &Client{}

// DefaultBaseURL is the Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/"

// Config represents the configuration for the Gemini API client.
type Config struct {
	AuthToken  string
	BaseURL    string
	APIVersion string
	HTTPClient *http.Client
}

// DefaultConfig returns the default configuration for the Gemini API client.
func DefaultConfig(authToken string) Config {
	return Config{
		AuthToken:  authToken,
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{},
	}
}

// Client is a client for the Gemini API.
type Client struct {
	client *genai.Client
}

// New creates a new [Client] with the given [Config].
func New(ctx context.Context, config Config) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     config.AuthToken,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: config.HTTPClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    config.BaseURL,
			APIVersion: config.APIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("google: %w", err)
	}
	return &Client{client: client}, nil
}

// Models implements probe.Client.
func (c *Client) Models(ctx context.Context) iter.Seq2[proto.Model, error] {
	return func(yield func(proto.Model, error) bool) {
		for m, err := range c.client.Models.All(ctx) {
			if err != nil {
				yield(proto.Model{}, err)
				return
			}
			if !yield(toProtoModel(m), nil) {
				return
			}
		}
	}
}

// Generate implements probe.Client.
func (c *Client) Generate(ctx context.Context, req proto.Request) (proto.Response, error) {
	resp, err := c.client.Models.GenerateContent(
		ctx,
		req.Model,
		fromProtoRequest(req),
		generateConfig(req),
	)
	if err != nil {
		return proto.Response{}, err //nolint:wrapcheck
	}
	return proto.Response{
		Model: req.Model,
		Text:  resp.Text(),
	}, nil
}

// StatusCode returns the HTTP status code of a Gemini API error, or 0.
func StatusCode(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code
	}
	return 0
}
