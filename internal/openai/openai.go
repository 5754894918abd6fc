// Package openai implements [probe.Client] for OpenAI and OpenAI compatible
// APIs, like OpenRouter.
package openai

import (
	"context"
	"errors"
	"iter"
	"net/http"

	"github.com/charmbracelet/genprobe/internal/probe"
	"github.com/charmbracelet/genprobe/internal/proto"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var _ probe.Client = &Client{}

// OpenRouterBaseURL is the OpenRouter OpenAI compatible endpoint.
const OpenRouterBaseURL = "https://openrouter.ai/api/v1/"

// Client is the openai client.
type Client struct {
	*openai.Client
}

// Config represents the configuration for the OpenAI API client.
type Config struct {
	AuthToken  string
	BaseURL    string
	HTTPClient interface {
		Do(*http.Request) (*http.Response, error)
	}
	Headers map[string]string
}

// DefaultConfig returns the default configuration for the OpenAI API client.
func DefaultConfig(authToken string) Config {
	return Config{
		AuthToken: authToken,
	}
}

// OpenRouterConfig returns the configuration for OpenRouter.
func OpenRouterConfig(authToken string) Config {
	return Config{
		AuthToken: authToken,
		BaseURL:   OpenRouterBaseURL,
		Headers: map[string]string{
			"HTTP-Referer": "https://github.com/charmbracelet/genprobe",
			"X-Title":      "genprobe",
		},
	}
}

// New creates a new [Client] with the given [Config].
func New(config Config) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(config.AuthToken),
		option.WithMaxRetries(0),
	}
	if config.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(config.HTTPClient))
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	for k, v := range config.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}
	client := openai.NewClient(opts...)
	return &Client{
		Client: &client,
	}
}

// Models implements probe.Client.
func (c *Client) Models(ctx context.Context) iter.Seq2[proto.Model, error] {
	return func(yield func(proto.Model, error) bool) {
		pager := c.Client.Models.ListAutoPaging(ctx)
		for pager.Next() {
			if !yield(toProtoModel(pager.Current()), nil) {
				return
			}
		}
		if err := pager.Err(); err != nil {
			yield(proto.Model{}, err)
		}
	}
}

// Generate implements probe.Client.
func (c *Client) Generate(ctx context.Context, req proto.Request) (proto.Response, error) {
	resp, err := c.Chat.Completions.New(ctx, fromProtoRequest(req))
	if err != nil {
		return proto.Response{}, err //nolint:wrapcheck
	}
	if len(resp.Choices) == 0 {
		return proto.Response{Model: resp.Model}, nil
	}
	return proto.Response{
		Model: resp.Model,
		Text:  resp.Choices[0].Message.Content,
	}, nil
}

// StatusCode returns the HTTP status code of an OpenAI API error, or 0.
func StatusCode(err error) int {
	ae := &openai.Error{}
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	return 0
}
