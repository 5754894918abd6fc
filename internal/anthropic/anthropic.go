// Package anthropic implements [probe.Client] for the Anthropic API.
package anthropic

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/charmbracelet/genprobe/internal/probe"
	"github.com/charmbracelet/genprobe/internal/proto"
)

var _ probe.Client = &Client{}

// defaultMaxTokens is used when the request doesn't set a limit, as the
// messages API requires one.
const defaultMaxTokens = 1024

// Client is a client for the Anthropic API.
type Client struct {
	*anthropic.Client
}

// Config represents the configuration for the Anthropic API client.
type Config struct {
	AuthToken  string
	BaseURL    string
	HTTPClient *http.Client
}

// DefaultConfig returns the default configuration for the Anthropic API client.
func DefaultConfig(authToken string) Config {
	return Config{
		AuthToken:  authToken,
		HTTPClient: &http.Client{},
	}
}

// New creates a new [Client] with the given [Config].
func New(config Config) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(config.AuthToken),
		option.WithHTTPClient(config.HTTPClient),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(config.BaseURL, "/v1")))
	}
	client := anthropic.NewClient(opts...)
	return &Client{
		Client: &client,
	}
}

// Models implements probe.Client.
func (c *Client) Models(ctx context.Context) iter.Seq2[proto.Model, error] {
	return func(yield func(proto.Model, error) bool) {
		pager := c.Client.Models.ListAutoPaging(ctx, anthropic.ModelListParams{})
		for pager.Next() {
			m := pager.Current()
			if !yield(proto.Model{Name: m.ID, DisplayName: m.DisplayName}, nil) {
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
	msg, err := c.Messages.New(ctx, fromProtoRequest(req))
	if err != nil {
		return proto.Response{}, err //nolint:wrapcheck
	}
	return proto.Response{
		Model: string(msg.Model),
		Text:  text(msg.Content),
	}, nil
}

// StatusCode returns the HTTP status code of an Anthropic API error, or 0.
func StatusCode(err error) int {
	ae := &anthropic.Error{}
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	return 0
}
