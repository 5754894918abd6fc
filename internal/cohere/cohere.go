// Package cohere implements [probe.Client] for Cohere.
package cohere

import (
	"context"
	"errors"
	"iter"
	"net/http"

	"github.com/charmbracelet/genprobe/internal/probe"
	"github.com/charmbracelet/genprobe/internal/proto"
	cohere "github.com/cohere-ai/cohere-go/v2"
	"github.com/cohere-ai/cohere-go/v2/client"
	"github.com/cohere-ai/cohere-go/v2/core"
	"github.com/cohere-ai/cohere-go/v2/option"
)

var _ probe.Client = &Client{}

// ErrImagesNotSupported happens when a request carries images.
var ErrImagesNotSupported = errors.New("cohere: images are not supported")

// Config represents the configuration for the Cohere API client.
type Config struct {
	AuthToken  string
	BaseURL    string
	HTTPClient *http.Client
}

// DefaultConfig returns the default configuration for the Cohere API client.
func DefaultConfig(authToken string) Config {
	return Config{
		AuthToken:  authToken,
		HTTPClient: &http.Client{},
	}
}

// Client cohere client.
type Client struct {
	*client.Client
}

// New creates a new [Client] with the given [Config].
func New(config Config) *Client {
	opts := []option.RequestOption{
		client.WithToken(config.AuthToken),
		client.WithHTTPClient(config.HTTPClient),
	}

	if config.BaseURL != "" {
		opts = append(opts, client.WithBaseURL(config.BaseURL))
	}

	return &Client{
		Client: client.NewClient(opts...),
	}
}

// Models implements probe.Client.
func (c *Client) Models(ctx context.Context) iter.Seq2[proto.Model, error] {
	return func(yield func(proto.Model, error) bool) {
		req := &cohere.ModelsListRequest{}
		for {
			resp, err := c.Client.Models.List(ctx, req)
			if err != nil {
				yield(proto.Model{}, err)
				return
			}
			for _, m := range resp.Models {
				if m == nil || m.Name == nil {
					continue
				}
				if !yield(proto.Model{Name: *m.Name}, nil) {
					return
				}
			}
			if resp.NextPageToken == nil || *resp.NextPageToken == "" {
				return
			}
			req.PageToken = resp.NextPageToken
		}
	}
}

// Generate implements probe.Client.
func (c *Client) Generate(ctx context.Context, req proto.Request) (proto.Response, error) {
	body, err := fromProtoRequest(req)
	if err != nil {
		return proto.Response{}, err
	}
	resp, err := c.Chat(ctx, body)
	if err != nil {
		return proto.Response{}, err //nolint:wrapcheck
	}
	return proto.Response{
		Model: req.Model,
		Text:  resp.Text,
	}, nil
}

// StatusCode returns the HTTP status code of a Cohere API error, or 0.
func StatusCode(err error) int {
	ae := &core.APIError{}
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	return 0
}
