package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/charmbracelet/genprobe/internal/probe"
	"github.com/charmbracelet/genprobe/internal/proto"
	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestExplain(t *testing.T) {
	gemini := func(code int) error {
		return genai.APIError{Code: code, Message: http.StatusText(code)}
	}

	for name, tt := range map[string]struct {
		api    string
		err    error
		reason string
	}{
		"missing key": {
			proto.APIGoogle,
			probe.ErrMissingAPIKey,
			"No Gemini API key found.",
		},
		"model not listed": {
			proto.APIOpenRouter,
			fmt.Errorf("%w: m", probe.ErrModelNotFound),
			"Model 'm' is not available for API 'openrouter'.",
		},
		"timeout": {
			proto.APIAnthropic,
			context.DeadlineExceeded,
			"Timed out waiting for the Anthropic API.",
		},
		"bad request": {
			proto.APIGoogle,
			gemini(http.StatusBadRequest),
			"Gemini API request error. Check that your API key is valid.",
		},
		"forbidden": {
			proto.APIGoogle,
			gemini(http.StatusForbidden),
			"Your key can't access the Gemini API. Make sure the API is enabled and the key has the necessary permissions.",
		},
		"not found": {
			proto.APIGoogle,
			gemini(http.StatusNotFound),
			"Missing model 'm' for API 'google'.",
		},
		"rate limit": {
			proto.APIGoogle,
			gemini(http.StatusTooManyRequests),
			"You've hit your Gemini API rate limit.",
		},
		"ollama server error": {
			proto.APIOllama,
			api.StatusError{StatusCode: http.StatusInternalServerError, ErrorMessage: "boom"},
			"Ollama API server error.",
		},
		"wrapped": {
			proto.APIGoogle,
			fmt.Errorf("models: %w", gemini(http.StatusUnauthorized)),
			"Invalid Gemini API key.",
		},
		"unknown": {
			proto.APICohere,
			errors.New("connection refused"),
			"There was a problem with the Cohere API request.",
		},
	} {
		t.Run(name, func(t *testing.T) {
			err := explain(tt.api, "m", tt.err)
			var perr probeError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, tt.reason, perr.Reason())
			require.Equal(t, tt.err, errors.Unwrap(err))
		})
	}

	t.Run("nil", func(t *testing.T) {
		require.NoError(t, explain(proto.APIGoogle, "m", nil))
	})

	t.Run("already explained", func(t *testing.T) {
		in := probeError{errors.New("x"), "Custom."}
		require.Equal(t, error(in), explain(proto.APIGoogle, "m", in))
	})
}
