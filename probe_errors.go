package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/genprobe/internal/anthropic"
	"github.com/charmbracelet/genprobe/internal/cohere"
	"github.com/charmbracelet/genprobe/internal/google"
	"github.com/charmbracelet/genprobe/internal/ollama"
	"github.com/charmbracelet/genprobe/internal/openai"
	"github.com/charmbracelet/genprobe/internal/probe"
)

// statusCode finds the HTTP status of a provider error.
func statusCode(err error) int {
	for _, fn := range []func(error) int{
		google.StatusCode,
		openai.StatusCode,
		anthropic.StatusCode,
		cohere.StatusCode,
		ollama.StatusCode,
	} {
		if code := fn(err); code != 0 {
			return code
		}
	}
	return 0
}

// explain wraps a failed probe error with a reason the user can act on.
func explain(api, model string, err error) error {
	if err == nil {
		return nil
	}
	var perr probeError
	if errors.As(err, &perr) {
		return err
	}

	name := probe.Title(api)
	switch {
	case errors.Is(err, probe.ErrMissingAPIKey):
		return probeError{err, fmt.Sprintf("No %s API key found.", name)}
	case errors.Is(err, probe.ErrModelNotFound):
		return probeError{err, fmt.Sprintf("Model '%s' is not available for API '%s'.", model, api)}
	case errors.Is(err, context.DeadlineExceeded):
		return probeError{err, fmt.Sprintf("Timed out waiting for the %s API.", name)}
	}

	switch code := statusCode(err); {
	case code == http.StatusBadRequest:
		return probeError{err, fmt.Sprintf("%s API request error. Check that your API key is valid.", name)}
	case code == http.StatusUnauthorized:
		return probeError{err, fmt.Sprintf("Invalid %s API key.", name)}
	case code == http.StatusForbidden:
		return probeError{err, fmt.Sprintf("Your key can't access the %s API. Make sure the API is enabled and the key has the necessary permissions.", name)}
	case code == http.StatusNotFound:
		return probeError{err, fmt.Sprintf("Missing model '%s' for API '%s'.", model, api)}
	case code == http.StatusTooManyRequests:
		return probeError{err, fmt.Sprintf("You've hit your %s API rate limit.", name)}
	case code >= http.StatusInternalServerError:
		return probeError{err, fmt.Sprintf("%s API server error.", name)}
	default:
		return probeError{err, fmt.Sprintf("There was a problem with the %s API request.", name)}
	}
}
