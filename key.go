package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/caarlos0/go-shellwords"
	"github.com/charmbracelet/genprobe/internal/probe"
)

// apiKey resolves the key for api. The first non-empty environment variable
// in api-key-env wins, then api-key, then the output of api-key-cmd.
func apiKey(ctx context.Context, api API) (string, error) {
	for _, name := range api.APIKeyEnv {
		if key := os.Getenv(name); key != "" {
			return key, nil
		}
	}
	if api.APIKey != "" {
		return api.APIKey, nil
	}
	if api.APIKeyCmd != "" {
		return runKeyCmd(ctx, api.APIKeyCmd)
	}
	return "", probe.ErrMissingAPIKey
}

func runKeyCmd(ctx context.Context, cmd string) (string, error) {
	args, err := shellwords.Parse(cmd)
	if err != nil {
		return "", probeError{err, "Failed to parse api-key-cmd."}
	}
	if len(args) == 0 {
		return "", probeError{errors.New("empty command"), "Failed to parse api-key-cmd."}
	}
	out, err := exec.CommandContext(ctx, args[0], args[1:]...).Output() //nolint:gosec
	if err != nil {
		return "", probeError{fmt.Errorf("%s: %w", args[0], err), "Cannot exec api-key-cmd."}
	}
	key := strings.TrimSpace(string(out))
	if key == "" {
		return "", fmt.Errorf("api-key-cmd printed nothing: %w", probe.ErrMissingAPIKey)
	}
	return key, nil
}
