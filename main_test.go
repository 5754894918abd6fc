package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/genprobe/internal/proto"
	"github.com/stretchr/testify/require"
)

func TestIsCompletionCmd(t *testing.T) {
	for args, is := range map[string]bool{
		"":                                     false,
		"something":                            false,
		"something something":                  false,
		"completion for my bash script how to": false,
		"completion bash how to":               false,
		"completion":                           false,
		"completion -h":                        true,
		"completion --help":                    true,
		"completion help":                      true,
		"completion bash":                      true,
		"completion fish":                      true,
		"completion zsh":                       true,
		"completion powershell":                true,
		"completion bash -h":                   true,
		"completion fish -h":                   true,
		"completion zsh -h":                    true,
		"completion powershell -h":             true,
		"completion bash --help":               true,
		"completion fish --help":               true,
		"completion zsh --help":                true,
		"completion powershell --help":         true,
		"__complete":                           true,
		"__complete blah blah blah":            true,
	} {
		t.Run(args, func(t *testing.T) {
			vargs := append([]string{"genprobe"}, strings.Fields(args)...)
			if b := isCompletionCmd(vargs); b != is {
				t.Errorf("%v: expected %v, got %v", vargs, is, b)
			}
		})
	}
}

func TestIsManCmd(t *testing.T) {
	for args, is := range map[string]bool{
		"":                    false,
		"something":           false,
		"something something": false,
		"man is no more":      false,
		"mans":                false,
		"man foo":             false,
		"man":                 true,
		"man -h":              true,
		"man --help":          true,
	} {
		t.Run(args, func(t *testing.T) {
			vargs := append([]string{"genprobe"}, strings.Fields(args)...)
			if b := isManCmd(vargs); b != is {
				t.Errorf("%v: expected %v, got %v", vargs, is, b)
			}
		})
	}
}

func TestSelectedAPI(t *testing.T) {
	cfg := defaultConfig()
	cfg.APIs = withDefaults(nil)

	t.Run("default", func(t *testing.T) {
		cfg := cfg
		cfg.API = ""
		api, err := selectedAPI(cfg)
		require.NoError(t, err)
		require.Equal(t, proto.APIGoogle, api.Name)
	})

	t.Run("by name", func(t *testing.T) {
		cfg := cfg
		cfg.API = proto.APICohere
		api, err := selectedAPI(cfg)
		require.NoError(t, err)
		require.Equal(t, "command-r", api.CheckModel)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := cfg
		cfg.API = "bard"
		_, err := selectedAPI(cfg)
		var perr probeError
		require.ErrorAs(t, err, &perr)
		require.Equal(t, "API 'bard' is not in the settings. Use one of google, openai, openrouter, anthropic, cohere, and ollama.", perr.Reason())
	})
}

func TestUsage(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	require.NoError(t, usageFunc(root))
	require.Contains(t, out.String(), "Commands:")
	require.Contains(t, out.String(), "check")
	require.Contains(t, out.String(), "--require-model")
	require.NotContains(t, out.String(), "  man ")
	require.Contains(t, out.String(), "Example:")
}

func TestManCmd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"man"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	require.Contains(t, out.String(), "genprobe")
}
