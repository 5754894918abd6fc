package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/genprobe/internal/probe"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/exp/ordered"
	"github.com/spf13/cobra"
)

const wordWrap = 80

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [PROMPT...]",
		Short: "Send a prompt and print the generated text.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), config.Timeout)
			defer cancel()

			api, err := selectedAPI(config)
			if err != nil {
				return err
			}

			var stdin io.Reader
			if !isInputTTY() {
				stdin = os.Stdin
			}
			prompt, err := readPrompt(ctx, args, stdin)
			if err != nil {
				return probeError{err, "Could not read the prompt."}
			}
			images, err := readImages(config.Images)
			if err != nil {
				return err
			}

			p := newProbe(config, api, flowCheck)
			p.SkipModels = true
			p.Prompt = ordered.First(prompt, p.Prompt)
			p.Images = images
			var maxTokens *int64
			var temperature *float64
			if cmd.Flags().Changed("max-tokens") {
				maxTokens = &config.MaxTokens
			}
			if cmd.Flags().Changed("temperature") {
				temperature = &config.Temperature
			}
			if p, err = withSampling(p, maxTokens, temperature); err != nil {
				return err
			}
			res, err := probe.Test(ctx, io.Discard, setupFor(ctx, api), p)
			record(config, flowGenerate, res)
			if err != nil {
				return explain(api.Name, p.Model, err)
			}

			text := res.Response.Text
			if config.Copy {
				if err := clipboard.WriteAll(text); err != nil {
					logger.Warn("could not copy to clipboard", "err", err)
				}
			}
			if !config.Raw && isOutputTTY() {
				text = renderMarkdown(text)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err //nolint:wrapcheck
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&config.Raw, "raw", config.Raw, stdoutStyles().FlagDesc.Render(help["raw"]))
	flags.BoolVarP(&config.Copy, "copy", "c", config.Copy, stdoutStyles().FlagDesc.Render(help["copy"]))
	flags.StringArrayVar(&config.Images, "image", nil, stdoutStyles().FlagDesc.Render(help["image"]))
	flags.Int64Var(&config.MaxTokens, "max-tokens", config.MaxTokens, stdoutStyles().FlagDesc.Render(help["max-tokens"]))
	flags.Float64Var(&config.Temperature, "temperature", config.Temperature, stdoutStyles().FlagDesc.Render(help["temperature"]))
	return cmd
}

// withSampling sets the sampling options of p. Nil values are left to the
// provider.
func withSampling(p probe.Probe, maxTokens *int64, temperature *float64) (probe.Probe, error) {
	if maxTokens != nil && *maxTokens <= 0 {
		return p, probeError{
			fmt.Errorf("invalid max tokens: %d", *maxTokens),
			"Max tokens must be a positive number.",
		}
	}
	if temperature != nil && *temperature < 0 {
		return p, probeError{
			fmt.Errorf("invalid temperature: %v", *temperature),
			"Temperature can't be negative.",
		}
	}
	p.MaxTokens = maxTokens
	p.Temperature = temperature
	return p, nil
}

// readPrompt joins the arguments and stdin, if any. A single file:// or
// http(s):// argument is replaced by its contents.
func readPrompt(ctx context.Context, args []string, stdin io.Reader) (string, error) {
	prompt := strings.Join(args, " ")
	if len(args) == 1 {
		var err error
		if prompt, err = loadMsg(ctx, args[0]); err != nil {
			return "", err
		}
	}
	if stdin == nil {
		return strings.TrimSpace(prompt), nil
	}
	bts, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("could not read stdin: %w", err)
	}
	if in := strings.TrimSpace(string(bts)); in != "" {
		prompt = strings.TrimSpace(prompt + "\n\n" + in)
	}
	return strings.TrimSpace(prompt), nil
}

func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		logger.Debug("could not create markdown renderer", "err", err)
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		logger.Debug("could not render markdown", "err", err)
		return text
	}
	return strings.TrimRight(out, "\n")
}
