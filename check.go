package main

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/genprobe/internal/probe"
	"github.com/charmbracelet/x/exp/ordered"
	xstrings "github.com/charmbracelet/x/exp/strings"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Flows.
const (
	flowCheck    = "check"
	flowTest     = "test"
	flowModels   = "models"
	flowGenerate = "generate"
)

func addCheckFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolVar(&config.All, "all", config.All, stdoutStyles().FlagDesc.Render(help["all"]))
	flags.BoolVar(&config.RequireModel, "require-model", config.RequireModel, stdoutStyles().FlagDesc.Render(help["require-model"]))
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "List models and send a test prompt, with troubleshooting steps on failure.",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}
	addCheckFlags(cmd)
	return cmd
}

// newProbe configures a probe of api for the given flow.
func newProbe(cfg Config, api API, flow string) probe.Probe {
	model, prompt, fallback := api.CheckModel, cfg.CheckPrompt, defaultCheckPrompt
	if flow == flowTest {
		model, prompt, fallback = api.TestModel, cfg.TestPrompt, defaultTestPrompt
	}
	return probe.Probe{
		API:          api.Name,
		Model:        ordered.First(cfg.Model, model),
		Prompt:       ordered.First(cfg.Prompt, prompt, fallback),
		RequireModel: cfg.RequireModel,
		Wait:         waiter(cfg),
		Logger:       logger,
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), config.Timeout)
	defer cancel()

	if config.All {
		return checkAll(ctx, cmd.OutOrStdout(), config)
	}

	api, err := selectedAPI(config)
	if err != nil {
		return err
	}
	res := probe.Check(ctx, cmd.OutOrStdout(), setupFor(ctx, api), newProbe(config, api, flowCheck))
	record(config, flowCheck, res)
	if !res.OK() {
		return errReported
	}
	return nil
}

// checkAll checks every configured API concurrently. Reports are printed in
// settings order once all of them finish.
func checkAll(ctx context.Context, w io.Writer, cfg Config) error {
	apis := cfg.APIs
	outs := make([]bytes.Buffer, len(apis))
	results := make([]probe.Result, len(apis))

	var g errgroup.Group
	for i, api := range apis {
		g.Go(func() error {
			results[i] = probe.Check(ctx, &outs[i], setupFor(ctx, api), newProbe(cfg, api, flowCheck))
			return nil
		})
	}
	_ = g.Wait()

	var failed []string
	for i := range apis {
		if i > 0 {
			_, _ = io.WriteString(w, "\n")
		}
		_, _ = outs[i].WriteTo(w)
		record(cfg, flowCheck, results[i])
		if !results[i].OK() {
			failed = append(failed, apis[i].Name)
		}
	}

	_, _ = fmt.Fprintf(w, "\n%d of %d providers working.\n", len(apis)-len(failed), len(apis))
	if len(failed) > 0 {
		_, _ = fmt.Fprintf(w, "Failed: %s.\n", xstrings.EnglishJoin(failed, true))
		return errReported
	}
	return nil
}
