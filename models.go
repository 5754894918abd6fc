package main

import (
	"context"
	"errors"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/genprobe/internal/cache"
	"github.com/charmbracelet/genprobe/internal/probe"
	"github.com/charmbracelet/genprobe/internal/proto"
	"github.com/spf13/cobra"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models the provider exposes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), config.Timeout)
			defer cancel()

			api, err := selectedAPI(config)
			if err != nil {
				return err
			}
			p := newProbe(config, api, flowCheck)
			p.SkipGenerate = true
			res, err := probe.Test(ctx, cmd.OutOrStdout(), setupFor(ctx, api), p)
			record(config, flowModels, res)
			if err != nil {
				forgetModels(config, api.Name)
				return explain(api.Name, p.Model, err)
			}
			rememberModels(config, api.Name, res.Models)
			return nil
		},
	}
}

func modelsCache(cfg Config) (*cache.Models, error) {
	return cache.NewModels(cfg.DataPath) //nolint:wrapcheck
}

func rememberModels(cfg Config, api string, models []proto.Model) {
	c, err := modelsCache(cfg)
	if err != nil {
		logger.Debug("could not open models cache", "err", err)
		return
	}
	if err := c.Set(api, models); err != nil {
		logger.Debug("could not cache models", "api", api, "err", err)
	}
}

// forgetModels drops the cached listing of api, so completions don't offer
// models of a provider that stopped answering.
func forgetModels(cfg Config, api string) {
	c, err := modelsCache(cfg)
	if err != nil {
		logger.Debug("could not open models cache", "err", err)
		return
	}
	if err := c.Forget(api); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Debug("could not forget models", "api", api, "err", err)
	}
}

// knownModels returns the model names to complete for api: the ones in the
// settings, the defaults and the last listing, if still fresh.
func knownModels(cfg Config, api API) []string {
	names := []string{api.CheckModel, api.TestModel}
	names = append(names, api.Models...)
	if c, err := modelsCache(cfg); err == nil {
		if models, err := c.Get(api.Name); err == nil {
			for _, m := range models {
				names = append(names, proto.ShortName(m.Name))
			}
		}
	}
	names = slices.DeleteFunc(names, func(s string) bool { return s == "" })
	slices.Sort(names)
	return slices.Compact(names)
}

func completeModels(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	api, err := selectedAPI(config)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var result []string
	for _, name := range knownModels(config, api) {
		if strings.HasPrefix(name, toComplete) {
			result = append(result, name)
		}
	}
	return result, cobra.ShellCompDirectiveNoFileComp
}
