package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"slices"

	"github.com/charmbracelet/genprobe/internal/proto"
	"github.com/charmbracelet/log"
	xstrings "github.com/charmbracelet/x/exp/strings"
	"github.com/spf13/cobra"
)

// Build vars.
var (
	//nolint: gochecknoglobals
	Version   = ""
	CommitSHA = ""
)

var (
	config = defaultConfig()
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "genprobe"})
)

// errReported means the failure was already printed.
var errReported = errors.New("probe failed")

func buildVersion() string {
	if len(CommitSHA) >= 7 { //nolint:mnd
		return Version + " (" + CommitSHA[:7] + ")"
	}
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
		return info.Main.Version + " (" + info.Main.Sum + ")"
	}
	return "unknown (built from source)"
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "genprobe",
		Short:         "Check that your generative AI API keys work.",
		Long:          "genprobe lists the models a provider exposes and sends a test prompt, so you know your key and setup work.",
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRun: func(*cobra.Command, []string) {
			if config.Verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
		RunE: runCheck,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&config.API, "api", "a", config.API, stdoutStyles().FlagDesc.Render(help["api"]))
	flags.StringVarP(&config.Model, "model", "m", config.Model, stdoutStyles().FlagDesc.Render(help["model"]))
	flags.StringVarP(&config.Prompt, "prompt", "p", config.Prompt, stdoutStyles().FlagDesc.Render(help["prompt"]))
	flags.Var(newDurationFlag(config.Timeout, &config.Timeout), "timeout", stdoutStyles().FlagDesc.Render(help["timeout"]))
	flags.BoolVarP(&config.Quiet, "quiet", "q", config.Quiet, stdoutStyles().FlagDesc.Render(help["quiet"]))
	flags.BoolVarP(&config.Verbose, "verbose", "v", config.Verbose, stdoutStyles().FlagDesc.Render(help["verbose"]))
	flags.BoolVar(&config.NoHistory, "no-history", config.NoHistory, stdoutStyles().FlagDesc.Render(help["no-history"]))
	addCheckFlags(root)

	_ = root.RegisterFlagCompletionFunc("api", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return config.APIs.Names(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = root.RegisterFlagCompletionFunc("model", completeModels)

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return newFlagParseError(err)
	})
	root.SetUsageFunc(usageFunc)

	root.AddCommand(
		newCheckCmd(),
		newTestCmd(),
		newModelsCmd(),
		newGenerateCmd(),
		newHistoryCmd(),
		newSettingsCmd(),
		newConfigureCmd(),
		newMCPCmd(),
		newManCmd(),
	)
	return root
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// completions and man pages must not fail because of a broken settings
	// file.
	switch cfg, err := ensureConfig(); {
	case err == nil:
		config = cfg
	case isCompletionCmd(os.Args) || isManCmd(os.Args):
		config.APIs = withDefaults(nil)
	default:
		handleError(err)
		os.Exit(1)
	}

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			handleError(err)
		}
		cancel()
		os.Exit(1) //nolint:gocritic
	}
}

func handleError(err error) {
	format := "\n%s\n\n"

	var args []any
	var ferr flagParseError
	var perr probeError
	if errors.As(err, &ferr) {
		format += "%s\n\n"
		args = []any{
			fmt.Sprintf(
				"Check out %s %s",
				stderrStyles().InlineCode.Render("genprobe -h"),
				stderrStyles().Comment.Render("for help."),
			),
			fmt.Sprintf(
				ferr.ReasonFormat(),
				stderrStyles().InlineCode.Render(ferr.Flag()),
			),
		}
	} else if errors.As(err, &perr) {
		format += "%s\n\n"
		args = []any{
			stderrStyles().ErrPadding.Render(stderrStyles().ErrorHeader.String(), perr.Reason()),
			stderrStyles().ErrPadding.Render(stderrStyles().ErrorDetails.Render(err.Error())),
		}
	} else {
		args = []any{
			stderrStyles().ErrPadding.Render(stderrStyles().ErrorDetails.Render(err.Error())),
		}
	}

	fmt.Fprintf(os.Stderr, format, args...)
}

// selectedAPI returns the API picked with --api or the settings.
func selectedAPI(cfg Config) (API, error) {
	name := cfg.API
	if name == "" {
		name = proto.APIGoogle
	}
	api, ok := cfg.APIs.Find(name)
	if !ok {
		return api, probeError{
			fmt.Errorf("unknown API %q", name),
			fmt.Sprintf(
				"API '%s' is not in the settings. Use one of %s.",
				name,
				xstrings.EnglishJoin(cfg.APIs.Names(), true),
			),
		}
	}
	return api, nil
}

func isManCmd(args []string) bool {
	if len(args) == 2 { //nolint:mnd
		return args[1] == "man"
	}
	if len(args) == 3 && args[1] == "man" { //nolint:mnd
		return args[2] == "-h" || args[2] == "--help"
	}
	return false
}

func isCompletionCmd(args []string) bool {
	if len(args) <= 1 {
		return false
	}
	if args[1] == "__complete" {
		return true
	}
	if args[1] != "completion" {
		return false
	}
	if len(args) == 3 && (args[2] == "-h" || args[2] == "--help" || args[2] == "help") { //nolint:mnd
		return true
	}
	shells := []string{"bash", "fish", "zsh", "powershell"}
	if len(args) == 3 { //nolint:mnd
		return slices.Contains(shells, args[2])
	}
	if len(args) == 4 { //nolint:mnd
		return slices.Contains(shells, args[2]) && (args[3] == "-h" || args[3] == "--help")
	}
	return false
}
