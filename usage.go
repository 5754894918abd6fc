package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/x/exp/ordered"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
)

func useLine(cmd *cobra.Command) string {
	appName := filepath.Base(os.Args[0])
	if stdoutRenderer().ColorProfile() == termenv.TrueColor {
		appName = makeGradientText(stdoutStyles().AppName, appName)
	}

	args := "[COMMAND] [OPTIONS]"
	if cmd.HasParent() {
		appName += " " + cmd.Name()
		args = "[OPTIONS]"
		if cmd.Name() == flowGenerate {
			args = "[OPTIONS] [PROMPT]"
		}
	}
	return fmt.Sprintf("%s %s", appName, stdoutStyles().CliArgs.Render(args))
}

func usageFunc(cmd *cobra.Command) error {
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "%s\n\n", ordered.First(cmd.Long, cmd.Short))
	_, _ = fmt.Fprintf(w, "Usage:\n  %s\n\n", useLine(cmd))

	if cmds := availableCommands(cmd); len(cmds) > 0 {
		_, _ = fmt.Fprintln(w, "Commands:")
		for _, c := range cmds {
			_, _ = fmt.Fprintf(
				w,
				"  %-12s %s\n",
				c.Name(),
				stdoutStyles().FlagDesc.Render(c.Short),
			)
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintln(w, "Options:")
	printFlag := func(f *flag.Flag) {
		if f.Hidden {
			return
		}
		if f.Shorthand == "" {
			_, _ = fmt.Fprintf(
				w,
				"  %-44s %s\n",
				stdoutStyles().Flag.Render("--"+f.Name),
				stdoutStyles().FlagDesc.Render(f.Usage),
			)
			return
		}
		_, _ = fmt.Fprintf(
			w,
			"  %s%s %-40s %s\n",
			stdoutStyles().Flag.Render("-"+f.Shorthand),
			stdoutStyles().FlagComma,
			stdoutStyles().Flag.Render("--"+f.Name),
			stdoutStyles().FlagDesc.Render(f.Usage),
		)
	}
	cmd.LocalFlags().VisitAll(printFlag)
	cmd.InheritedFlags().VisitAll(printFlag)

	desc, example := randomExample()
	_, _ = fmt.Fprintf(
		w,
		"\nExample:\n  %s\n  %s\n",
		stdoutStyles().Comment.Render("# "+desc),
		cheapHighlighting(stdoutStyles(), example),
	)
	return nil
}

func availableCommands(cmd *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() {
			cmds = append(cmds, c)
		}
	}
	return cmds
}

