package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: help["settings"],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if config.ResetSettings {
				return resetSettings(cmd.OutOrStdout(), config.SettingsPath)
			}
			return editSettings(cmd.OutOrStdout(), config.SettingsPath)
		},
	}
	cmd.Flags().BoolVar(&config.ResetSettings, "reset", config.ResetSettings, stdoutStyles().FlagDesc.Render(help["reset"]))
	return cmd
}

func editSettings(w io.Writer, path string) error {
	c, err := editor.Cmd("genprobe", path)
	if err != nil {
		return probeError{err, "Could not edit your settings file."}
	}
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return probeError{err, fmt.Sprintf("Missing %s.", stderrStyles().InlineCode.Render("$EDITOR"))}
	}
	_, _ = fmt.Fprintln(w, "Wrote config file to:", path)
	return nil
}

func resetSettings(w io.Writer, path string) error {
	_, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return probeError{err, "Couldn't read config file."}
	}
	if err == nil {
		backup := path + ".bak"
		if err := os.Rename(path, backup); err != nil {
			return probeError{err, "Couldn't backup config file."}
		}
		_, _ = fmt.Fprintln(w, "Your old settings have been saved to:", backup)
	}
	if err := createConfigFile(path); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, "Settings restored to defaults!")
	return nil
}
