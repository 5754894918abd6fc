package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Pick the default provider and model interactively.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isInputTTY() {
				return probeError{errors.New("stdin is not a terminal"), "Configure needs an interactive terminal."}
			}

			apiName := config.API
			if err := huh.NewForm(
				huh.NewGroup(
					huh.NewSelect[string]().
						Title("Which provider do you want to probe by default?").
						Options(huh.NewOptions(config.APIs.Names()...)...).
						Value(&apiName),
				),
			).Run(); err != nil {
				return probeError{err, "Configuration cancelled."}
			}

			api, _ := config.APIs.Find(apiName)
			model := api.CheckModel
			if err := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Which model should genprobe check?").
						Suggestions(knownModels(config, api)).
						Value(&model),
				),
			).Run(); err != nil {
				return probeError{err, "Configuration cancelled."}
			}

			content, err := os.ReadFile(config.SettingsPath)
			if err != nil {
				return probeError{err, "Could not read settings file."}
			}
			updated, err := updateSettings(content, apiName, model)
			if err != nil {
				return probeError{err, "Could not update settings file."}
			}
			if err := os.WriteFile(config.SettingsPath, updated, 0o600); err != nil { //nolint:mnd
				return probeError{err, "Could not write settings file."}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Default set to %s with %s.\n", apiName, model)
			return nil
		},
	}
}

// updateSettings sets default-api and the api's check-model, keeping the
// rest of the document and its comments.
func updateSettings(content []byte, api, model string) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode}}}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New("settings file is not a mapping")
	}

	setScalar(root, "default-api", api)
	if model != "" {
		apis := mappingValue(root, "apis")
		setScalar(mappingValue(apis, api), "check-model", model)
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("write settings: %w", err)
	}
	return out, nil
}

// mappingValue returns the mapping under key, creating it if needed.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			v := m.Content[i+1]
			if v.Kind != yaml.MappingNode {
				*v = yaml.Node{Kind: yaml.MappingNode}
			}
			return v
		}
	}
	v := &yaml.Node{Kind: yaml.MappingNode}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, v)
	return v
}

func setScalar(m *yaml.Node, key, value string) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1].Kind = yaml.ScalarNode
			m.Content[i+1].Tag = "!!str"
			m.Content[i+1].Value = value
			m.Content[i+1].Content = nil
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
	)
}
