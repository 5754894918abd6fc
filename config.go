package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v9"
	"github.com/charmbracelet/genprobe/internal/ollama"
	"github.com/charmbracelet/genprobe/internal/openai"
	"github.com/charmbracelet/genprobe/internal/proto"
	"github.com/charmbracelet/x/exp/ordered"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var help = map[string]string{
	"api":           "Provider to probe (google, openai, openrouter, anthropic, cohere, ollama).",
	"apis":          "Providers, how to find their keys and which models to probe.",
	"model":         "Model to probe. Defaults to the provider's check or test model.",
	"prompt":        "Prompt sent by the generate step.",
	"check-prompt":  "Prompt sent by genprobe check.",
	"test-prompt":   "Prompt sent by genprobe test.",
	"timeout":       "Timeout for the whole probe (e.g. 30s, 2m).",
	"quiet":         "Quiet mode (hide the spinner while waiting).",
	"verbose":       "Log every step with its timing to stderr.",
	"raw":           "Print generated text as-is instead of rendering markdown.",
	"no-history":    "Don't record the probe result in the history database.",
	"data-path":     "Where the history database and model cache live.",
	"all":           "Probe every configured provider concurrently.",
	"require-model": "Fail when the model isn't in the provider's model list.",
	"copy":          "Copy the generated text to the clipboard.",
	"image":         "Attach an image to the prompt (jpg, png, gif or webp, up to 5MB).",
	"settings":      "Open settings in your $EDITOR.",
	"reset":         "Backup your old settings file and reset everything to the defaults.",
	"limit":         "Number of history entries to show.",
	"max-tokens":    "Maximum number of tokens to generate.",
	"temperature":   "Sampling temperature. Higher values are more random.",
	"help":          "Show help and exit.",
	"version":       "Show version and exit.",
}

// Default prompts.
const (
	defaultCheckPrompt = "Say 'Hello, Gemini API is working!' in one sentence."
	defaultTestPrompt  = "Explain how AI works in a few words"
)

// KeyEnvs is a list of environment variables an API key is read from, in
// order. It can be set as a single string in the settings file.
type KeyEnvs []string

// UnmarshalYAML accepts both a scalar and a sequence.
func (k *KeyEnvs) UnmarshalYAML(node *yaml.Node) error {
	var single string
	if err := node.Decode(&single); err == nil {
		*k = KeyEnvs{single}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return fmt.Errorf("api-key-env must be a string or a list of strings: %w", err)
	}
	*k = list
	return nil
}

// API represents a provider and how to reach it.
type API struct {
	Name       string
	APIKey     string   `yaml:"api-key"`
	APIKeyEnv  KeyEnvs  `yaml:"api-key-env"`
	APIKeyCmd  string   `yaml:"api-key-cmd"`
	BaseURL    string   `yaml:"base-url"`
	CheckModel string   `yaml:"check-model"`
	TestModel  string   `yaml:"test-model"`
	Models     []string `yaml:"models"`
}

// KeyEnv is the variable shown in troubleshooting steps, if any.
func (a API) KeyEnv() string {
	if len(a.APIKeyEnv) == 0 {
		return ""
	}
	return a.APIKeyEnv[0]
}

// NeedsKey reports whether the API authenticates with a key. Unknown APIs
// need one only when a key source is configured.
func (a API) NeedsKey() bool {
	if a.Name == proto.APIOllama {
		return false
	}
	if _, known := defaultAPIs.Find(a.Name); known {
		return true
	}
	return len(a.APIKeyEnv) > 0 || a.APIKey != "" || a.APIKeyCmd != ""
}

// APIs is a type alias to allow custom YAML decoding.
type APIs []API

// UnmarshalYAML implements sorted API YAML decoding.
func (apis *APIs) UnmarshalYAML(node *yaml.Node) error {
	for i := 0; i < len(node.Content); i += 2 {
		var api API
		if err := node.Content[i+1].Decode(&api); err != nil {
			return fmt.Errorf("error decoding YAML file: %w", err)
		}
		api.Name = node.Content[i].Value
		*apis = append(*apis, api)
	}
	return nil
}

// Find returns the API with the given name.
func (apis APIs) Find(name string) (API, bool) {
	for _, api := range apis {
		if api.Name == name {
			return api, true
		}
	}
	return API{}, false
}

// Names returns the API names, in settings order.
func (apis APIs) Names() []string {
	names := make([]string, 0, len(apis))
	for _, api := range apis {
		names = append(names, api.Name)
	}
	return names
}

// Config holds the main configuration and is mapped to the YAML settings file.
type Config struct {
	API         string        `yaml:"default-api" env:"API"`
	CheckPrompt string        `yaml:"check-prompt" env:"CHECK_PROMPT"`
	TestPrompt  string        `yaml:"test-prompt" env:"TEST_PROMPT"`
	Timeout     time.Duration `yaml:"timeout" env:"TIMEOUT"`
	Quiet       bool          `yaml:"quiet" env:"QUIET"`
	Raw         bool          `yaml:"raw" env:"RAW"`
	NoHistory   bool          `yaml:"no-history" env:"NO_HISTORY"`
	DataPath    string        `yaml:"data-path" env:"DATA_PATH"`
	APIs        APIs          `yaml:"apis"`

	// set by flags only
	Model         string
	Prompt        string
	Verbose       bool
	All           bool
	RequireModel  bool
	Copy          bool
	Images        []string
	ResetSettings bool
	Limit         int
	MaxTokens     int64
	Temperature   float64
	SettingsPath  string
}

// defaultAPIs are used when the settings file has no apis, and fill the
// blanks of the ones it has.
var defaultAPIs = APIs{
	{
		Name:       proto.APIGoogle,
		APIKeyEnv:  KeyEnvs{"GOOGLE_API_KEY", "GEMINI_API_KEY"},
		CheckModel: "gemini-2.0-flash",
		TestModel:  "gemini-1.5-flash",
	},
	{
		Name:       proto.APIOpenAI,
		APIKeyEnv:  KeyEnvs{"OPENAI_API_KEY"},
		BaseURL:    "https://api.openai.com/v1",
		CheckModel: "gpt-4o-mini",
		TestModel:  "gpt-4o-mini",
	},
	{
		Name:       proto.APIOpenRouter,
		APIKeyEnv:  KeyEnvs{"OPENROUTER_API_KEY"},
		BaseURL:    openai.OpenRouterBaseURL,
		CheckModel: "openai/gpt-4o-mini",
		TestModel:  "openai/gpt-4o-mini",
	},
	{
		Name:       proto.APIAnthropic,
		APIKeyEnv:  KeyEnvs{"ANTHROPIC_API_KEY"},
		CheckModel: "claude-3-5-haiku-latest",
		TestModel:  "claude-3-5-haiku-latest",
	},
	{
		Name:       proto.APICohere,
		APIKeyEnv:  KeyEnvs{"COHERE_API_KEY"},
		CheckModel: "command-r",
		TestModel:  "command-r",
	},
	{
		Name:       proto.APIOllama,
		BaseURL:    ollama.DefaultBaseURL,
		CheckModel: "llama3.2",
		TestModel:  "llama3.2",
	},
}

func defaultConfig() Config {
	return Config{
		API:         proto.APIGoogle,
		CheckPrompt: defaultCheckPrompt,
		TestPrompt:  defaultTestPrompt,
		Timeout:     time.Minute,
	}
}

func ensureConfig() (Config, error) {
	c := defaultConfig()
	sp, err := xdg.ConfigFile(filepath.Join("genprobe", "genprobe.yml"))
	if err != nil {
		return c, probeError{err, "Could not find settings path."}
	}
	c.SettingsPath = sp

	dir := filepath.Dir(sp)
	if dirErr := os.MkdirAll(dir, 0o700); dirErr != nil { //nolint:mnd
		return c, probeError{dirErr, "Could not create settings directory."}
	}

	if dirErr := writeConfigFile(sp); dirErr != nil {
		return c, dirErr
	}
	content, err := os.ReadFile(sp)
	if err != nil {
		return c, probeError{err, "Could not read settings file."}
	}
	if err := parseConfig(content, &c); err != nil {
		return c, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return c, probeError{err, "Could not load .env file."}
	}
	if err := env.ParseWithOptions(&c, env.Options{Prefix: "GENPROBE_"}); err != nil {
		return c, probeError{err, "Could not parse environment into settings file."}
	}

	c.DataPath = ordered.First(c.DataPath, filepath.Join(xdg.DataHome, "genprobe"))
	if err := os.MkdirAll(c.DataPath, 0o700); err != nil { //nolint:mnd
		return c, probeError{err, "Could not create data directory."}
	}

	return c, nil
}

func parseConfig(content []byte, c *Config) error {
	if err := yaml.Unmarshal(content, c); err != nil {
		return probeError{err, "Could not parse settings file."}
	}
	c.APIs = withDefaults(c.APIs)
	return nil
}

// withDefaults fills the blanks of the known APIs.
func withDefaults(apis APIs) APIs {
	if len(apis) == 0 {
		return append(APIs(nil), defaultAPIs...)
	}
	result := make(APIs, 0, len(apis))
	for _, api := range apis {
		def, _ := defaultAPIs.Find(api.Name)
		if len(api.APIKeyEnv) == 0 {
			api.APIKeyEnv = def.APIKeyEnv
		}
		api.BaseURL = ordered.First(api.BaseURL, def.BaseURL)
		api.CheckModel = ordered.First(api.CheckModel, def.CheckModel)
		api.TestModel = ordered.First(api.TestModel, def.TestModel, api.CheckModel)
		result = append(result, api)
	}
	return result
}

func writeConfigFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return createConfigFile(path)
	} else if err != nil {
		return probeError{err, "Could not stat path."}
	}
	return nil
}

func createConfigFile(path string) error {
	tmpl := template.Must(template.New("config").Parse(configTemplate))

	f, err := os.Create(path)
	if err != nil {
		return probeError{err, "Could not create configuration file."}
	}
	defer func() { _ = f.Close() }()

	m := struct {
		Config Config
		Help   map[string]string
	}{
		Config: defaultConfig(),
		Help:   help,
	}
	if err := tmpl.Execute(f, m); err != nil {
		return probeError{err, "Could not render template."}
	}
	return nil
}
