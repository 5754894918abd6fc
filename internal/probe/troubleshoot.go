package probe

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/genprobe/internal/proto"
)

// Checklist is a list of troubleshooting steps.
type Checklist []string

const updateStep = "Install the latest genprobe: go install github.com/charmbracelet/genprobe@latest"

// ChecklistFor returns the troubleshooting steps for the given API. keyEnv is
// the environment variable the key is read from, empty when there is none.
func ChecklistFor(api, keyEnv string) Checklist {
	switch api {
	case proto.APIGoogle:
		return Checklist{
			"Make sure you have a valid Google AI API key",
			keyStep(keyEnv),
			"Enable the Generative Language API in Google Cloud Console",
			"Make sure your API key has the necessary permissions",
			updateStep,
		}
	case proto.APIOllama:
		return Checklist{
			"Make sure Ollama is installed and running: ollama serve",
			"Make sure the base URL in the genprobe settings points to it",
			"Pull the model you are testing: ollama pull <model>",
			"Make sure nothing blocks access to the Ollama port",
			updateStep,
		}
	default:
		name := Title(api)
		return Checklist{
			fmt.Sprintf("Make sure you have a valid %s API key", name),
			keyStep(keyEnv),
			fmt.Sprintf("Make sure the %s API is enabled for your account", name),
			"Make sure your API key has the necessary permissions",
			updateStep,
		}
	}
}

func keyStep(keyEnv string) string {
	if keyEnv == "" {
		return "Set it as an environment variable or in the genprobe settings"
	}
	return fmt.Sprintf("Set it as %s environment variable or in the genprobe settings", keyEnv)
}

// Title returns the human readable name of an API.
func Title(api string) string {
	switch api {
	case proto.APIGoogle:
		return "Gemini"
	case proto.APIOpenAI:
		return "OpenAI"
	case proto.APIOpenRouter:
		return "OpenRouter"
	case "":
		return "provider"
	default:
		return strings.ToUpper(api[:1]) + api[1:]
	}
}

// Report writes the error followed by the numbered checklist.
func Report(w io.Writer, err error, checklist Checklist) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %v\n", err)
	if len(checklist) > 0 {
		sb.WriteString("\nTroubleshooting steps:\n")
		for i, step := range checklist {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
		}
	}
	_, _ = io.WriteString(w, sb.String())
}
