package main

const configTemplate = `# {{ index .Help "api" }}
default-api: {{ .Config.API }}
# {{ index .Help "check-prompt" }}
check-prompt: "{{ .Config.CheckPrompt }}"
# {{ index .Help "test-prompt" }}
test-prompt: "{{ .Config.TestPrompt }}"
# {{ index .Help "timeout" }}
timeout: {{ .Config.Timeout }}
# {{ index .Help "quiet" }}
quiet: false
# {{ index .Help "raw" }}
raw: false
# {{ index .Help "no-history" }}
no-history: false
# {{ index .Help "data-path" }}
# data-path: ~/.local/share/genprobe
# {{ index .Help "apis" }}
# Keys are read from the first non-empty api-key-env variable, then api-key,
# then the output of api-key-cmd.
apis:
  google:
    api-key-env: [GOOGLE_API_KEY, GEMINI_API_KEY]
    # api-key-cmd: op read op://private/gemini/credential
    check-model: gemini-2.0-flash
    test-model: gemini-1.5-flash
  openai:
    base-url: https://api.openai.com/v1
    api-key-env: OPENAI_API_KEY
    check-model: gpt-4o-mini
  openrouter:
    base-url: https://openrouter.ai/api/v1/
    api-key-env: OPENROUTER_API_KEY
    check-model: openai/gpt-4o-mini
  anthropic:
    api-key-env: ANTHROPIC_API_KEY
    check-model: claude-3-5-haiku-latest
  cohere:
    api-key-env: COHERE_API_KEY
    check-model: command-r
  ollama:
    base-url: http://localhost:11434/
    check-model: llama3.2
`
