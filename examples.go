package main

import (
	"math/rand"
	"regexp"
)

var examples = map[string]string{
	"Check the default provider":             `genprobe`,
	"Check every provider at once":           `genprobe check --all`,
	"Make sure a model is available":         `genprobe check -a openai -m "gpt-4o" --require-model`,
	"Fail a CI job when a key stops working": `genprobe test -a anthropic -q || echo "anthropic is down"`,
	"Describe an image":                      `genprobe generate -a google --image cat.png "what is in this picture?"`,
	"Pick a model to try":                    `genprobe models -a openrouter | grep llama | head -n 5`,
}

func randomExample() (string, string) {
	keys := make([]string, 0, len(examples))
	for k := range examples {
		keys = append(keys, k)
	}
	desc := keys[rand.Intn(len(keys))] //nolint:gosec
	return desc, examples[desc]
}

var (
	quoteRE = regexp.MustCompile(`"[^"]*"`)
	pipeRE  = regexp.MustCompile(`\|\|?`)
)

// cheapHighlighting colors the quoted strings and the pipes of a shell
// command.
func cheapHighlighting(s styles, code string) string {
	code = quoteRE.ReplaceAllStringFunc(code, func(x string) string {
		return s.Quote.Render(x)
	})
	return pipeRE.ReplaceAllStringFunc(code, func(x string) string {
		return s.Pipe.Render(x)
	})
}
