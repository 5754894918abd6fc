// Package proto shared protocol.
package proto

import "strings"

// APIs.
const (
	APIGoogle     = "google"
	APIOpenAI     = "openai"
	APIOpenRouter = "openrouter"
	APIAnthropic  = "anthropic"
	APICohere     = "cohere"
	APIOllama     = "ollama"
)

// Model is a model descriptor as reported by a provider.
type Model struct {
	Name        string
	DisplayName string
	Description string
}

// Image is an image attached to a request.
type Image struct {
	Data     []byte
	MimeType string
	Filename string
}

// Request is a generate content request.
type Request struct {
	Model       string
	Prompt      string
	Images      []Image
	Temperature *float64
	MaxTokens   *int64
}

// Response is the generated content.
type Response struct {
	Model string
	Text  string
}

// ShortName strips the resource prefix some providers put in front of model
// names, e.g. "models/gemini-2.0-flash".
func ShortName(name string) string {
	if _, after, ok := strings.Cut(name, "/"); ok && strings.HasPrefix(name, "models/") {
		return after
	}
	return name
}
