package google

import (
	"github.com/charmbracelet/genprobe/internal/proto"
	"google.golang.org/genai"
)

func fromProtoRequest(req proto.Request) []*genai.Content {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	for _, img := range req.Images {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MimeType))
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

func generateConfig(req proto.Request) *genai.GenerateContentConfig {
	if req.Temperature == nil && req.MaxTokens == nil {
		return nil
	}
	cfg := &genai.GenerateContentConfig{}
	if req.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	if req.MaxTokens != nil {
		cfg.MaxOutputTokens = int32(*req.MaxTokens) //nolint:gosec
	}
	return cfg
}

func toProtoModel(m *genai.Model) proto.Model {
	if m == nil {
		return proto.Model{}
	}
	return proto.Model{
		Name:        m.Name,
		DisplayName: m.DisplayName,
		Description: m.Description,
	}
}
