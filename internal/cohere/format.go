package cohere

import (
	"github.com/charmbracelet/genprobe/internal/proto"
	cohere "github.com/cohere-ai/cohere-go/v2"
)

func fromProtoRequest(req proto.Request) (*cohere.ChatRequest, error) {
	if len(req.Images) > 0 {
		return nil, ErrImagesNotSupported
	}
	body := &cohere.ChatRequest{
		Message:     req.Prompt,
		Temperature: req.Temperature,
	}
	if req.Model != "" {
		body.Model = cohere.String(req.Model)
	}
	if req.MaxTokens != nil {
		body.MaxTokens = cohere.Int(int(*req.MaxTokens))
	}
	return body, nil
}
