package openai

import (
	"encoding/base64"
	"fmt"

	"github.com/charmbracelet/genprobe/internal/proto"
	"github.com/openai/openai-go"
)

func fromProtoRequest(req proto.Request) openai.ChatCompletionNewParams {
	body := openai.ChatCompletionNewParams{
		Model:    req.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{userMessage(req)},
	}
	if req.Temperature != nil {
		body.Temperature = openai.Float(*req.Temperature)
	}
	if req.MaxTokens != nil {
		body.MaxTokens = openai.Int(*req.MaxTokens)
	}
	return body
}

func userMessage(req proto.Request) openai.ChatCompletionMessageParamUnion {
	if len(req.Images) == 0 {
		return openai.UserMessage(req.Prompt)
	}
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(req.Prompt),
	}
	for _, img := range req.Images {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURI(img),
		}))
	}
	return openai.UserMessage(parts)
}

func dataURI(img proto.Image) string {
	return fmt.Sprintf("data:%s;base64,%s", img.MimeType, base64.StdEncoding.EncodeToString(img.Data))
}

func toProtoModel(m openai.Model) proto.Model {
	return proto.Model{Name: m.ID}
}
