package anthropic

import (
	"encoding/base64"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/charmbracelet/genprobe/internal/proto"
)

func fromProtoRequest(req proto.Request) anthropic.MessageNewParams {
	blocks := []anthropic.ContentBlockParamUnion{
		anthropic.NewTextBlock(req.Prompt),
	}
	for _, img := range req.Images {
		blocks = append(blocks, anthropic.NewImageBlockBase64(
			img.MimeType,
			base64.StdEncoding.EncodeToString(img.Data),
		))
	}

	body := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: defaultMaxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
	}
	if req.MaxTokens != nil {
		body.MaxTokens = *req.MaxTokens
	}
	if req.Temperature != nil {
		body.Temperature = anthropic.Float(*req.Temperature)
	}
	return body
}

func text(content []anthropic.ContentBlockUnion) string {
	var sb strings.Builder
	for _, block := range content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}
