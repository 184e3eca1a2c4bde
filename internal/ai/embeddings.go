package ai

import (
	"context"
	"fmt"

	genai "github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
)

// Embed returns an embedding vector for the given text. Default provider is
// OpenAI (text-embedding-3-small, 1536 dims); Google text-embedding-004 is
// the alternative.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	switch c.cfg.AIProvider {
	case "openai":
		resp, err := c.openai.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(c.cfg.OpenAIEmbeddingsModel),
			Input: []string{text},
		})
		if err != nil {
			return nil, fmt.Errorf("openai embeddings: %w", err)
		}
		if len(resp.Data) == 0 {
			return nil, fmt.Errorf("no embedding returned")
		}
		return resp.Data[0].Embedding, nil

	case "google":
		model := c.gemini.EmbeddingModel(c.cfg.GoogleEmbeddingsModel)
		resp, err := model.EmbedContent(ctx, genai.Text(text))
		if err != nil {
			return nil, fmt.Errorf("google embeddings: %w", err)
		}
		if resp.Embedding == nil {
			return nil, fmt.Errorf("no embedding returned")
		}
		return resp.Embedding.Values, nil

	default:
		return nil, fmt.Errorf("unknown AI provider: %s", c.cfg.AIProvider)
	}
}
