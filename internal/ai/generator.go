package ai

import (
	"context"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Complete runs a single-shot generation call: fixed system instruction,
// one user prompt, configured temperature and output cap. Calls go through
// the rate limiter and circuit breaker; an open breaker fails fast.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	tracer := otel.Tracer("ai-client")
	ctx, span := tracer.Start(ctx, "ai.complete")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", c.cfg.AIProvider),
		attribute.Int("ai.prompt_chars", len(systemPrompt)+len(userPrompt)),
	)

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		callCtx, cancel := c.callCtx(ctx)
		defer cancel()

		switch c.cfg.AIProvider {
		case "openai":
			return c.completeOpenAI(callCtx, systemPrompt, userPrompt)
		case "google":
			return c.completeGemini(callCtx, systemPrompt, userPrompt)
		default:
			return "", fmt.Errorf("unknown AI provider: %s", c.cfg.AIProvider)
		}
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("ai.error", true))
		return "", err
	}

	answer := result.(string)
	span.SetAttributes(attribute.Int("ai.answer_chars", len(answer)))
	return answer, nil
}

func (c *Client) completeOpenAI(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.openai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.OpenAIChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: float32(c.cfg.GenTemperature),
		MaxTokens:   c.cfg.GenMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "No answer generated", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) completeGemini(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	model := c.gemini.GenerativeModel(c.cfg.GeminiChatModel)
	model.SetTemperature(float32(c.cfg.GenTemperature))
	model.SetMaxOutputTokens(int32(c.cfg.GenMaxTokens))
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}

	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}
	if sb.Len() == 0 {
		return "No answer generated", nil
	}
	return sb.String(), nil
}
