package ai

import (
	"context"
	"fmt"
	"time"

	"knowledgebase-backend/internal/config"
	"knowledgebase-backend/internal/logger"

	genai "github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// Client wraps the embedding and generation providers behind one handle.
// The same provider (and therefore the same embedding model) serves chunk
// vectors and query vectors; mixing models would make scores incomparable.
type Client struct {
	cfg     *config.Config
	openai  *openai.Client
	gemini  *genai.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

func NewClient(cfg *config.Config) (*Client, error) {
	c := &Client{cfg: cfg}

	switch cfg.AIProvider {
	case "openai":
		c.openai = openai.NewClient(cfg.OpenAIAPIKey)
	case "google":
		client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			return nil, err
		}
		c.gemini = client
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", cfg.AIProvider)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "AnswerGenerator",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	// Generous shared limiter; protects the provider quota, not fairness.
	c.limiter = rate.NewLimiter(rate.Limit(10), 20)

	return c, nil
}

// Close releases provider resources.
func (c *Client) Close() error {
	if c.gemini != nil {
		return c.gemini.Close()
	}
	return nil
}

// callCtx applies the configured upstream deadline. There is no retry or
// backoff anywhere on this path: a failed call fails the whole request.
func (c *Client) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(c.cfg.UpstreamTimeoutSeconds)*time.Second)
}
