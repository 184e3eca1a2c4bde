package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"knowledgebase-backend/internal/logger"
	"knowledgebase-backend/models"
	"knowledgebase-backend/services"

	"github.com/hibiken/asynq"
)

const TaskRegenerateEmbeddings = "embeddings:regenerate"

// RegeneratePayload identifies the document whose chunk set to rebuild.
type RegeneratePayload struct {
	Collection string `json:"collection"`
	Slug       string `json:"slug"`
}

// NewRegenerateTask creates the background regeneration task dispatched
// fire-and-forget from the write path. The writer never waits on it and
// never sees its outcome; failures are logged here and retried by Asynq.
func NewRegenerateTask(collection models.Collection, slug string) (*asynq.Task, error) {
	payload, err := json.Marshal(RegeneratePayload{
		Collection: string(collection),
		Slug:       slug,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskRegenerateEmbeddings,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
		asynq.Queue("default"),
	), nil
}

// TaskProcessor handles queued tasks in the worker process.
type TaskProcessor struct {
	embeddings *services.EmbeddingService
}

func NewTaskProcessor(embeddings *services.EmbeddingService) *TaskProcessor {
	return &TaskProcessor{embeddings: embeddings}
}

func (p *TaskProcessor) HandleRegenerate(ctx context.Context, t *asynq.Task) error {
	var payload RegeneratePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	collection := models.Collection(payload.Collection)
	count, err := p.embeddings.Regenerate(ctx, collection, payload.Slug)
	if errors.Is(err, services.ErrNotFound) {
		// Document deleted between enqueue and processing; nothing to do.
		logger.Info("regeneration skipped, document gone", "collection", payload.Collection, "slug", payload.Slug)
		return asynq.SkipRetry
	}
	if err != nil {
		logger.Error("regeneration failed", "collection", payload.Collection, "slug", payload.Slug, "error", err)
		return err // Asynq retries
	}

	logger.Info("embeddings regenerated", "collection", payload.Collection, "slug", payload.Slug, "chunks", count)
	return nil
}
