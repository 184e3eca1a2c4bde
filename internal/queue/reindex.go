package queue

import (
	"context"
	"fmt"

	"knowledgebase-backend/internal/logger"
	"knowledgebase-backend/models"
	"knowledgebase-backend/services"

	"github.com/hibiken/asynq"
)

// Reindexer enqueues a regeneration task for every approved document in
// both collections. It runs from the nightly sweep and the reindex CLI;
// each document rebuilds independently so one bad document cannot stall
// the rest.
type Reindexer struct {
	docs   services.ContentLister
	client *asynq.Client
}

func NewReindexer(docs services.ContentLister, client *asynq.Client) *Reindexer {
	return &Reindexer{docs: docs, client: client}
}

// EnqueueAll schedules regeneration for every approved article and profile.
// Returns the number of tasks enqueued; enqueue failures are logged and
// skipped rather than aborting the sweep.
func (r *Reindexer) EnqueueAll(ctx context.Context) (int, error) {
	enqueued := 0

	articles, err := r.docs.ListArticles(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("failed to list articles: %w", err)
	}
	for _, article := range articles {
		if r.enqueue(models.CollectionArticles, article.Slug) {
			enqueued++
		}
	}

	profiles, err := r.docs.ListProfiles(ctx, true)
	if err != nil {
		return enqueued, fmt.Errorf("failed to list profiles: %w", err)
	}
	for _, profile := range profiles {
		if r.enqueue(models.CollectionProfiles, profile.Slug) {
			enqueued++
		}
	}

	logger.Info("reindex sweep enqueued", "tasks", enqueued)
	return enqueued, nil
}

func (r *Reindexer) enqueue(collection models.Collection, slug string) bool {
	task, err := NewRegenerateTask(collection, slug)
	if err != nil {
		logger.Error("failed to build regeneration task", "collection", collection, "slug", slug, "error", err)
		return false
	}
	if _, err := r.client.Enqueue(task); err != nil {
		logger.Error("failed to enqueue regeneration", "collection", collection, "slug", slug, "error", err)
		return false
	}
	return true
}
