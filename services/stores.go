package services

import (
	"context"
	"errors"

	"knowledgebase-backend/models"
)

// ErrNotFound is returned when a referenced document key does not exist.
var ErrNotFound = errors.New("document not found")

// DocumentStore is the slice of the document backend the retrieval core
// needs: lookups by slug, case-insensitive substring search over the
// approved set, and display-title resolution for citations.
type DocumentStore interface {
	GetArticle(ctx context.Context, slug string) (*models.Article, error)
	GetProfile(ctx context.Context, slug string) (*models.Profile, error)

	// SearchArticles returns approved articles where any term appears as a
	// case-insensitive substring of title, summary or body, up to limit.
	SearchArticles(ctx context.Context, terms []string, limit int) ([]models.Article, error)
	// SearchProfiles matches against name, job title and description.
	SearchProfiles(ctx context.Context, terms []string, limit int) ([]models.Profile, error)

	// Titles resolves human-readable titles for the given slugs. Missing
	// slugs are simply absent from the result.
	Titles(ctx context.Context, collection models.Collection, slugs []string) (map[string]string, error)
}

// ChunkStore persists embedding chunks. Regeneration uses delete-all then
// insert-all; there is deliberately no incremental update.
type ChunkStore interface {
	DeleteChunks(ctx context.Context, collection models.Collection, slug string) error
	InsertChunks(ctx context.Context, collection models.Collection, chunks []models.DocumentChunk) error
	// ApprovedChunks returns every chunk whose owner was approved at
	// regeneration time.
	ApprovedChunks(ctx context.Context, collection models.Collection) ([]models.DocumentChunk, error)
}

// Embedder produces fixed-dimension vectors; the same model must serve
// chunk and query embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator is the single-shot answer generation service.
type Generator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
