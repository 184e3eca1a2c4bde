package services

import (
	"context"
	"fmt"
	"time"

	"knowledgebase-backend/models"
)

// EmbeddingService owns the chunk lifecycle of a document: every write
// regenerates the full chunk set, embedding everything up front and only
// then swapping delete-all then insert-all. A chunk set in storage is
// therefore always a complete representation of some saved body.
type EmbeddingService struct {
	docs         DocumentStore
	chunks       ChunkStore
	embedder     Embedder
	maxChunkSize int
}

func NewEmbeddingService(docs DocumentStore, chunks ChunkStore, embedder Embedder, maxChunkSize int) *EmbeddingService {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	return &EmbeddingService{
		docs:         docs,
		chunks:       chunks,
		embedder:     embedder,
		maxChunkSize: maxChunkSize,
	}
}

// Regenerate rebuilds the embedding chunks for one document and returns the
// number written. Returns ErrNotFound if the slug does not exist. Every
// chunk is embedded before storage is touched, so an embedding failure
// aborts the run with the previous chunk set still intact.
func (s *EmbeddingService) Regenerate(ctx context.Context, collection models.Collection, slug string) (int, error) {
	text, status, err := s.embeddingText(ctx, collection, slug)
	if err != nil {
		return 0, err
	}

	pieces := ChunkText(text, s.maxChunkSize)

	now := time.Now()
	rows := make([]models.DocumentChunk, len(pieces))
	for i, piece := range pieces {
		vector, err := s.embedder.Embed(ctx, piece)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %d of %s: %w", i, slug, err)
		}
		rows[i] = models.DocumentChunk{
			Slug:       slug,
			ChunkIndex: i,
			Content:    piece,
			Vector:     vector,
			Status:     status,
			CreatedAt:  now,
		}
	}

	if err := s.chunks.DeleteChunks(ctx, collection, slug); err != nil {
		return 0, fmt.Errorf("delete chunks for %s: %w", slug, err)
	}

	if len(rows) == 0 {
		return 0, nil
	}

	if err := s.chunks.InsertChunks(ctx, collection, rows); err != nil {
		return 0, fmt.Errorf("insert chunks for %s: %w", slug, err)
	}

	return len(rows), nil
}

func (s *EmbeddingService) embeddingText(ctx context.Context, collection models.Collection, slug string) (text, status string, err error) {
	switch collection {
	case models.CollectionProfiles:
		p, err := s.docs.GetProfile(ctx, slug)
		if err != nil {
			return "", "", err
		}
		return ProfileEmbeddingText(p), p.Status, nil
	default:
		a, err := s.docs.GetArticle(ctx, slug)
		if err != nil {
			return "", "", err
		}
		return ArticleEmbeddingText(a), a.Status, nil
	}
}
