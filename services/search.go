package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"knowledgebase-backend/models"
)

// SearchService ranks stored chunks against a query vector by cosine
// similarity. Each collection is searched independently; merging is the
// orchestrator's job.
type SearchService struct {
	chunks    ChunkStore
	threshold float32
	limit     int
}

func NewSearchService(chunks ChunkStore, threshold float64, limit int) *SearchService {
	if limit <= 0 {
		limit = 10
	}
	return &SearchService{
		chunks:    chunks,
		threshold: float32(threshold),
		limit:     limit,
	}
}

// Search returns the top matches for queryVector in the given collection,
// ordered by similarity descending. Matches below the threshold are
// excluded. Equal scores break deterministically by (slug, chunk index);
// the backing store's iteration order never leaks into results.
func (s *SearchService) Search(ctx context.Context, collection models.Collection, queryVector []float32) ([]models.SimilarityMatch, error) {
	stored, err := s.chunks.ApprovedChunks(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("chunk collection %s: %w", collection.ChunkCollection(), err)
	}

	type scored struct {
		chunk models.DocumentChunk
		score float32
	}

	hits := make([]scored, 0, len(stored))
	for _, chunk := range stored {
		score := CosineSimilarity(queryVector, chunk.Vector)
		if score >= s.threshold {
			hits = append(hits, scored{chunk: chunk, score: score})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		if hits[i].chunk.Slug != hits[j].chunk.Slug {
			return hits[i].chunk.Slug < hits[j].chunk.Slug
		}
		return hits[i].chunk.ChunkIndex < hits[j].chunk.ChunkIndex
	})

	if len(hits) > s.limit {
		hits = hits[:s.limit]
	}

	matches := make([]models.SimilarityMatch, len(hits))
	for i, h := range hits {
		matches[i] = models.SimilarityMatch{
			Collection: collection,
			Slug:       h.chunk.Slug,
			Content:    h.chunk.Content,
			Similarity: h.score,
			Rank:       i,
		}
	}
	return matches, nil
}

// CosineSimilarity computes the cosine similarity between two vectors,
// in [-1, 1]. Mismatched or zero vectors score 0.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
