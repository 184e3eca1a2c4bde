package services

import (
	"context"
	"math"
	"testing"

	"knowledgebase-backend/models"
)

// unit 2-d vectors make the similarity against query [1,0] equal the first
// component, so expected scores read directly off the fixtures.
func chunkWithScore(slug string, index int, score float64, content string) models.DocumentChunk {
	y := math.Sqrt(1 - score*score)
	return models.DocumentChunk{
		Slug:       slug,
		ChunkIndex: index,
		Content:    content,
		Vector:     []float32{float32(score), float32(y)},
		Status:     models.StatusApproved,
	}
}

var queryVector = []float32{1, 0}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		a, b []float32
		want float32
	}{
		{[]float32{1, 0}, []float32{1, 0}, 1},
		{[]float32{1, 0}, []float32{0, 1}, 0},
		{[]float32{1, 0}, []float32{-1, 0}, -1},
		{[]float32{1, 0}, []float32{1, 0, 0}, 0}, // dimension mismatch
		{[]float32{0, 0}, []float32{1, 0}, 0},    // zero vector
		{nil, nil, 0},
	}
	for _, tc := range cases {
		got := CosineSimilarity(tc.a, tc.b)
		if math.Abs(float64(got-tc.want)) > 1e-5 {
			t.Errorf("CosineSimilarity(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSearchThreshold(t *testing.T) {
	chunks := newFakeChunkStore()
	chunks.InsertChunks(context.Background(), models.CollectionArticles, []models.DocumentChunk{
		chunkWithScore("keep", 0, 0.5, "kept"),
		chunkWithScore("drop", 0, 0.2, "dropped"),
		chunkWithScore("edge", 0, 0.35, "at threshold"),
	})

	svc := NewSearchService(chunks, 0.35, 10)
	matches, err := svc.Search(context.Background(), models.CollectionArticles, queryVector)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}

	slugs := make(map[string]bool)
	for _, m := range matches {
		slugs[m.Slug] = true
	}
	if !slugs["keep"] || slugs["drop"] {
		t.Errorf("threshold filter wrong, got %v", slugs)
	}
	// Inclusive boundary: a match exactly at the threshold stays. The edge
	// vector rounds through float32 so allow it either way only if the
	// computed score dips below; recompute to pin it down.
	edge := chunkWithScore("edge", 0, 0.35, "")
	if CosineSimilarity(queryVector, edge.Vector) >= 0.35 && !slugs["edge"] {
		t.Error("match at threshold was excluded")
	}
}

func TestSearchOrderingAndRank(t *testing.T) {
	chunks := newFakeChunkStore()
	chunks.InsertChunks(context.Background(), models.CollectionArticles, []models.DocumentChunk{
		chunkWithScore("mid", 0, 0.6, "mid"),
		chunkWithScore("top", 0, 0.9, "top"),
		chunkWithScore("low", 0, 0.4, "low"),
	})

	svc := NewSearchService(chunks, 0.35, 10)
	matches, err := svc.Search(context.Background(), models.CollectionArticles, queryVector)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}

	want := []string{"top", "mid", "low"}
	if len(matches) != len(want) {
		t.Fatalf("got %d matches, want %d", len(matches), len(want))
	}
	for i, m := range matches {
		if m.Slug != want[i] {
			t.Errorf("position %d: got %s, want %s", i, m.Slug, want[i])
		}
		if m.Rank != i {
			t.Errorf("position %d: rank %d", i, m.Rank)
		}
	}
}

func TestSearchTieBreak(t *testing.T) {
	chunks := newFakeChunkStore()
	// Identical vectors, so ordering must come from (slug, chunk index).
	chunks.InsertChunks(context.Background(), models.CollectionArticles, []models.DocumentChunk{
		chunkWithScore("beta", 1, 0.8, "b1"),
		chunkWithScore("beta", 0, 0.8, "b0"),
		chunkWithScore("alpha", 0, 0.8, "a0"),
	})

	svc := NewSearchService(chunks, 0.35, 10)
	matches, err := svc.Search(context.Background(), models.CollectionArticles, queryVector)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}

	want := []string{"a0", "b0", "b1"}
	for i, m := range matches {
		if m.Content != want[i] {
			t.Errorf("position %d: got %s, want %s", i, m.Content, want[i])
		}
	}
}

func TestSearchLimit(t *testing.T) {
	chunks := newFakeChunkStore()
	var rows []models.DocumentChunk
	for i := 0; i < 15; i++ {
		rows = append(rows, chunkWithScore("doc", i, 0.9, "c"))
	}
	chunks.InsertChunks(context.Background(), models.CollectionArticles, rows)

	svc := NewSearchService(chunks, 0.35, 10)
	matches, err := svc.Search(context.Background(), models.CollectionArticles, queryVector)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(matches) != 10 {
		t.Errorf("got %d matches, want 10", len(matches))
	}
}

func TestSearchSkipsDraftChunks(t *testing.T) {
	chunks := newFakeChunkStore()
	draft := chunkWithScore("draft-doc", 0, 0.9, "hidden")
	draft.Status = models.StatusDraft
	chunks.InsertChunks(context.Background(), models.CollectionArticles, []models.DocumentChunk{
		draft,
		chunkWithScore("live-doc", 0, 0.5, "visible"),
	})

	svc := NewSearchService(chunks, 0.35, 10)
	matches, err := svc.Search(context.Background(), models.CollectionArticles, queryVector)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(matches) != 1 || matches[0].Slug != "live-doc" {
		t.Errorf("draft chunk leaked into results: %v", matches)
	}
}
