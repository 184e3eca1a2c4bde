package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"knowledgebase-backend/models"
)

func approvedArticle(slug string) *models.Article {
	return &models.Article{
		Slug:     slug,
		Title:    "Title of " + slug,
		Summary:  "Summary text.",
		BodyHTML: "<p>" + strings.Repeat("Body sentence here. ", 120) + "</p>",
		Status:   models.StatusApproved,
	}
}

func TestRegenerateReplacesChunkSet(t *testing.T) {
	docs := newFakeDocStore()
	docs.articles["handbook"] = approvedArticle("handbook")
	chunks := newFakeChunkStore()
	embedder := &fakeEmbedder{}

	svc := NewEmbeddingService(docs, chunks, embedder, 1000)

	first, err := svc.Regenerate(context.Background(), models.CollectionArticles, "handbook")
	if err != nil {
		t.Fatalf("first regenerate: %v", err)
	}
	if first < 2 {
		t.Fatalf("expected multiple chunks for a long body, got %d", first)
	}

	second, err := svc.Regenerate(context.Background(), models.CollectionArticles, "handbook")
	if err != nil {
		t.Fatalf("second regenerate: %v", err)
	}
	if second != first {
		t.Errorf("chunk count changed across identical runs: %d then %d", first, second)
	}
	if got := chunks.countFor(models.CollectionArticles, "handbook"); got != first {
		t.Errorf("stored %d chunks, want %d (sets must replace, not append)", got, first)
	}
}

func TestRegenerateNotFound(t *testing.T) {
	svc := NewEmbeddingService(newFakeDocStore(), newFakeChunkStore(), &fakeEmbedder{}, 1000)

	_, err := svc.Regenerate(context.Background(), models.CollectionArticles, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestRegenerateEmbedFailureKeepsOldChunks(t *testing.T) {
	docs := newFakeDocStore()
	docs.articles["handbook"] = approvedArticle("handbook")
	chunks := newFakeChunkStore()

	// Seed the previous chunk set, then fail embedding on the second chunk
	// of the rebuild. Storage must not be touched before every embed
	// succeeds, so the old set survives untouched.
	svc := NewEmbeddingService(docs, chunks, &fakeEmbedder{}, 1000)
	seeded, err := svc.Regenerate(context.Background(), models.CollectionArticles, "handbook")
	if err != nil {
		t.Fatalf("seed regenerate: %v", err)
	}
	if seeded < 2 {
		t.Fatalf("fixture needs multiple chunks, got %d", seeded)
	}

	failing := NewEmbeddingService(docs, chunks, &fakeEmbedder{failAfter: 2}, 1000)
	if _, err := failing.Regenerate(context.Background(), models.CollectionArticles, "handbook"); err == nil {
		t.Fatal("expected embedding failure")
	}
	if got := chunks.countFor(models.CollectionArticles, "handbook"); got != seeded {
		t.Errorf("old chunk set lost on embed failure: had %d chunks, now %d", seeded, got)
	}
}

func TestRegenerateCarriesDocumentStatus(t *testing.T) {
	docs := newFakeDocStore()
	draft := approvedArticle("pending")
	draft.Status = models.StatusDraft
	docs.articles["pending"] = draft
	chunks := newFakeChunkStore()

	svc := NewEmbeddingService(docs, chunks, &fakeEmbedder{}, 1000)
	count, err := svc.Regenerate(context.Background(), models.CollectionArticles, "pending")
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if count == 0 {
		t.Fatal("expected chunks to be written for a draft")
	}

	visible, err := chunks.ApprovedChunks(context.Background(), models.CollectionArticles)
	if err != nil {
		t.Fatalf("approved chunks: %v", err)
	}
	if len(visible) != 0 {
		t.Errorf("draft chunks visible to retrieval: %d", len(visible))
	}
}

func TestRegenerateProfile(t *testing.T) {
	docs := newFakeDocStore()
	docs.profiles["ada-lovelace"] = &models.Profile{
		Slug: "ada-lovelace", FirstName: "Ada", LastName: "Lovelace",
		JobTitle: "Engineer", DescriptionHTML: "<p>Short bio.</p>",
		Status: models.StatusApproved,
	}
	chunks := newFakeChunkStore()

	svc := NewEmbeddingService(docs, chunks, &fakeEmbedder{}, 1000)
	count, err := svc.Regenerate(context.Background(), models.CollectionProfiles, "ada-lovelace")
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if count != 1 {
		t.Errorf("short profile should become one chunk, got %d", count)
	}
	stored := chunks.chunks[models.CollectionProfiles]
	if len(stored) != 1 || !strings.Contains(stored[0].Content, "Ada Lovelace") {
		t.Errorf("unexpected stored chunk: %v", stored)
	}
}
