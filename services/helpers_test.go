package services

import (
	"context"
	"errors"
	"strings"

	"knowledgebase-backend/models"
)

// fakeDocStore is an in-memory DocumentStore with the same substring
// search semantics as the Mongo implementation.
type fakeDocStore struct {
	articles map[string]*models.Article
	profiles map[string]*models.Profile

	searchErr error
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{
		articles: make(map[string]*models.Article),
		profiles: make(map[string]*models.Profile),
	}
}

func (f *fakeDocStore) GetArticle(_ context.Context, slug string) (*models.Article, error) {
	a, ok := f.articles[slug]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (f *fakeDocStore) GetProfile(_ context.Context, slug string) (*models.Profile, error) {
	p, ok := f.profiles[slug]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (f *fakeDocStore) SearchArticles(_ context.Context, terms []string, limit int) ([]models.Article, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []models.Article
	for _, a := range f.articles {
		if a.Status != models.StatusApproved {
			continue
		}
		haystack := strings.ToLower(a.Title + " " + a.Summary + " " + a.BodyHTML)
		if anyTermIn(haystack, terms) {
			out = append(out, *a)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeDocStore) SearchProfiles(_ context.Context, terms []string, limit int) ([]models.Profile, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []models.Profile
	for _, p := range f.profiles {
		if p.Status != models.StatusApproved {
			continue
		}
		haystack := strings.ToLower(p.FullName() + " " + p.JobTitle + " " + p.DescriptionHTML)
		if anyTermIn(haystack, terms) {
			out = append(out, *p)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func anyTermIn(haystack string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(haystack, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

func (f *fakeDocStore) Titles(_ context.Context, collection models.Collection, slugs []string) (map[string]string, error) {
	titles := make(map[string]string)
	for _, slug := range slugs {
		switch collection {
		case models.CollectionArticles:
			if a, ok := f.articles[slug]; ok {
				titles[slug] = a.Title
			}
		case models.CollectionProfiles:
			if p, ok := f.profiles[slug]; ok {
				titles[slug] = p.FullName()
			}
		}
	}
	return titles, nil
}

// fakeChunkStore keeps chunks per collection in insertion order.
type fakeChunkStore struct {
	chunks map[models.Collection][]models.DocumentChunk
}

func newFakeChunkStore() *fakeChunkStore {
	return &fakeChunkStore{chunks: make(map[models.Collection][]models.DocumentChunk)}
}

func (f *fakeChunkStore) DeleteChunks(_ context.Context, collection models.Collection, slug string) error {
	kept := f.chunks[collection][:0]
	for _, c := range f.chunks[collection] {
		if c.Slug != slug {
			kept = append(kept, c)
		}
	}
	f.chunks[collection] = kept
	return nil
}

func (f *fakeChunkStore) InsertChunks(_ context.Context, collection models.Collection, chunks []models.DocumentChunk) error {
	f.chunks[collection] = append(f.chunks[collection], chunks...)
	return nil
}

func (f *fakeChunkStore) ApprovedChunks(_ context.Context, collection models.Collection) ([]models.DocumentChunk, error) {
	var out []models.DocumentChunk
	for _, c := range f.chunks[collection] {
		if c.Status == models.StatusApproved {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChunkStore) countFor(collection models.Collection, slug string) int {
	n := 0
	for _, c := range f.chunks[collection] {
		if c.Slug == slug {
			n++
		}
	}
	return n
}

// fakeEmbedder returns a fixed vector per input, falling back to a default.
// failAfter > 0 makes the call numbered failAfter (1-based) and all later
// calls fail.
type fakeEmbedder struct {
	vectors   map[string][]float32
	fallback  []float32
	calls     int
	failAfter int
}

var errEmbedUnavailable = errors.New("embedding backend unavailable")

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.failAfter > 0 && f.calls >= f.failAfter {
		return nil, errEmbedUnavailable
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	if f.fallback != nil {
		return f.fallback, nil
	}
	return []float32{1, 0}, nil
}

// fakeGenerator records the last prompts and returns a canned answer.
type fakeGenerator struct {
	answer     string
	calls      int
	lastSystem string
	lastUser   string
}

func (f *fakeGenerator) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	if f.answer == "" {
		return "generated answer", nil
	}
	return f.answer, nil
}
