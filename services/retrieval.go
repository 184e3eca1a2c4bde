package services

import (
	"context"
	"fmt"
	"strings"

	"knowledgebase-backend/internal/logger"
	"knowledgebase-backend/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const answerSystemPrompt = `You are a helpful assistant that answers questions about our knowledge base of articles and people profiles.
Use the provided context to answer questions accurately and concisely.
If the context doesn't contain enough information to answer the question, say so.
Always cite which article or profile your information comes from.
Keep answers professional and friendly.`

// NoInformationAnswer is the canned response when neither vector nor
// keyword search finds anything. No generator call is made in that case.
const NoInformationAnswer = "I couldn't find any relevant information in our knowledge base to answer that question. Could you please rephrase or ask something else?"

// RetrievalService runs the full question-answering pipeline: embed the
// query, search both chunk collections, backstop with keyword matching,
// assemble bounded context and call the generator. Stateless per request;
// its only state dependency is the embedding index, read-only from here.
type RetrievalService struct {
	docs      DocumentStore
	search    *SearchService
	keywords  *KeywordService
	embedder  Embedder
	generator Generator
}

func NewRetrievalService(docs DocumentStore, search *SearchService, keywords *KeywordService, embedder Embedder, generator Generator) *RetrievalService {
	return &RetrievalService{
		docs:      docs,
		search:    search,
		keywords:  keywords,
		embedder:  embedder,
		generator: generator,
	}
}

// Answer responds to a question with generated prose and at most one
// citation.
func (s *RetrievalService) Answer(ctx context.Context, question string) (*models.ChatResponse, error) {
	tracer := otel.Tracer("retrieval")
	ctx, span := tracer.Start(ctx, "retrieval.answer")
	defer span.End()

	queryVector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// A store error here is a hard failure, never a fallback trigger; only
	// a successful empty search may hand over to keyword matching.
	articleMatches, err := s.search.Search(ctx, models.CollectionArticles, queryVector)
	if err != nil {
		return nil, err
	}
	profileMatches, err := s.search.Search(ctx, models.CollectionProfiles, queryVector)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("retrieval.article_matches", len(articleMatches)),
		attribute.Int("retrieval.profile_matches", len(profileMatches)),
	)

	if len(articleMatches) == 0 && len(profileMatches) == 0 {
		return s.answerFromKeywordsOnly(ctx, question)
	}

	// Recall augmentation: keyword hits merge into the article list only,
	// skipping slugs the vector search already returned. Profiles get
	// keyword matches solely on the fallback path above.
	seen := make(map[string]bool)
	for _, m := range articleMatches {
		seen[m.Slug] = true
	}
	kwMatches, err := s.keywords.AugmentArticles(ctx, question, seen)
	if err != nil {
		// Augmentation is best-effort on this path; vector results stand.
		logger.Warn("keyword augmentation failed", "error", err)
	}
	merged := append(append([]models.SimilarityMatch{}, articleMatches...), kwMatches...)

	titles, err := s.resolveTitles(ctx, merged, profileMatches)
	if err != nil {
		return nil, err
	}

	contextText := buildContext(titles, merged, profileMatches)

	answer, err := s.generator.Complete(ctx, answerSystemPrompt, userPrompt(contextText, question))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	source := s.primaryCitation(articleMatches, profileMatches, titles)
	resp := &models.ChatResponse{Answer: answer, Sources: []models.Source{}}
	if source != nil {
		resp.Sources = append(resp.Sources, *source)
	}
	return resp, nil
}

// answerFromKeywordsOnly is the full fallback: vector search came back
// empty from both collections, so keyword hits become the entire context.
func (s *RetrievalService) answerFromKeywordsOnly(ctx context.Context, question string) (*models.ChatResponse, error) {
	// The backstop degrades, never escalates: a keyword store error on this
	// path reads as "nothing found" and falls through to the canned answer.
	kwArticles, err := s.keywords.AugmentArticles(ctx, question, nil)
	if err != nil {
		logger.Warn("keyword fallback failed for articles", "error", err)
		kwArticles = nil
	}
	kwProfiles, err := s.keywords.AugmentProfiles(ctx, question, nil)
	if err != nil {
		logger.Warn("keyword fallback failed for profiles", "error", err)
		kwProfiles = nil
	}

	if len(kwArticles) == 0 && len(kwProfiles) == 0 {
		// Empty result is a valid terminal state; skip the generator.
		return &models.ChatResponse{Answer: NoInformationAnswer, Sources: []models.Source{}}, nil
	}

	titles, err := s.resolveTitles(ctx, kwArticles, kwProfiles)
	if err != nil {
		return nil, err
	}

	contextText := buildContext(titles, kwArticles, kwProfiles)

	answer, err := s.generator.Complete(ctx, answerSystemPrompt, userPrompt(contextText, question))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	// First article hit is the citation, falling back to the first profile.
	var primary *models.SimilarityMatch
	if len(kwArticles) > 0 {
		primary = &kwArticles[0]
	} else {
		primary = &kwProfiles[0]
	}

	resp := &models.ChatResponse{Answer: answer, Sources: []models.Source{}}
	resp.Sources = append(resp.Sources, s.sourceFor(*primary, titles))
	return resp, nil
}

// primaryCitation compares the top vector match of each collection; the
// higher similarity wins, ties favor articles. Keyword-only matches are
// never chosen here.
func (s *RetrievalService) primaryCitation(articleMatches, profileMatches []models.SimilarityMatch, titles map[string]string) *models.Source {
	var best *models.SimilarityMatch
	if len(articleMatches) > 0 {
		best = &articleMatches[0]
	}
	if len(profileMatches) > 0 && (best == nil || profileMatches[0].Similarity > best.Similarity) {
		best = &profileMatches[0]
	}
	if best == nil {
		return nil
	}
	src := s.sourceFor(*best, titles)
	return &src
}

func (s *RetrievalService) sourceFor(m models.SimilarityMatch, titles map[string]string) models.Source {
	title := titles[titleKey(m.Collection, m.Slug)]
	if title == "" {
		title = m.Slug
	}
	url := "/p/" + m.Slug
	if m.Collection == models.CollectionProfiles {
		url = "/people/" + m.Slug
	}
	return models.Source{Slug: m.Slug, Title: title, URL: url}
}

// resolveTitles performs one metadata lookup per collection for every
// distinct slug in the match sets.
func (s *RetrievalService) resolveTitles(ctx context.Context, articleMatches, profileMatches []models.SimilarityMatch) (map[string]string, error) {
	titles := make(map[string]string)

	for _, group := range []struct {
		collection models.Collection
		matches    []models.SimilarityMatch
	}{
		{models.CollectionArticles, articleMatches},
		{models.CollectionProfiles, profileMatches},
	} {
		slugs := distinctSlugs(group.matches)
		if len(slugs) == 0 {
			continue
		}
		resolved, err := s.docs.Titles(ctx, group.collection, slugs)
		if err != nil {
			return nil, fmt.Errorf("resolve %s titles: %w", group.collection, err)
		}
		for slug, title := range resolved {
			titles[titleKey(group.collection, slug)] = title
		}
	}
	return titles, nil
}

func titleKey(collection models.Collection, slug string) string {
	return string(collection) + "/" + slug
}

func distinctSlugs(matches []models.SimilarityMatch) []string {
	seen := make(map[string]bool, len(matches))
	var slugs []string
	for _, m := range matches {
		if seen[m.Slug] {
			continue
		}
		seen[m.Slug] = true
		slugs = append(slugs, m.Slug)
	}
	return slugs
}

// buildContext concatenates every match, articles first, each formatted as
// [From "<title>"] followed by its content, joined by blank lines.
func buildContext(titles map[string]string, articleMatches, profileMatches []models.SimilarityMatch) string {
	var entries []string
	for _, m := range articleMatches {
		entries = append(entries, contextEntry(titles, m))
	}
	for _, m := range profileMatches {
		entries = append(entries, contextEntry(titles, m))
	}
	return strings.Join(entries, "\n\n")
}

func contextEntry(titles map[string]string, m models.SimilarityMatch) string {
	title := titles[titleKey(m.Collection, m.Slug)]
	if title == "" {
		title = m.Slug
	}
	return fmt.Sprintf("[From %q]\n%s", title, m.Content)
}

func userPrompt(contextText, question string) string {
	return fmt.Sprintf("Context from our knowledge base:\n\n%s\n\nQuestion: %s", contextText, question)
}
