package services

import (
	"context"
	"regexp"
	"strings"

	"knowledgebase-backend/models"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

const (
	maxKeywords      = 5
	minKeywordLength = 3
)

// synonymRule expands a query into extra search terms when its trigger
// fires: either any of the phrases appears in the lowercased query, or all
// of the words do.
type synonymRule struct {
	phrases    []string
	allWords   []string
	expansions []string
}

// synonymRules is hand-authored seed data, not a synonym engine. It covers
// exactly one topic today; new topics are additive entries here, not code.
var synonymRules = []synonymRule{
	{
		phrases:  []string{"work hour"},
		allWords: []string{"work", "hour"},
		expansions: []string{
			"work hours",
			"working hours",
			"business hours",
			"hours of work",
			"office hours",
			"core hours",
			"operating hours",
			"standard hours",
			"working time",
			"work schedule",
			"start time",
			"end time",
			"9-5",
			"9 to 5",
		},
	},
}

// ExtractKeywords lowercases the query, pulls alphanumeric tokens, keeps
// those of length >= 3, deduplicates in first-seen order and caps at 5.
func ExtractKeywords(message string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(message), -1)

	seen := make(map[string]bool, len(tokens))
	var keywords []string
	for _, tok := range tokens {
		if len(tok) < minKeywordLength || seen[tok] {
			continue
		}
		seen[tok] = true
		keywords = append(keywords, tok)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

// ExpandSynonyms returns the expansions of every rule triggered by the
// query.
func ExpandSynonyms(message string) []string {
	lc := strings.ToLower(message)

	var expansions []string
	for _, rule := range synonymRules {
		if rule.triggered(lc) {
			expansions = append(expansions, rule.expansions...)
		}
	}
	return expansions
}

func (r synonymRule) triggered(lc string) bool {
	for _, phrase := range r.phrases {
		if strings.Contains(lc, phrase) {
			return true
		}
	}
	if len(r.allWords) == 0 {
		return false
	}
	for _, word := range r.allWords {
		if !strings.Contains(lc, word) {
			return false
		}
	}
	return true
}

// searchTerms is keywords plus synonyms, deduplicated first-seen.
func searchTerms(keywords, synonyms []string) []string {
	seen := make(map[string]bool, len(keywords)+len(synonyms))
	var terms []string
	for _, t := range append(append([]string{}, keywords...), synonyms...) {
		if seen[t] {
			continue
		}
		seen[t] = true
		terms = append(terms, t)
	}
	return terms
}

// KeywordService is the substring-matching recall backstop behind vector
// search.
type KeywordService struct {
	docs        DocumentStore
	limit       int
	pseudoLimit int
}

func NewKeywordService(docs DocumentStore, limit, pseudoLimit int) *KeywordService {
	if limit <= 0 {
		limit = 5
	}
	if pseudoLimit <= 0 {
		pseudoLimit = 1200
	}
	return &KeywordService{docs: docs, limit: limit, pseudoLimit: pseudoLimit}
}

// AugmentArticles returns keyword pseudo-matches over articles, skipping
// slugs already present in excludeKeys. A query with no usable keywords
// yields nothing, regardless of synonym triggers.
func (s *KeywordService) AugmentArticles(ctx context.Context, message string, excludeKeys map[string]bool) ([]models.SimilarityMatch, error) {
	keywords := ExtractKeywords(message)
	if len(keywords) == 0 {
		return nil, nil
	}
	terms := searchTerms(keywords, ExpandSynonyms(message))

	articles, err := s.docs.SearchArticles(ctx, terms, s.limit)
	if err != nil {
		return nil, err
	}

	var matches []models.SimilarityMatch
	for _, a := range articles {
		if excludeKeys[a.Slug] {
			continue
		}
		content := StripHTML(a.Title + "\n\n" + a.Summary + "\n\n" + a.BodyHTML)
		matches = append(matches, models.SimilarityMatch{
			Collection: models.CollectionArticles,
			Slug:       a.Slug,
			Content:    truncate(content, s.pseudoLimit),
			Keyword:    true,
		})
	}
	return matches, nil
}

// AugmentProfiles is the profile-side counterpart, used only on the
// zero-vector-hit fallback path.
func (s *KeywordService) AugmentProfiles(ctx context.Context, message string, excludeKeys map[string]bool) ([]models.SimilarityMatch, error) {
	keywords := ExtractKeywords(message)
	if len(keywords) == 0 {
		return nil, nil
	}
	terms := searchTerms(keywords, ExpandSynonyms(message))

	profiles, err := s.docs.SearchProfiles(ctx, terms, s.limit)
	if err != nil {
		return nil, err
	}

	var matches []models.SimilarityMatch
	for _, p := range profiles {
		if excludeKeys[p.Slug] {
			continue
		}
		content := StripHTML(p.FullName() + "\n\n" + p.JobTitle + "\n\n" + p.DescriptionHTML)
		matches = append(matches, models.SimilarityMatch{
			Collection: models.CollectionProfiles,
			Slug:       p.Slug,
			Content:    truncate(content, s.pseudoLimit),
			Keyword:    true,
		})
	}
	return matches, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
