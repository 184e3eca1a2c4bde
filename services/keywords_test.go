package services

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"knowledgebase-backend/models"
)

func TestExtractKeywords(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"What are YOUR working hours?", []string{"what", "are", "your", "working", "hours"}},
		{"a an to be or", nil},                       // all below minimum length
		{"hello hello hello world", []string{"hello", "world"}}, // dedupe
		{"one two three four five six seven", []string{"one", "two", "three", "four", "five"}}, // cap at 5
		{"", nil},
		{"C++ & Go!", nil}, // punctuation splits, leftovers too short
	}
	for _, tc := range cases {
		got := ExtractKeywords(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ExtractKeywords(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestExpandSynonymsPhraseTrigger(t *testing.T) {
	got := ExpandSynonyms("What are the work hours here?")
	if len(got) == 0 {
		t.Fatal("phrase trigger did not fire")
	}
	joined := strings.Join(got, "|")
	for _, want := range []string{"business hours", "9-5", "office hours"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expansions missing %q", want)
		}
	}
}

func TestExpandSynonymsAllWordsTrigger(t *testing.T) {
	// "work" and "hour" both present but not adjacent.
	got := ExpandSynonyms("At what hour does work usually begin?")
	if len(got) == 0 {
		t.Fatal("all-words trigger did not fire")
	}
}

func TestExpandSynonymsNoTrigger(t *testing.T) {
	for _, q := range []string{
		"How heavy is the workload?",   // "work" without "hour"
		"Happy hour on Friday?",        // "hour" without "work"
		"Where is the office located?", // neither
	} {
		if got := ExpandSynonyms(q); len(got) != 0 {
			t.Errorf("ExpandSynonyms(%q) = %v, want none", q, got)
		}
	}
}

func TestAugmentArticlesNoKeywords(t *testing.T) {
	docs := newFakeDocStore()
	docs.articles["x"] = &models.Article{Slug: "x", Title: "X", Status: models.StatusApproved}

	svc := NewKeywordService(docs, 5, 1200)
	matches, err := svc.AugmentArticles(context.Background(), "a b c?!", nil)
	if err != nil {
		t.Fatalf("augment error: %v", err)
	}
	if matches != nil {
		t.Errorf("expected no matches without usable keywords, got %v", matches)
	}
}

func TestAugmentArticlesExcludesSeenSlugs(t *testing.T) {
	docs := newFakeDocStore()
	docs.articles["vacation"] = &models.Article{
		Slug: "vacation", Title: "Vacation Policy",
		Summary: "time off", BodyHTML: "vacation details",
		Status: models.StatusApproved,
	}

	svc := NewKeywordService(docs, 5, 1200)

	matches, err := svc.AugmentArticles(context.Background(), "vacation policy", nil)
	if err != nil {
		t.Fatalf("augment error: %v", err)
	}
	if len(matches) != 1 || matches[0].Slug != "vacation" || !matches[0].Keyword {
		t.Fatalf("unexpected matches: %v", matches)
	}

	excluded, err := svc.AugmentArticles(context.Background(), "vacation policy", map[string]bool{"vacation": true})
	if err != nil {
		t.Fatalf("augment error: %v", err)
	}
	if len(excluded) != 0 {
		t.Errorf("excluded slug still returned: %v", excluded)
	}
}

func TestAugmentArticlesTruncatesContent(t *testing.T) {
	docs := newFakeDocStore()
	docs.articles["long"] = &models.Article{
		Slug: "long", Title: "Handbook",
		BodyHTML: strings.Repeat("handbook content ", 200),
		Status:   models.StatusApproved,
	}

	svc := NewKeywordService(docs, 5, 300)
	matches, err := svc.AugmentArticles(context.Background(), "handbook", nil)
	if err != nil {
		t.Fatalf("augment error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if len(matches[0].Content) > 300 {
		t.Errorf("pseudo-chunk not truncated: %d chars", len(matches[0].Content))
	}
}

func TestAugmentProfiles(t *testing.T) {
	docs := newFakeDocStore()
	docs.profiles["ada-lovelace"] = &models.Profile{
		Slug: "ada-lovelace", FirstName: "Ada", LastName: "Lovelace",
		JobTitle: "Engineer", DescriptionHTML: "<p>Compiler work.</p>",
		Status: models.StatusApproved,
	}

	svc := NewKeywordService(docs, 5, 1200)
	matches, err := svc.AugmentProfiles(context.Background(), "who is our engineer?", nil)
	if err != nil {
		t.Fatalf("augment error: %v", err)
	}
	if len(matches) != 1 || matches[0].Collection != models.CollectionProfiles {
		t.Fatalf("unexpected matches: %v", matches)
	}
	if !strings.Contains(matches[0].Content, "Ada Lovelace") {
		t.Errorf("pseudo-chunk missing name: %q", matches[0].Content)
	}
}

func TestAugmentSkipsDraftDocuments(t *testing.T) {
	docs := newFakeDocStore()
	docs.articles["draft"] = &models.Article{
		Slug: "draft", Title: "Draft vacation notes",
		Status: models.StatusDraft,
	}

	svc := NewKeywordService(docs, 5, 1200)
	matches, err := svc.AugmentArticles(context.Background(), "vacation", nil)
	if err != nil {
		t.Fatalf("augment error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("draft document surfaced: %v", matches)
	}
}
