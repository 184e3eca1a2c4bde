package services

import (
	"regexp"
	"strings"

	"knowledgebase-backend/models"
)

var (
	htmlTagPattern   = regexp.MustCompile(`<[^>]*>`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
	sentenceBoundary = regexp.MustCompile(`[.!?]+\s+`)
)

// StripHTML removes tags from rich-text content: every tag-delimited
// substring becomes a single space, whitespace runs collapse to one space,
// ends are trimmed.
func StripHTML(html string) string {
	s := htmlTagPattern.ReplaceAllString(html, " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ChunkText splits normalized text into chunks of at most maxChunkSize
// characters by greedily packing sentence fragments. A single fragment longer
// than maxChunkSize becomes its own oversized chunk: we never split inside a
// sentence. This is a fixed design decision, not a missing hard-wrap.
func ChunkText(fullText string, maxChunkSize int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}

	sentences := sentenceBoundary.Split(fullText, -1)

	var chunks []string
	current := ""

	for _, sentence := range sentences {
		joined := len(current) + len(sentence)
		if current != "" {
			joined++ // the joining space
		}
		if joined > maxChunkSize && current != "" {
			chunks = append(chunks, strings.TrimSpace(current))
			current = sentence
			continue
		}
		if current != "" {
			current += " "
		}
		current += sentence
	}

	if trimmed := strings.TrimSpace(current); trimmed != "" {
		chunks = append(chunks, trimmed)
	}

	return chunks
}

// ArticleEmbeddingText assembles the text fed to the chunker: title, blank
// line, summary, blank line, stripped body. Title and summary land in the
// first chunk, weighting early retrieval toward them.
func ArticleEmbeddingText(a *models.Article) string {
	return a.Title + "\n\n" + a.Summary + "\n\n" + StripHTML(a.BodyHTML)
}

// ProfileEmbeddingText is the profile counterpart: full name, job title,
// stripped description.
func ProfileEmbeddingText(p *models.Profile) string {
	return p.FullName() + "\n\n" + p.JobTitle + "\n\n" + StripHTML(p.DescriptionHTML)
}
