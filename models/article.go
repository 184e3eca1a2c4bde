package models

import "time"

// Document status values. Only approved documents are visible to the public
// read endpoints and the chat retrieval path.
const (
	StatusDraft    = "draft"
	StatusApproved = "approved"
)

// Article is a knowledge-base page. The slug is chosen by the author and is
// immutable once set; it doubles as the document key everywhere (chunk
// ownership, citations, URLs).
type Article struct {
	Slug       string    `json:"slug" bson:"slug" binding:"required"`
	Title      string    `json:"title" bson:"title" binding:"required"`
	Summary    string    `json:"summary" bson:"summary"`
	BodyHTML   string    `json:"body_html" bson:"body_html"`
	ParentSlug string    `json:"parent_slug,omitempty" bson:"parent_slug,omitempty"`
	Audience   []string  `json:"audience" bson:"audience"`
	Status     string    `json:"status" bson:"status"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// URL returns the public page path for citations.
func (a *Article) URL() string {
	return "/p/" + a.Slug
}
