package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection identifies which document type a chunk or match belongs to.
type Collection string

const (
	CollectionArticles Collection = "articles"
	CollectionProfiles Collection = "profiles"
)

// ChunkCollection returns the Mongo collection name holding the embedding
// chunks for this document type.
func (c Collection) ChunkCollection() string {
	switch c {
	case CollectionProfiles:
		return "profile_chunks"
	default:
		return "article_chunks"
	}
}

// DocumentChunk is one embeddable fragment of a document. A document
// exclusively owns its chunks: regeneration replaces the full set and
// deleting the document removes them all, so the stored set is always either
// empty or a complete representation of the latest saved body.
type DocumentChunk struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Slug       string             `bson:"slug" json:"slug"`
	ChunkIndex int                `bson:"chunk_index" json:"chunk_index"`
	Content    string             `bson:"content" json:"content"`
	Vector     []float32          `bson:"vector" json:"-"`
	// Status is denormalized from the owning document at regeneration time
	// so retrieval can filter unapproved owners without a join.
	Status    string    `bson:"status" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// SimilarityMatch is a transient retrieval result; it is never persisted.
// Similarity is cosine, in [-1, 1]; matches below the configured threshold
// are filtered before this struct is built. Keyword pseudo-matches carry a
// zero Similarity and are identified by Keyword=true.
type SimilarityMatch struct {
	Collection Collection
	Slug       string
	Content    string
	Similarity float32
	Rank       int
	Keyword    bool
}
