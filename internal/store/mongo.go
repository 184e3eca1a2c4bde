package store

import (
	"context"
	"errors"
	"regexp"
	"time"

	"knowledgebase-backend/models"
	"knowledgebase-backend/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements the document and chunk store interfaces on MongoDB.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{db: client.Database(dbName)}
}

func (s *MongoStore) articles() *mongo.Collection { return s.db.Collection("articles") }
func (s *MongoStore) profiles() *mongo.Collection { return s.db.Collection("profiles") }

func (s *MongoStore) chunkCollection(collection models.Collection) *mongo.Collection {
	return s.db.Collection(collection.ChunkCollection())
}

// --- DocumentStore ---

func (s *MongoStore) GetArticle(ctx context.Context, slug string) (*models.Article, error) {
	var a models.Article
	err := s.articles().FindOne(ctx, bson.M{"slug": slug}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *MongoStore) GetProfile(ctx context.Context, slug string) (*models.Profile, error) {
	var p models.Profile
	err := s.profiles().FindOne(ctx, bson.M{"slug": slug}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *MongoStore) SearchArticles(ctx context.Context, terms []string, limit int) ([]models.Article, error) {
	filter := substringFilter(terms, []string{"title", "summary", "body_html"})
	if filter == nil {
		return nil, nil
	}

	cursor, err := s.articles().Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var articles []models.Article
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *MongoStore) SearchProfiles(ctx context.Context, terms []string, limit int) ([]models.Profile, error) {
	filter := substringFilter(terms, []string{"first_name", "last_name", "job_title", "description_html"})
	if filter == nil {
		return nil, nil
	}

	cursor, err := s.profiles().Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profiles []models.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// substringFilter builds an approved-only, case-insensitive substring OR
// filter across the given fields for all terms.
func substringFilter(terms, fields []string) bson.M {
	if len(terms) == 0 {
		return nil
	}
	var or []bson.M
	for _, term := range terms {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		for _, field := range fields {
			or = append(or, bson.M{field: pattern})
		}
	}
	return bson.M{"status": models.StatusApproved, "$or": or}
}

func (s *MongoStore) Titles(ctx context.Context, collection models.Collection, slugs []string) (map[string]string, error) {
	titles := make(map[string]string, len(slugs))
	if len(slugs) == 0 {
		return titles, nil
	}

	filter := bson.M{"slug": bson.M{"$in": slugs}}

	if collection == models.CollectionProfiles {
		cursor, err := s.profiles().Find(ctx, filter)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)
		var profiles []models.Profile
		if err := cursor.All(ctx, &profiles); err != nil {
			return nil, err
		}
		for _, p := range profiles {
			titles[p.Slug] = p.FullName()
		}
		return titles, nil
	}

	cursor, err := s.articles().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var articles []models.Article
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, err
	}
	for _, a := range articles {
		titles[a.Slug] = a.Title
	}
	return titles, nil
}

// --- ChunkStore ---

func (s *MongoStore) DeleteChunks(ctx context.Context, collection models.Collection, slug string) error {
	_, err := s.chunkCollection(collection).DeleteMany(ctx, bson.M{"slug": slug})
	return err
}

func (s *MongoStore) InsertChunks(ctx context.Context, collection models.Collection, chunks []models.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	docs := make([]interface{}, len(chunks))
	for i, c := range chunks {
		docs[i] = c
	}
	_, err := s.chunkCollection(collection).InsertMany(ctx, docs)
	return err
}

func (s *MongoStore) ApprovedChunks(ctx context.Context, collection models.Collection) ([]models.DocumentChunk, error) {
	cursor, err := s.chunkCollection(collection).Find(ctx, bson.M{"status": models.StatusApproved})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	chunks := make([]models.DocumentChunk, 0)
	if err := cursor.All(ctx, &chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}

// --- Write-side operations used by the admin routes ---

func (s *MongoStore) UpsertArticle(ctx context.Context, a *models.Article) error {
	a.UpdatedAt = time.Now()
	if a.Status == "" {
		a.Status = models.StatusApproved
	}
	if a.Audience == nil {
		a.Audience = []string{"All"}
	}
	opts := options.Replace().SetUpsert(true)
	_, err := s.articles().ReplaceOne(ctx, bson.M{"slug": a.Slug}, a, opts)
	return err
}

func (s *MongoStore) UpsertProfile(ctx context.Context, p *models.Profile) error {
	p.UpdatedAt = time.Now()
	if p.Status == "" {
		p.Status = models.StatusApproved
	}
	if p.Clients == nil {
		p.Clients = []string{}
	}
	opts := options.Replace().SetUpsert(true)
	_, err := s.profiles().ReplaceOne(ctx, bson.M{"slug": p.Slug}, p, opts)
	return err
}

func (s *MongoStore) DeleteArticle(ctx context.Context, slug string) error {
	res, err := s.articles().DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteProfile(ctx context.Context, slug string) error {
	res, err := s.profiles().DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (s *MongoStore) ListArticles(ctx context.Context, approvedOnly bool) ([]models.Article, error) {
	filter := bson.M{}
	if approvedOnly {
		filter["status"] = models.StatusApproved
	}
	cursor, err := s.articles().Find(ctx, filter, options.Find().SetSort(bson.M{"title": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	articles := make([]models.Article, 0)
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *MongoStore) ListProfiles(ctx context.Context, approvedOnly bool) ([]models.Profile, error) {
	filter := bson.M{}
	if approvedOnly {
		filter["status"] = models.StatusApproved
	}
	cursor, err := s.profiles().Find(ctx, filter, options.Find().SetSort(bson.M{"last_name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	profiles := make([]models.Profile, 0)
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}
