package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hellosleep/internal/model"
)

// ContentRepo handles MongoDB operations for booklet-shaped content
type ContentRepo interface {
	UpsertRecommendation(ctx context.Context, rec *model.ContentRecord) error
	GetRecommendation(ctx context.Context, patternHash string) (*model.ContentRecord, error)
	PublishBooklets(ctx context.Context, booklets []model.Booklet) (int, error)
	EnsureIndexes(ctx context.Context) error
}

type contentRepo struct {
	aiBooklets     *mongo.Collection
	staticBooklets *mongo.Collection
}

// NewContentRepo creates a new content repository
func NewContentRepo(db *mongo.Database) ContentRepo {
	return &contentRepo{
		aiBooklets:     db.Collection("ai_booklets"),
		staticBooklets: db.Collection("static_booklets"),
	}
}

func (r *contentRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.aiBooklets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "patternHash", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ai_booklets index: %w", err)
	}
	_, err = r.staticBooklets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("static_booklets index: %w", err)
	}
	return nil
}

func (r *contentRepo) UpsertRecommendation(ctx context.Context, rec *model.ContentRecord) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.aiBooklets.ReplaceOne(ctx, bson.M{"patternHash": rec.PatternHash}, rec, opts)
	return err
}

func (r *contentRepo) GetRecommendation(ctx context.Context, patternHash string) (*model.ContentRecord, error) {
	var rec model.ContentRecord
	err := r.aiBooklets.FindOne(ctx, bson.M{"patternHash": patternHash}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// PublishBooklets upserts every static booklet by ID and returns how many were written
func (r *contentRepo) PublishBooklets(ctx context.Context, booklets []model.Booklet) (int, error) {
	if len(booklets) == 0 {
		return 0, nil
	}
	writes := make([]mongo.WriteModel, 0, len(booklets))
	for _, b := range booklets {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": b.ID}).
			SetReplacement(b).
			SetUpsert(true))
	}
	res, err := r.staticBooklets.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return int(res.UpsertedCount + res.MatchedCount), nil
}

// Connect opens a mongo client and pings it
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, client.Database(database), nil
}
