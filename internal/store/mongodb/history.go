package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/superbullet/superbullet/internal/domain"
	"github.com/superbullet/superbullet/pkg/utils/pagination"
)

const generationsCollection = "code_generations"

// GenerationHistory implements domain.GenerationHistory using MongoDB
type GenerationHistory struct {
	collection *mongo.Collection
}

func NewGenerationHistory(ctx context.Context, database *mongo.Database) *GenerationHistory {
	h := &GenerationHistory{
		collection: database.Collection(generationsCollection),
	}
	h.ensureIndexes(ctx)

	return h
}

// Connect opens a client and pings the primary
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Info().Msg("Connected to MongoDB")

	return client, nil
}

func (h *GenerationHistory) ensureIndexes(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := h.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn().Err(err).Str("collection", generationsCollection).Msg("Failed to create indexes")
	}
}

func (h *GenerationHistory) Record(ctx context.Context, record domain.GenerationRecord) error {
	if record.ID == "" {
		record.ID = xid.New().String()
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if _, err := h.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to record generation: %w", err)
	}

	return nil
}

func (h *GenerationHistory) List(ctx context.Context, userID string, page pagination.Params) ([]domain.GenerationRecord, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	if page.Limit > 0 {
		findOptions.SetLimit(int64(page.Limit))
	}

	if page.Offset > 0 {
		findOptions.SetSkip(int64(page.Offset))
	}

	cursor, err := h.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to find generations: %w", err)
	}
	defer cursor.Close(ctx)

	records := []domain.GenerationRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode generations: %w", err)
	}

	return records, nil
}
