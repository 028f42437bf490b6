package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prairiegroup/storefront/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepository interface {
	// EnsureIndexes creates the TTL index that lets MongoDB drop expired
	// sessions on its own.
	EnsureIndexes(ctx context.Context) error
	FindByID(ctx context.Context, id string) (*models.SessionRecord, error)
	Upsert(ctx context.Context, record *models.SessionRecord) error
	Delete(ctx context.Context, id string) error
}

type sessionRepo struct {
	collection *mongo.Collection
}

func NewSessionRepository(db *DB) SessionRepository {
	return &sessionRepo{
		collection: db.Database.Collection(models.SessionRecord{}.CollectionName()),
	}
}

func (r *sessionRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetName("expires_at_ttl").SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("failed to create session ttl index: %w", err)
	}
	return nil
}

// FindByID returns models.ErrNotFound for unknown and expired sessions. The
// TTL monitor only runs once a minute, so expiry is also checked here.
func (r *sessionRepo) FindByID(ctx context.Context, id string) (*models.SessionRecord, error) {
	filter := bson.M{
		"_id":        id,
		"expires_at": bson.M{"$gt": time.Now()},
	}

	var record models.SessionRecord
	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &record, nil
}

func (r *sessionRepo) Upsert(ctx context.Context, record *models.SessionRecord) error {
	now := time.Now()
	record.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"values":     record.Values,
			"expires_at": record.ExpiresAt,
			"updated_at": record.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	_, err := r.collection.UpdateByID(ctx, record.ID, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
