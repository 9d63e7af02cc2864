package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"linkuup/pkg/config"
	"linkuup/pkg/model"
)

const (
	SlotLockCollectionName = "Booking_locks"
)

// SlotLockRepository manages advisory slot locks. The collection's _id
// uniqueness makes Acquire fail with a duplicate-key error when another
// writer holds the lock; a TTL index on expires_at reaps abandoned locks.
type SlotLockRepository interface {
	Acquire(ctx context.Context, lockID string, ttl time.Duration) (*model.SlotLock, error)
	Release(ctx context.Context, lockID string) error
}

type mongoSlotLockRepository struct {
	collection *mongo.Collection
}

func NewMongoSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{
		collection: db.Collection(SlotLockCollectionName),
	}
}

func (r *mongoSlotLockRepository) Acquire(ctx context.Context, lockID string, ttl time.Duration) (*model.SlotLock, error) {
	now := time.Now().UTC()
	lock := &model.SlotLock{
		ID:        lockID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		return nil, err
	}

	return lock, nil
}

func (r *mongoSlotLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
