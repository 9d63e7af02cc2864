package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	closureerrors "linkuup/internal/closures/errors"
	"linkuup/pkg/config"
	mongotx "linkuup/pkg/db/mongo"
	"linkuup/pkg/model"
)

const (
	ClosureCollectionName = "Closure_periods"
)

type ClosureRepository interface {
	Create(ctx context.Context, c *model.ClosurePeriod) error
	FindByID(ctx context.Context, id string) (*model.ClosurePeriod, error)
	FindByOwner(ctx context.Context, ownerScope, ownerID string, limit int, offset int64) ([]*model.ClosurePeriod, error)
	// ListActive returns every active closure row for the owner, regardless of
	// date range. Availability checks expand recurring rows themselves.
	ListActive(ctx context.Context, ownerScope, ownerID string) ([]*model.ClosurePeriod, error)
	Update(ctx context.Context, id string, c *model.ClosurePeriod) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	CountByOwner(ctx context.Context, ownerScope, ownerID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoClosureRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

func NewMongoClosureRepository(cfg *config.Config) ClosureRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoClosureRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(ClosureCollectionName),
	}
}

func (r *mongoClosureRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoClosureRepository) Create(ctx context.Context, c *model.ClosurePeriod) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	c.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to create closure period: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid.Hex()
	}
	return nil
}

func (r *mongoClosureRepository) FindByID(ctx context.Context, id string) (*model.ClosurePeriod, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", closureerrors.ErrInvalidID, id)
	}

	var c model.ClosurePeriod
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, closureerrors.ErrClosureNotFound
		}
		return nil, fmt.Errorf("failed to find closure period: %w", err)
	}

	return &c, nil
}

func (r *mongoClosureRepository) FindByOwner(ctx context.Context, ownerScope, ownerID string, limit int, offset int64) ([]*model.ClosurePeriod, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	filter := bson.M{
		"owner_scope": ownerScope,
		"owner_id":    ownerID,
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find closure periods: %w", err)
	}
	defer cursor.Close(ctx)

	var closures []*model.ClosurePeriod
	if err = cursor.All(ctx, &closures); err != nil {
		return nil, fmt.Errorf("failed to decode closure periods: %w", err)
	}

	return closures, nil
}

func (r *mongoClosureRepository) ListActive(ctx context.Context, ownerScope, ownerID string) ([]*model.ClosurePeriod, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"owner_scope": ownerScope,
		"owner_id":    ownerID,
		"status":      model.ClosureStatusActive,
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list active closure periods: %w", err)
	}
	defer cursor.Close(ctx)

	var closures []*model.ClosurePeriod
	if err = cursor.All(ctx, &closures); err != nil {
		return nil, fmt.Errorf("failed to decode closure periods: %w", err)
	}

	return closures, nil
}

func (r *mongoClosureRepository) Update(ctx context.Context, id string, c *model.ClosurePeriod) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", closureerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":            c.Name,
			"start_date":      c.StartDate,
			"end_date":        c.EndDate,
			"is_full_day":     c.IsFullDay,
			"half_day_period": c.HalfDayPeriod,
			"is_recurring":    c.IsRecurring,
			"recurrence":      c.Recurrence,
			"status":          c.Status,
			"notes":           c.Notes,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update closure period: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, closureerrors.ErrClosureNotFound
	}

	return result, nil
}

func (r *mongoClosureRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", closureerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete closure period: %w", err)
	}

	if result.DeletedCount == 0 {
		return closureerrors.ErrClosureNotFound
	}

	return nil
}

func (r *mongoClosureRepository) CountByOwner(ctx context.Context, ownerScope, ownerID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"owner_scope": ownerScope,
		"owner_id":    ownerID,
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count closure periods: %w", err)
	}

	return count, nil
}

func (r *mongoClosureRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	tm := mongotx.NewTransactionManager(r.cfg.Client.Mongo)
	return tm.ExecuteTransaction(ctx, fn)
}
