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
	"linkuup/pkg/model"
)

const (
	TimeOffCollectionName = "Employee_time_off"
)

type TimeOffRepository interface {
	Create(ctx context.Context, t *model.EmployeeTimeOff) error
	FindByID(ctx context.Context, id string) (*model.EmployeeTimeOff, error)
	FindByEmployee(ctx context.Context, employeeID string, limit int, offset int64) ([]*model.EmployeeTimeOff, error)
	// ListApproved returns every approved time-off row for the employee.
	ListApproved(ctx context.Context, employeeID string) ([]*model.EmployeeTimeOff, error)
	Update(ctx context.Context, id string, t *model.EmployeeTimeOff) (*mongo.UpdateResult, error)
	UpdateStatus(ctx context.Context, id string, status string, approvedBy string) error
	Delete(ctx context.Context, id string) error
}

type mongoTimeOffRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

func NewMongoTimeOffRepository(cfg *config.Config) TimeOffRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTimeOffRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(TimeOffCollectionName),
	}
}

func (r *mongoTimeOffRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoTimeOffRepository) Create(ctx context.Context, t *model.EmployeeTimeOff) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	t.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, t)
	if err != nil {
		return fmt.Errorf("failed to create time-off request: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		t.ID = oid.Hex()
	}
	return nil
}

func (r *mongoTimeOffRepository) FindByID(ctx context.Context, id string) (*model.EmployeeTimeOff, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", closureerrors.ErrInvalidID, id)
	}

	var t model.EmployeeTimeOff
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, closureerrors.ErrTimeOffNotFound
		}
		return nil, fmt.Errorf("failed to find time-off request: %w", err)
	}

	return &t, nil
}

func (r *mongoTimeOffRepository) FindByEmployee(ctx context.Context, employeeID string, limit int, offset int64) ([]*model.EmployeeTimeOff, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"employee_id": employeeID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find time-off requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*model.EmployeeTimeOff
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode time-off requests: %w", err)
	}

	return requests, nil
}

func (r *mongoTimeOffRepository) ListApproved(ctx context.Context, employeeID string) ([]*model.EmployeeTimeOff, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"employee_id": employeeID,
		"status":      model.TimeOffStatusApproved,
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved time-off: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*model.EmployeeTimeOff
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode time-off requests: %w", err)
	}

	return requests, nil
}

func (r *mongoTimeOffRepository) Update(ctx context.Context, id string, t *model.EmployeeTimeOff) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", closureerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"time_off_type":   t.TimeOffType,
			"start_date":      t.StartDate,
			"end_date":        t.EndDate,
			"is_full_day":     t.IsFullDay,
			"half_day_period": t.HalfDayPeriod,
			"is_recurring":    t.IsRecurring,
			"recurrence":      t.Recurrence,
			"notes":           t.Notes,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update time-off request: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, closureerrors.ErrTimeOffNotFound
	}

	return result, nil
}

func (r *mongoTimeOffRepository) UpdateStatus(ctx context.Context, id string, status string, approvedBy string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", closureerrors.ErrInvalidID, id)
	}

	set := bson.M{"status": status}
	if approvedBy != "" {
		set["approved_by"] = approvedBy
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update time-off status: %w", err)
	}

	if result.MatchedCount == 0 {
		return closureerrors.ErrTimeOffNotFound
	}

	return nil
}

func (r *mongoTimeOffRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", closureerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete time-off request: %w", err)
	}

	if result.DeletedCount == 0 {
		return closureerrors.ErrTimeOffNotFound
	}

	return nil
}
