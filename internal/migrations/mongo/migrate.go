package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"linkuup/internal/migrations/mongo/validators"
)

var (
	PlacesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "business_id", Value: 1}}},
		{Keys: bson.D{{Key: "city", Value: 1}, {Key: "name", Value: 1}}},
	}

	ClosurePeriodsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "owner_scope", Value: 1},
			{Key: "owner_id", Value: 1},
			{Key: "status", Value: 1},
		}},
		{Keys: bson.D{{Key: "start_date", Value: 1}}},
	}

	EmployeeTimeOffIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "employee_id", Value: 1},
			{Key: "status", Value: 1},
		}},
		{Keys: bson.D{{Key: "start_date", Value: 1}}},
	}

	// The compound index backs the half-open overlap probe the availability
	// checker and writer run on every slot.
	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "place_id", Value: 1},
			{Key: "employee_id", Value: 1},
			{Key: "start_time", Value: 1},
			{Key: "end_time", Value: 1},
		}},
		{Keys: bson.D{{Key: "parent_booking_id", Value: 1}}},
		{Keys: bson.D{
			{Key: "customer_id", Value: 1},
			{Key: "start_time", Value: 1},
		}},
	}

	// Abandoned advisory locks are reaped by Mongo once expires_at passes.
	BookingLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("Running Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Places": {
			Indexes:   PlacesIndexes,
			Validator: validators.PlaceValidator,
		},
		"Closure_periods": {
			Indexes:   ClosurePeriodsIndexes,
			Validator: validators.ClosurePeriodValidator,
		},
		"Employee_time_off": {
			Indexes:   EmployeeTimeOffIndexes,
			Validator: validators.EmployeeTimeOffValidator,
		},
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"Booking_locks": {
			Indexes: BookingLocksIndexes,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("Creating collection: %s\n", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	if validator != nil {
		fmt.Printf("Collection %s already exists, updating validator\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("Ensured indexes for %s\n", name)
	return nil
}
