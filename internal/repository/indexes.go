package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	UsersCollection    = "users"
	ListingsCollection = "listings"
	BookingsCollection = "bookings"
)

// EnsureIndexes creates the indexes the repositories rely on.  The
// unique index on users.email is what enforces email uniqueness at the
// store level; the others back the per-user relationship queries.
// CreateMany is idempotent for identical index definitions.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	if _, err := db.Collection(ListingsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "creator", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}); err != nil {
		return err
	}
	_, err := db.Collection(BookingsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "customerId", Value: 1}}},
		{Keys: bson.D{{Key: "hostId", Value: 1}}},
	})
	return err
}
