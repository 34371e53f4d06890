// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Listing repository: inserts, lookups by id and
// the filtered finds used by category listing, keyword search and the
// per-host property list.
package repository

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/homie-rental/internal/model"
)

// ListingRepo encapsulates all queries related to listings.
type ListingRepo struct {
	col *mongo.Collection // listings collection handle
}

// NewListingRepo constructs a ListingRepo over db's listings collection.
func NewListingRepo(db *mongo.Database) *ListingRepo {
	return &ListingRepo{col: db.Collection(ListingsCollection)}
}

// Create inserts a listing and populates its ID.
func (r *ListingRepo) Create(ctx context.Context, l *model.Listing) error {
	res, err := r.col.InsertOne(ctx, l)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		l.ID = oid
	}
	return nil
}

// GetByID fetches a listing by id.  It returns ErrNotFound if no
// document matches.
func (r *ListingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Listing, error) {
	var l model.Listing
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// GetManyByID returns the listings among ids that exist, keyed by id.
func (r *ListingRepo) GetManyByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Listing, error) {
	out := make(map[primitive.ObjectID]*model.Listing, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	found, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for i := range found {
		out[found[i].ID] = &found[i]
	}
	return out, nil
}

// Find returns the listings matching f in insertion order.  The search
// term is escaped so it always matches as a literal substring.
func (r *ListingRepo) Find(ctx context.Context, f model.ListingFilter) ([]model.Listing, error) {
	return r.find(ctx, listingQuery(f))
}

func (r *ListingRepo) find(ctx context.Context, filter bson.M) ([]model.Listing, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []model.Listing{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func listingQuery(f model.ListingFilter) bson.M {
	q := bson.M{}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if !f.CreatorID.IsZero() {
		q["creator"] = f.CreatorID
	}
	if f.Term != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Term), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"category": rx},
			bson.M{"title": rx},
		}
	}
	return q
}
