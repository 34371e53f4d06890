package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/homie-rental/internal/model"
)

// BookingRepo persists bookings.  Bookings are write-once: there is no
// update or delete.
type BookingRepo struct{ col *mongo.Collection }

func NewBookingRepo(db *mongo.Database) *BookingRepo {
	return &BookingRepo{col: db.Collection(BookingsCollection)}
}

// Create inserts b and populates its ID.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	res, err := r.col.InsertOne(ctx, b)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		b.ID = oid
	}
	return nil
}

// Find lists bookings for a customer and/or host in insertion order.
func (r *BookingRepo) Find(ctx context.Context, f model.BookingFilter) ([]model.Booking, error) {
	q := bson.M{}
	if !f.CustomerID.IsZero() {
		q["customerId"] = f.CustomerID
	}
	if !f.HostID.IsZero() {
		q["hostId"] = f.HostID
	}
	cur, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []model.Booking{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
