// Package service holds the marketplace operations: accounts, listings,
// bookings and the per-user relationship queries.  Services depend on the
// small store interfaces below so the MongoDB and in-memory repositories
// are interchangeable.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/homie-rental/internal/model"
	"github.com/iliyamo/homie-rental/internal/queue"
)

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetManyByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.User, error)
	AddToList(ctx context.Context, userID primitive.ObjectID, list model.UserList, ref primitive.ObjectID) error
	RemoveFromList(ctx context.Context, userID primitive.ObjectID, list model.UserList, ref primitive.ObjectID) (bool, error)
}

type ListingStore interface {
	Create(ctx context.Context, l *model.Listing) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Listing, error)
	GetManyByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Listing, error)
	Find(ctx context.Context, f model.ListingFilter) ([]model.Listing, error)
}

type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	Find(ctx context.Context, f model.BookingFilter) ([]model.Booking, error)
}

// FileStore persists an uploaded file and returns the path to record.
// Remove deletes a path returned by Save.
type FileStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(path string) error
}

// discard removes uploads whose record was never stored.  Uploads are
// keyed by file name, so this also drops a same-named file that an
// earlier record points at; that collision already exists on overwrite.
func discard(files FileStore, paths ...string) {
	for _, p := range paths {
		if err := files.Remove(p); err != nil {
			log.Printf("upload: remove orphan %s failed: %v", p, err)
		}
	}
}

// EventPublisher announces completed writes.  Publish failures are logged
// by the services and never fail the request.
type EventPublisher interface {
	PublishListingCreated(ctx context.Context, ev queue.ListingCreatedEvent) error
	PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error
}

var (
	ErrNoImage            = errors.New("no file uploaded")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user doesn't exist")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoPhotos           = errors.New("no listing photos uploaded")
	ErrHostNotFound       = errors.New("listing host not found")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
