// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without depending on the underlying driver's error types.
package repository

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a lookup by id or unique key matches no
// document.
var ErrNotFound = errors.New("not found")

// ErrInvalidID is returned when a reference id is not a 24 character hex
// ObjectID.
var ErrInvalidID = errors.New("invalid id")

// ErrEmailExists is returned when inserting a user violates the unique
// index on email.
var ErrEmailExists = errors.New("email already exists")

// ParseID converts a hex string into an ObjectID.  Malformed input is
// reported as ErrInvalidID wrapped with the offending value.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, hex)
	}
	return id, nil
}
