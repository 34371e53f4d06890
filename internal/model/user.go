package model

import (
    "time"

    "go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account document as stored in the `users`
// collection.  Relationship lists hold references (ObjectIDs) to other
// documents; they are resolved at read time by the service layer and
// never embedded.
//
// Fields:
//  ID               – document id (_id).
//  FirstName        – given name.
//  LastName         – family name.
//  Email            – unique email address (unique index on the collection).
//  Password         – bcrypt hash; never serialized to JSON.
//  ProfileImagePath – stored path of the uploaded profile image.
//  TripList         – bookings made by the user as a customer.
//  WishList         – listings saved by the user.
//  PropertyList     – listings created by the user.
//  ReservationList  – bookings received by the user as a host.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type User struct {
    ID               primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
    FirstName        string               `bson:"firstName" json:"firstName"`
    LastName         string               `bson:"lastName" json:"lastName"`
    Email            string               `bson:"email" json:"email"`
    Password         string               `bson:"password" json:"-"`
    ProfileImagePath string               `bson:"profileImagePath" json:"profileImagePath"`
    TripList         []primitive.ObjectID `bson:"tripList" json:"tripList"`
    WishList         []primitive.ObjectID `bson:"wishList" json:"wishList"`
    PropertyList     []primitive.ObjectID `bson:"propertyList" json:"propertyList"`
    ReservationList  []primitive.ObjectID `bson:"reservationList" json:"reservationList"`
    CreatedAt        time.Time            `bson:"createdAt" json:"createdAt"`
    UpdatedAt        time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// UserList names one of the reference lists kept on a user document.
// The value is the bson field name so it can be used directly in
// update documents.
type UserList string

const (
    TripList        UserList = "tripList"
    WishList        UserList = "wishList"
    PropertyList    UserList = "propertyList"
    ReservationList UserList = "reservationList"
)

// NewUser returns a user with empty relationship lists and both
// timestamps set to now (UTC).  The password must already be hashed.
func NewUser(firstName, lastName, email, passwordHash, profileImagePath string) *User {
    now := time.Now().UTC()
    return &User{
        FirstName:        firstName,
        LastName:         lastName,
        Email:            email,
        Password:         passwordHash,
        ProfileImagePath: profileImagePath,
        TripList:         []primitive.ObjectID{},
        WishList:         []primitive.ObjectID{},
        PropertyList:     []primitive.ObjectID{},
        ReservationList:  []primitive.ObjectID{},
        CreatedAt:        now,
        UpdatedAt:        now,
    }
}

// HostInfo is the reduced projection of a listing's creator shown on the
// listing detail page.
type HostInfo struct {
    ID               primitive.ObjectID `json:"_id"`
    FirstName        string             `json:"firstName"`
    LastName         string             `json:"lastName"`
    ProfileImagePath string             `json:"profileImagePath"`
}

// HostInfoFrom projects u into a HostInfo.
func HostInfoFrom(u *User) HostInfo {
    return HostInfo{
        ID:               u.ID,
        FirstName:        u.FirstName,
        LastName:         u.LastName,
        ProfileImagePath: u.ProfileImagePath,
    }
}
