package model

import (
    "time"

    "go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking records a stay of a customer at a host's listing.  Dates are
// kept as the calendar-date strings the client sent; overlapping
// bookings are not rejected.  Bookings are immutable once created.
type Booking struct {
    ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
    CustomerID primitive.ObjectID `bson:"customerId" json:"customerId"`
    HostID     primitive.ObjectID `bson:"hostId" json:"hostId"`
    ListingID  primitive.ObjectID `bson:"listingId" json:"listingId"`
    StartDate  string             `bson:"startDate" json:"startDate"`
    EndDate    string             `bson:"endDate" json:"endDate"`
    TotalPrice float64            `bson:"totalPrice" json:"totalPrice"`
    CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
    UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PopulatedBooking is a booking with its three references resolved.
// Unresolvable references encode as null.
type PopulatedBooking struct {
    Booking
    CustomerID *User    `json:"customerId"`
    HostID     *User    `json:"hostId"`
    ListingID  *Listing `json:"listingId"`
}

// BookingFilter selects bookings by customer and/or host.  A zero id is
// ignored.
type BookingFilter struct {
    CustomerID primitive.ObjectID
    HostID     primitive.ObjectID
}
