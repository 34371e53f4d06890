// Package queue defines the domain events exchanged over the message
// broker and the publishers and consumers that move them.
package queue

import (
    "time"

    "github.com/iliyamo/homie-rental/internal/model"
)

// Subjects double as RabbitMQ queue names and NATS subjects.
const (
    ListingCreatedSubject = "listing.created"
    BookingCreatedSubject = "booking.created"
)

// ListingCreatedEvent is published after a listing is stored.  Consumers
// use it to append the listing to its creator's property list.
type ListingCreatedEvent struct {
    ListingID string `json:"listingId"`
    CreatorID string `json:"creatorId"`
    Category  string `json:"category"`
    Title     string `json:"title"`
    CreatedAt string `json:"createdAt"`
}

// BookingCreatedEvent is published after a booking is stored.  It carries
// the full booking so downstream consumers can notify or log without
// querying the primary database.
type BookingCreatedEvent struct {
    BookingID  string  `json:"bookingId"`
    CustomerID string  `json:"customerId"`
    HostID     string  `json:"hostId"`
    ListingID  string  `json:"listingId"`
    StartDate  string  `json:"startDate"`
    EndDate    string  `json:"endDate"`
    TotalPrice float64 `json:"totalPrice"`
    CreatedAt  string  `json:"createdAt"`
}

// NewListingCreatedEvent builds the event for a stored listing.
func NewListingCreatedEvent(l *model.Listing) ListingCreatedEvent {
    return ListingCreatedEvent{
        ListingID: l.ID.Hex(),
        CreatorID: l.Creator.Hex(),
        Category:  l.Category,
        Title:     l.Title,
        CreatedAt: l.CreatedAt.UTC().Format(time.RFC3339),
    }
}

// NewBookingCreatedEvent builds the event for a stored booking.
func NewBookingCreatedEvent(b *model.Booking) BookingCreatedEvent {
    return BookingCreatedEvent{
        BookingID:  b.ID.Hex(),
        CustomerID: b.CustomerID.Hex(),
        HostID:     b.HostID.Hex(),
        ListingID:  b.ListingID.Hex(),
        StartDate:  b.StartDate,
        EndDate:    b.EndDate,
        TotalPrice: b.TotalPrice,
        CreatedAt:  b.CreatedAt.UTC().Format(time.RFC3339),
    }
}
