package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/iliyamo/homie-rental/internal/model"
	"github.com/iliyamo/homie-rental/internal/queue"
	"github.com/iliyamo/homie-rental/internal/repository"
)

type BookingService struct {
	bookings BookingStore
	events   EventPublisher
}

func NewBookingService(bookings BookingStore, events EventPublisher) *BookingService {
	if bookings == nil || events == nil {
		panic("service.NewBookingService: nil dependency")
	}
	return &BookingService{bookings: bookings, events: events}
}

type BookingInput struct {
	CustomerID string  `json:"customerId"`
	HostID     string  `json:"hostId"`
	ListingID  string  `json:"listingId"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	TotalPrice float64 `json:"totalPrice"`
}

// Create stores a booking as given.  Overlapping dates and a host that
// does not own the listing are accepted.  Errors: *ValidationError.
func (s *BookingService) Create(ctx context.Context, in BookingInput) (*model.Booking, error) {
	b, err := in.toBooking()
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	if err := s.events.PublishBookingCreated(ctx, queue.NewBookingCreatedEvent(b)); err != nil {
		log.Printf("booking: publish %s failed: %v", queue.BookingCreatedSubject, err)
	}
	return b, nil
}

func (in BookingInput) toBooking() (*model.Booking, error) {
	customer, err := repository.ParseID(in.CustomerID)
	if err != nil {
		return nil, invalid("customerId", "must be a valid id")
	}
	host, err := repository.ParseID(in.HostID)
	if err != nil {
		return nil, invalid("hostId", "must be a valid id")
	}
	listing, err := repository.ParseID(in.ListingID)
	if err != nil {
		return nil, invalid("listingId", "must be a valid id")
	}
	if strings.TrimSpace(in.StartDate) == "" {
		return nil, invalid("startDate", "is required")
	}
	if strings.TrimSpace(in.EndDate) == "" {
		return nil, invalid("endDate", "is required")
	}
	if in.TotalPrice <= 0 {
		return nil, invalid("totalPrice", "must be greater than zero")
	}

	now := time.Now().UTC()
	return &model.Booking{
		CustomerID: customer,
		HostID:     host,
		ListingID:  listing,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		TotalPrice: in.TotalPrice,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
