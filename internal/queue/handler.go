package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"

    "go.mongodb.org/mongo-driver/bson/primitive"

    "github.com/iliyamo/homie-rental/internal/model"
)

// ErrUnknownSubject is returned by Handle for messages on a subject the
// handler does not process.
var ErrUnknownSubject = errors.New("unknown subject")

// ListUpdater is the slice of the user store the handler needs.
type ListUpdater interface {
    AddToList(ctx context.Context, userID primitive.ObjectID, list model.UserList, ref primitive.ObjectID) error
}

// Handler keeps the users' relationship lists in step with new listings
// and bookings.  Every update is an add-to-set, so redelivered messages
// are harmless.
type Handler struct {
    users ListUpdater
}

func NewHandler(users ListUpdater) *Handler {
    if users == nil {
        panic("queue.NewHandler: nil user store")
    }
    return &Handler{users: users}
}

// Handle decodes body according to subject and applies it.
func (h *Handler) Handle(ctx context.Context, subject string, body []byte) error {
    switch subject {
    case ListingCreatedSubject:
        var ev ListingCreatedEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return fmt.Errorf("unmarshal: %w", err)
        }
        return h.HandleListingCreated(ctx, ev)
    case BookingCreatedSubject:
        var ev BookingCreatedEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return fmt.Errorf("unmarshal: %w", err)
        }
        return h.HandleBookingCreated(ctx, ev)
    default:
        return fmt.Errorf("%w: %s", ErrUnknownSubject, subject)
    }
}

// HandleListingCreated appends the listing to its creator's property list.
func (h *Handler) HandleListingCreated(ctx context.Context, ev ListingCreatedEvent) error {
    listingID, err := primitive.ObjectIDFromHex(ev.ListingID)
    if err != nil {
        return fmt.Errorf("listingId: %w", err)
    }
    creatorID, err := primitive.ObjectIDFromHex(ev.CreatorID)
    if err != nil {
        return fmt.Errorf("creatorId: %w", err)
    }
    if err := h.users.AddToList(ctx, creatorID, model.PropertyList, listingID); err != nil {
        return fmt.Errorf("property list of %s: %w", ev.CreatorID, err)
    }
    return nil
}

// HandleBookingCreated appends the booking to the customer's trip list
// and the host's reservation list.  Both updates are attempted even if
// the first fails.
func (h *Handler) HandleBookingCreated(ctx context.Context, ev BookingCreatedEvent) error {
    bookingID, err := primitive.ObjectIDFromHex(ev.BookingID)
    if err != nil {
        return fmt.Errorf("bookingId: %w", err)
    }
    customerID, err := primitive.ObjectIDFromHex(ev.CustomerID)
    if err != nil {
        return fmt.Errorf("customerId: %w", err)
    }
    hostID, err := primitive.ObjectIDFromHex(ev.HostID)
    if err != nil {
        return fmt.Errorf("hostId: %w", err)
    }

    var errs []error
    if err := h.users.AddToList(ctx, customerID, model.TripList, bookingID); err != nil {
        errs = append(errs, fmt.Errorf("trip list of %s: %w", ev.CustomerID, err))
    }
    if err := h.users.AddToList(ctx, hostID, model.ReservationList, bookingID); err != nil {
        errs = append(errs, fmt.Errorf("reservation list of %s: %w", ev.HostID, err))
    }
    return errors.Join(errs...)
}
