package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/homie-rental/internal/model"
)

// populateListings resolves each listing's creator with one batch lookup.
// A creator that no longer exists is left nil.
func populateListings(ctx context.Context, users UserStore, listings []model.Listing) ([]model.PopulatedListing, error) {
	ids := make([]primitive.ObjectID, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.Creator)
	}
	creators, err := users.GetManyByID(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	out := make([]model.PopulatedListing, 0, len(listings))
	for _, l := range listings {
		out = append(out, model.PopulatedListing{Listing: l, Creator: creators[l.Creator]})
	}
	return out, nil
}

// populateBookings resolves customer, host and listing for each booking.
func populateBookings(ctx context.Context, users UserStore, listings ListingStore, bookings []model.Booking) ([]model.PopulatedBooking, error) {
	userIDs := make([]primitive.ObjectID, 0, 2*len(bookings))
	listingIDs := make([]primitive.ObjectID, 0, len(bookings))
	for _, b := range bookings {
		userIDs = append(userIDs, b.CustomerID, b.HostID)
		listingIDs = append(listingIDs, b.ListingID)
	}
	us, err := users.GetManyByID(ctx, uniqueIDs(userIDs))
	if err != nil {
		return nil, err
	}
	ls, err := listings.GetManyByID(ctx, uniqueIDs(listingIDs))
	if err != nil {
		return nil, err
	}
	out := make([]model.PopulatedBooking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, model.PopulatedBooking{
			Booking:    b,
			CustomerID: us[b.CustomerID],
			HostID:     us[b.HostID],
			ListingID:  ls[b.ListingID],
		})
	}
	return out, nil
}

func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
