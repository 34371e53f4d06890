package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/homie-rental/internal/model"
	"github.com/iliyamo/homie-rental/internal/repository"
)

// UserService answers the per-user relationship queries and owns the
// wishlist toggle.
type UserService struct {
	users    UserStore
	listings ListingStore
	bookings BookingStore
}

func NewUserService(users UserStore, listings ListingStore, bookings BookingStore) *UserService {
	if users == nil || listings == nil || bookings == nil {
		panic("service.NewUserService: nil dependency")
	}
	return &UserService{users: users, listings: listings, bookings: bookings}
}

// Trips returns the bookings the user made as a customer.
func (s *UserService) Trips(ctx context.Context, rawUserID string) ([]model.PopulatedBooking, error) {
	id, err := repository.ParseID(rawUserID)
	if err != nil {
		return nil, err
	}
	bs, err := s.bookings.Find(ctx, model.BookingFilter{CustomerID: id})
	if err != nil {
		return nil, err
	}
	return populateBookings(ctx, s.users, s.listings, bs)
}

// Reservations returns the bookings the user received as a host.
func (s *UserService) Reservations(ctx context.Context, rawUserID string) ([]model.PopulatedBooking, error) {
	id, err := repository.ParseID(rawUserID)
	if err != nil {
		return nil, err
	}
	bs, err := s.bookings.Find(ctx, model.BookingFilter{HostID: id})
	if err != nil {
		return nil, err
	}
	return populateBookings(ctx, s.users, s.listings, bs)
}

// Properties returns the listings the user created.
func (s *UserService) Properties(ctx context.Context, rawUserID string) ([]model.PopulatedListing, error) {
	id, err := repository.ParseID(rawUserID)
	if err != nil {
		return nil, err
	}
	ls, err := s.listings.Find(ctx, model.ListingFilter{CreatorID: id})
	if err != nil {
		return nil, err
	}
	return populateListings(ctx, s.users, ls)
}

const (
	WishlistRemoved = "Listing is removed from wish list"
	WishlistAdded   = "Listing is added to wish list"
)

type WishlistResult struct {
	Message  string                   `json:"message"`
	WishList []model.PopulatedListing `json:"wishList"`
}

// ToggleWishlist removes the listing from the user's wishlist if present
// and adds it otherwise.  The remove only matches when the listing is in
// the list, so two concurrent toggles cannot both add or both remove.
// Errors: repository.ErrInvalidID, ErrUserNotFound, repository.ErrNotFound.
func (s *UserService) ToggleWishlist(ctx context.Context, rawUserID, rawListingID string) (*WishlistResult, error) {
	userID, err := repository.ParseID(rawUserID)
	if err != nil {
		return nil, err
	}
	listingID, err := repository.ParseID(rawListingID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("listing %s: %w", rawListingID, err)
		}
		return nil, err
	}

	msg := WishlistRemoved
	removed, err := s.users.RemoveFromList(ctx, userID, model.WishList, listingID)
	if err != nil {
		return nil, err
	}
	if !removed {
		msg = WishlistAdded
		if err := s.users.AddToList(ctx, userID, model.WishList, listingID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	wish, err := s.wishlist(ctx, u)
	if err != nil {
		return nil, err
	}
	return &WishlistResult{Message: msg, WishList: wish}, nil
}

// wishlist resolves u's wishlist in list order, skipping listings that
// have since been removed.
func (s *UserService) wishlist(ctx context.Context, u *model.User) ([]model.PopulatedListing, error) {
	found, err := s.listings.GetManyByID(ctx, u.WishList)
	if err != nil {
		return nil, err
	}
	ls := make([]model.Listing, 0, len(u.WishList))
	for _, id := range u.WishList {
		if l, ok := found[id]; ok {
			ls = append(ls, *l)
		}
	}
	return populateListings(ctx, s.users, ls)
}
