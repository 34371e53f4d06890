package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/homie-rental/internal/repository"
)

func TestToggleWishlistTwiceRestores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.register(t, "host@example.com")
	guest := f.register(t, "guest@example.com")
	keep := f.createListing(t, host, "Cabins", "Kept")
	l := f.createListing(t, host, "Cabins", "Toggled")

	_, err := f.users.ToggleWishlist(ctx, guest.ID.Hex(), keep.ID.Hex())
	require.NoError(t, err)

	res, err := f.users.ToggleWishlist(ctx, guest.ID.Hex(), l.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, WishlistAdded, res.Message)
	assert.Equal(t, []string{"Kept", "Toggled"}, titles(res.WishList))
	require.NotNil(t, res.WishList[1].Creator)
	assert.Equal(t, host.ID, res.WishList[1].Creator.ID)

	res, err = f.users.ToggleWishlist(ctx, guest.ID.Hex(), l.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, WishlistRemoved, res.Message)
	assert.Equal(t, []string{"Kept"}, titles(res.WishList))

	u, err := f.store.Users().GetByID(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{keep.ID}, u.WishList)
}

func TestToggleWishlistMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.register(t, "host@example.com")
	l := f.createListing(t, host, "Cabins", "Log cabin")

	_, err := f.users.ToggleWishlist(ctx, primitive.NewObjectID().Hex(), l.ID.Hex())
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.users.ToggleWishlist(ctx, host.ID.Hex(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = f.users.ToggleWishlist(ctx, "bad", l.ID.Hex())
	assert.ErrorIs(t, err, repository.ErrInvalidID)
}

func TestTripsAndReservations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.register(t, "host@example.com")
	guest := f.register(t, "guest@example.com")
	l := f.createListing(t, host, "Cabins", "Log cabin")

	b, err := f.bookings.Create(ctx, BookingInput{
		CustomerID: guest.ID.Hex(),
		HostID:     host.ID.Hex(),
		ListingID:  l.ID.Hex(),
		StartDate:  "2024-07-01",
		EndDate:    "2024-07-05",
		TotalPrice: 480,
	})
	require.NoError(t, err)

	trips, err := f.users.Trips(ctx, guest.ID.Hex())
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, b.ID, trips[0].ID)
	require.NotNil(t, trips[0].CustomerID)
	require.NotNil(t, trips[0].HostID)
	require.NotNil(t, trips[0].ListingID)
	assert.Equal(t, guest.ID, trips[0].CustomerID.ID)
	assert.Equal(t, host.ID, trips[0].HostID.ID)
	assert.Equal(t, l.ID, trips[0].ListingID.ID)

	res, err := f.users.Reservations(ctx, host.ID.Hex())
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, b.ID, res[0].ID)

	none, err := f.users.Trips(ctx, host.ID.Hex())
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = f.users.Trips(ctx, "bad")
	assert.ErrorIs(t, err, repository.ErrInvalidID)
}

func TestPopulateLeavesMissingReferencesNil(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.register(t, "host@example.com")

	_, err := f.bookings.Create(ctx, BookingInput{
		CustomerID: primitive.NewObjectID().Hex(),
		HostID:     host.ID.Hex(),
		ListingID:  primitive.NewObjectID().Hex(),
		StartDate:  "2024-01-01",
		EndDate:    "2024-01-02",
		TotalPrice: 10,
	})
	require.NoError(t, err)

	res, err := f.users.Reservations(ctx, host.ID.Hex())
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Nil(t, res[0].CustomerID)
	assert.Nil(t, res[0].ListingID)
	assert.NotNil(t, res[0].HostID)
}

func TestProperties(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@example.com")
	b := f.register(t, "b@example.com")
	f.createListing(t, a, "Cabins", "A1")
	f.createListing(t, b, "Cabins", "B1")
	f.createListing(t, a, "Lake", "A2")

	got, err := f.users.Properties(ctx, a.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, titles(got))
	for _, l := range got {
		require.NotNil(t, l.Creator)
		assert.Equal(t, a.ID, l.Creator.ID)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t)
	id := primitive.NewObjectID().Hex()
	valid := BookingInput{CustomerID: id, HostID: id, ListingID: id, StartDate: "a", EndDate: "b", TotalPrice: 1}

	cases := map[string]func(*BookingInput){
		"bad customer": func(b *BookingInput) { b.CustomerID = "x" },
		"bad host":     func(b *BookingInput) { b.HostID = "" },
		"bad listing":  func(b *BookingInput) { b.ListingID = "123" },
		"no start":     func(b *BookingInput) { b.StartDate = "" },
		"no end":       func(b *BookingInput) { b.EndDate = " " },
		"zero price":   func(b *BookingInput) { b.TotalPrice = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := valid
			mutate(&in)
			_, err := f.bookings.Create(context.Background(), in)
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
	assert.Empty(t, f.events.bookings)

	b, err := f.bookings.Create(context.Background(), valid)
	require.NoError(t, err)
	require.Len(t, f.events.bookings, 1)
	assert.Equal(t, b.ID.Hex(), f.events.bookings[0].BookingID)
}
