package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/homie-rental/internal/model"
	"github.com/iliyamo/homie-rental/internal/repository"
	"github.com/iliyamo/homie-rental/internal/repository/memory"
)

func newUser(t *testing.T, users *memory.UserRepo, email string) *model.User {
	t.Helper()
	u := model.NewUser("Ann", "Lee", email, "hash", "")
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestHandleBookingCreatedUpdatesBothLists(t *testing.T) {
	ctx := context.Background()
	users := memory.NewStore().Users()
	guest := newUser(t, users, "guest@example.com")
	host := newUser(t, users, "host@example.com")
	h := NewHandler(users)

	b := &model.Booking{
		ID:         primitive.NewObjectID(),
		CustomerID: guest.ID,
		HostID:     host.ID,
		ListingID:  primitive.NewObjectID(),
		StartDate:  "2024-07-01",
		EndDate:    "2024-07-05",
		TotalPrice: 400,
		CreatedAt:  time.Now(),
	}
	body, err := json.Marshal(NewBookingCreatedEvent(b))
	require.NoError(t, err)

	// applying twice must not duplicate entries
	require.NoError(t, h.Handle(ctx, BookingCreatedSubject, body))
	require.NoError(t, h.Handle(ctx, BookingCreatedSubject, body))

	g, err := users.GetByID(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{b.ID}, g.TripList)
	assert.Empty(t, g.ReservationList)

	hs, err := users.GetByID(ctx, host.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{b.ID}, hs.ReservationList)
	assert.Empty(t, hs.TripList)
}

func TestHandleListingCreatedViaInlinePublisher(t *testing.T) {
	ctx := context.Background()
	users := memory.NewStore().Users()
	owner := newUser(t, users, "owner@example.com")
	pub := NewInlinePublisher(NewHandler(users))

	l := &model.Listing{ID: primitive.NewObjectID(), Creator: owner.ID, Title: "Loft"}
	require.NoError(t, pub.PublishListingCreated(ctx, NewListingCreatedEvent(l)))

	got, err := users.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{l.ID}, got.PropertyList)
}

func TestHandleRejectsBadMessages(t *testing.T) {
	ctx := context.Background()
	h := NewHandler(memory.NewStore().Users())

	err := h.Handle(ctx, "listing.deleted", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownSubject)

	assert.Error(t, h.Handle(ctx, ListingCreatedSubject, []byte(`not json`)))
	assert.Error(t, h.Handle(ctx, ListingCreatedSubject, []byte(`{"listingId":"zz"}`)))

	// well formed, but the referenced users do not exist
	ev := BookingCreatedEvent{
		BookingID:  primitive.NewObjectID().Hex(),
		CustomerID: primitive.NewObjectID().Hex(),
		HostID:     primitive.NewObjectID().Hex(),
	}
	err = h.HandleBookingCreated(ctx, ev)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEventWireKeys(t *testing.T) {
	b := &model.Booking{ID: primitive.NewObjectID(), TotalPrice: 10, CreatedAt: time.Now()}
	raw, err := json.Marshal(NewBookingCreatedEvent(b))
	require.NoError(t, err)
	var keys map[string]any
	require.NoError(t, json.Unmarshal(raw, &keys))
	for _, k := range []string{"bookingId", "customerId", "hostId", "listingId", "startDate", "endDate", "totalPrice", "createdAt"} {
		assert.Contains(t, keys, k)
	}

	l := &model.Listing{ID: primitive.NewObjectID(), Category: "Cabins", Title: "Loft"}
	raw, err = json.Marshal(NewListingCreatedEvent(l))
	require.NoError(t, err)
	keys = nil
	require.NoError(t, json.Unmarshal(raw, &keys))
	for _, k := range []string{"listingId", "creatorId", "category", "title", "createdAt"} {
		assert.Contains(t, keys, k)
	}
}

func TestHandleDecodesCamelCaseBody(t *testing.T) {
	ctx := context.Background()
	users := memory.NewStore().Users()
	owner := newUser(t, users, "owner@example.com")
	listing := primitive.NewObjectID()

	body := []byte(`{"listingId":"` + listing.Hex() + `","creatorId":"` + owner.ID.Hex() + `"}`)
	require.NoError(t, NewHandler(users).Handle(ctx, ListingCreatedSubject, body))

	got, err := users.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{listing}, got.PropertyList)
}
