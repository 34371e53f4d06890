// Package memory provides an in-process implementation of the user,
// listing and booking repositories.  It is selected with
// STORE_DRIVER=memory for local runs without MongoDB and backs the
// service and handler tests.  Data lives only as long as the process.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/homie-rental/internal/model"
	"github.com/iliyamo/homie-rental/internal/repository"
)

// Store holds all three collections behind one lock.  Records are
// copied on the way in and on the way out so callers never share
// slices with the store.
type Store struct {
	mu       sync.RWMutex
	users    []*model.User
	listings []*model.Listing
	bookings []*model.Booking
}

func NewStore() *Store { return &Store{} }

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Listings returns the listing repository view of the store.
func (s *Store) Listings() *ListingRepo { return &ListingRepo{s: s} }

// Bookings returns the booking repository view of the store.
func (s *Store) Bookings() *BookingRepo { return &BookingRepo{s: s} }

// ---- users ----

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.Email = repository.NormalizeEmail(u.Email)
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.s.users = append(r.s.users, copyUser(u))
	return nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	email = repository.NormalizeEmail(email)
	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u := r.s.user(id); u != nil {
		return copyUser(u), nil
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepo) GetManyByID(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[primitive.ObjectID]*model.User, len(ids))
	for _, id := range ids {
		if u := r.s.user(id); u != nil {
			out[id] = copyUser(u)
		}
	}
	return out, nil
}

func (r *UserRepo) AddToList(_ context.Context, userID primitive.ObjectID, list model.UserList, ref primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u := r.s.user(userID)
	if u == nil {
		return repository.ErrNotFound
	}
	refs := listOf(u, list)
	for _, id := range *refs {
		if id == ref {
			return nil
		}
	}
	*refs = append(*refs, ref)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *UserRepo) RemoveFromList(_ context.Context, userID primitive.ObjectID, list model.UserList, ref primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u := r.s.user(userID)
	if u == nil {
		return false, nil
	}
	refs := listOf(u, list)
	kept := (*refs)[:0:0]
	for _, id := range *refs {
		if id != ref {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(*refs) {
		return false, nil
	}
	*refs = kept
	u.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (s *Store) user(id primitive.ObjectID) *model.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func listOf(u *model.User, list model.UserList) *[]primitive.ObjectID {
	switch list {
	case model.TripList:
		return &u.TripList
	case model.PropertyList:
		return &u.PropertyList
	case model.ReservationList:
		return &u.ReservationList
	default:
		return &u.WishList
	}
}

func copyUser(u *model.User) *model.User {
	c := *u
	c.TripList = append([]primitive.ObjectID{}, u.TripList...)
	c.WishList = append([]primitive.ObjectID{}, u.WishList...)
	c.PropertyList = append([]primitive.ObjectID{}, u.PropertyList...)
	c.ReservationList = append([]primitive.ObjectID{}, u.ReservationList...)
	return &c
}

// ---- listings ----

type ListingRepo struct{ s *Store }

func (r *ListingRepo) Create(_ context.Context, l *model.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	r.s.listings = append(r.s.listings, copyListing(l))
	return nil
}

func (r *ListingRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, l := range r.s.listings {
		if l.ID == id {
			return copyListing(l), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *ListingRepo) GetManyByID(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make(map[primitive.ObjectID]*model.Listing, len(ids))
	for _, l := range r.s.listings {
		if want[l.ID] {
			out[l.ID] = copyListing(l)
		}
	}
	return out, nil
}

// Find applies the same matching rules as the MongoDB repository: exact
// category, exact creator, and a case-insensitive literal substring
// match of Term against category or title.
func (r *ListingRepo) Find(_ context.Context, f model.ListingFilter) ([]model.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	term := strings.ToLower(f.Term)
	out := []model.Listing{}
	for _, l := range r.s.listings {
		if f.Category != "" && l.Category != f.Category {
			continue
		}
		if !f.CreatorID.IsZero() && l.Creator != f.CreatorID {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(l.Category), term) &&
			!strings.Contains(strings.ToLower(l.Title), term) {
			continue
		}
		out = append(out, *copyListing(l))
	}
	return out, nil
}

func copyListing(l *model.Listing) *model.Listing {
	c := *l
	c.Amenities = append([]string{}, l.Amenities...)
	c.ListingPhotoPaths = append([]string{}, l.ListingPhotoPaths...)
	return &c
}

// ---- bookings ----

type BookingRepo struct{ s *Store }

func (r *BookingRepo) Create(_ context.Context, b *model.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	c := *b
	r.s.bookings = append(r.s.bookings, &c)
	return nil
}

func (r *BookingRepo) Find(_ context.Context, f model.BookingFilter) ([]model.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []model.Booking{}
	for _, b := range r.s.bookings {
		if !f.CustomerID.IsZero() && b.CustomerID != f.CustomerID {
			continue
		}
		if !f.HostID.IsZero() && b.HostID != f.HostID {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}
