package service

import (
	"context"
	"errors"
	"mime/multipart"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/homie-rental/internal/model"
	"github.com/iliyamo/homie-rental/internal/queue"
	"github.com/iliyamo/homie-rental/internal/repository"
	"github.com/iliyamo/homie-rental/internal/repository/memory"
)

const testSecret = "homie_test_jwt_secret"

type fakeFiles struct {
	mu      sync.Mutex
	saved   []string
	removed []string
	err     error
	failOn  string // Save fails only for this file name when set
}

func (f *fakeFiles) Save(fh *multipart.FileHeader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil && (f.failOn == "" || f.failOn == fh.Filename) {
		return "", f.err
	}
	f.saved = append(f.saved, fh.Filename)
	return "public/uploads/" + fh.Filename, nil
}

func (f *fakeFiles) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, path)
	return nil
}

// emailBlindUsers hides existing users from GetByEmail, so Register
// reaches Create as a concurrent registration would.
type emailBlindUsers struct {
	UserStore
}

func (emailBlindUsers) GetByEmail(context.Context, string) (*model.User, error) {
	return nil, repository.ErrNotFound
}

// failingListings rejects every insert.
type failingListings struct {
	ListingStore
}

func (failingListings) Create(context.Context, *model.Listing) error { return errBoom }

type recordingPublisher struct {
	listings []queue.ListingCreatedEvent
	bookings []queue.BookingCreatedEvent
	err      error
}

func (p *recordingPublisher) PublishListingCreated(_ context.Context, ev queue.ListingCreatedEvent) error {
	p.listings = append(p.listings, ev)
	return p.err
}

func (p *recordingPublisher) PublishBookingCreated(_ context.Context, ev queue.BookingCreatedEvent) error {
	p.bookings = append(p.bookings, ev)
	return p.err
}

type fixture struct {
	store    *memory.Store
	files    *fakeFiles
	events   *recordingPublisher
	accounts *AccountService
	listings *ListingService
	bookings *BookingService
	users    *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.NewStore()
	f := &fixture{store: st, files: &fakeFiles{}, events: &recordingPublisher{}}
	f.accounts = NewAccountService(st.Users(), f.files, testSecret, 4)
	f.listings = NewListingService(st.Listings(), st.Users(), f.files, f.events)
	f.bookings = NewBookingService(st.Bookings(), f.events)
	f.users = NewUserService(st.Users(), st.Listings(), st.Bookings())
	return f
}

func (f *fixture) register(t *testing.T, email string) *model.User {
	t.Helper()
	u, err := f.accounts.Register(context.Background(), RegisterInput{
		FirstName:    "Duc",
		LastName:     "Cuong",
		Email:        email,
		Password:     "pa55word",
		ProfileImage: &multipart.FileHeader{Filename: "avatar.jpg"},
	})
	require.NoError(t, err)
	return u
}

func listingForm(creator, category, title string) ListingForm {
	return ListingForm{
		Creator:       creator,
		Category:      category,
		Type:          "An entire place",
		StreetAddress: "1 Main St",
		AptSuite:      "2B",
		City:          "Hanoi",
		Province:      "HN",
		Country:       "Vietnam",
		GuestCount:    "4",
		BedroomCount:  "2",
		BedCount:      "2",
		BathroomCount: "1",
		Amenities:     []string{"Wifi", "Kitchen"},
		Title:         title,
		Description:   "Sunny and quiet",
		Highlight:     "Great location",
		HighlightDesc: "Close to everything",
		Price:         "120",
		Photos:        []*multipart.FileHeader{{Filename: "a.jpg"}, {Filename: "b.jpg"}},
	}
}

func (f *fixture) createListing(t *testing.T, creator *model.User, category, title string) *model.Listing {
	t.Helper()
	l, err := f.listings.Create(context.Background(), listingForm(creator.ID.Hex(), category, title))
	require.NoError(t, err)
	return l
}

var errBoom = errors.New("boom")
