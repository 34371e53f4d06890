package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/homie-rental/internal/model"
	"github.com/iliyamo/homie-rental/internal/queue"
	"github.com/iliyamo/homie-rental/internal/repository"
)

// SearchAll is the search term that returns every listing.
const SearchAll = "all"

type ListingService struct {
	listings ListingStore
	users    UserStore
	files    FileStore
	events   EventPublisher
}

func NewListingService(listings ListingStore, users UserStore, files FileStore, events EventPublisher) *ListingService {
	if listings == nil || users == nil || files == nil || events == nil {
		panic("service.NewListingService: nil dependency")
	}
	return &ListingService{listings: listings, users: users, files: files, events: events}
}

// ListingForm carries the raw multipart fields of a new listing.  Numbers
// arrive as text and are parsed by Create.
type ListingForm struct {
	Creator       string
	Category      string
	Type          string
	StreetAddress string
	AptSuite      string
	City          string
	Province      string
	Country       string
	GuestCount    string
	BedroomCount  string
	BedCount      string
	BathroomCount string
	Amenities     []string
	Title         string
	Description   string
	Highlight     string
	HighlightDesc string
	Price         string
	Photos        []*multipart.FileHeader
}

// Create validates f, stores its photos in upload order and inserts the
// listing.  Errors: ErrNoPhotos, *ValidationError.
func (s *ListingService) Create(ctx context.Context, f ListingForm) (*model.Listing, error) {
	if len(f.Photos) == 0 {
		return nil, ErrNoPhotos
	}
	l, err := f.toListing()
	if err != nil {
		return nil, err
	}

	for _, fh := range f.Photos {
		path, err := s.files.Save(fh)
		if err != nil {
			discard(s.files, l.ListingPhotoPaths...)
			return nil, err
		}
		l.ListingPhotoPaths = append(l.ListingPhotoPaths, path)
	}

	if err := s.listings.Create(ctx, l); err != nil {
		discard(s.files, l.ListingPhotoPaths...)
		return nil, fmt.Errorf("create listing: %w", err)
	}
	if err := s.events.PublishListingCreated(ctx, queue.NewListingCreatedEvent(l)); err != nil {
		log.Printf("listing: publish %s failed: %v", queue.ListingCreatedSubject, err)
	}
	return l, nil
}

func (f ListingForm) toListing() (*model.Listing, error) {
	creator, err := repository.ParseID(f.Creator)
	if err != nil {
		return nil, invalid("creator", "must be a valid id")
	}

	required := []struct{ name, value string }{
		{"category", f.Category},
		{"type", f.Type},
		{"streetAddress", f.StreetAddress},
		{"aptSuite", f.AptSuite},
		{"city", f.City},
		{"province", f.Province},
		{"country", f.Country},
		{"title", f.Title},
		{"description", f.Description},
		{"highlight", f.Highlight},
		{"highlightDesc", f.HighlightDesc},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, invalid(r.name, "is required")
		}
	}

	var counts [4]int
	for i, c := range []struct{ name, raw string }{
		{"guestCount", f.GuestCount},
		{"bedroomCount", f.BedroomCount},
		{"bedCount", f.BedCount},
		{"bathroomCount", f.BathroomCount},
	} {
		n, err := strconv.Atoi(strings.TrimSpace(c.raw))
		if err != nil {
			return nil, invalid(c.name, "must be an integer")
		}
		if n < 0 {
			return nil, invalid(c.name, "must not be negative")
		}
		counts[i] = n
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	if err != nil {
		return nil, invalid("price", "must be a number")
	}
	if price <= 0 {
		return nil, invalid("price", "must be greater than zero")
	}

	amenities := []string{}
	for _, a := range f.Amenities {
		if a = strings.TrimSpace(a); a != "" {
			amenities = append(amenities, a)
		}
	}

	now := time.Now().UTC()
	return &model.Listing{
		Creator:           creator,
		Category:          f.Category,
		Type:              f.Type,
		StreetAddress:     f.StreetAddress,
		AptSuite:          f.AptSuite,
		City:              f.City,
		Province:          f.Province,
		Country:           f.Country,
		GuestCount:        counts[0],
		BedroomCount:      counts[1],
		BedCount:          counts[2],
		BathroomCount:     counts[3],
		Amenities:         amenities,
		ListingPhotoPaths: []string{},
		Title:             f.Title,
		Description:       f.Description,
		Highlight:         f.Highlight,
		HighlightDesc:     f.HighlightDesc,
		Price:             price,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// ListByCategory returns every listing, or only those in category when it
// is non-empty, with creators populated.
func (s *ListingService) ListByCategory(ctx context.Context, category string) ([]model.PopulatedListing, error) {
	return s.find(ctx, model.ListingFilter{Category: category})
}

// Search returns listings whose category or title contains term,
// ignoring case.  The term "all" (any case) and the empty term match
// every listing.
func (s *ListingService) Search(ctx context.Context, term string) ([]model.PopulatedListing, error) {
	if strings.EqualFold(term, SearchAll) {
		term = ""
	}
	return s.find(ctx, model.ListingFilter{Term: term})
}

func (s *ListingService) find(ctx context.Context, f model.ListingFilter) ([]model.PopulatedListing, error) {
	ls, err := s.listings.Find(ctx, f)
	if err != nil {
		return nil, err
	}
	return populateListings(ctx, s.users, ls)
}

// ListingDetail is the listing page payload.  ListingData keeps the
// creator as an id.
type ListingDetail struct {
	ListingData  *model.Listing `json:"listingData"`
	HostInfoData model.HostInfo `json:"hostInfoData"`
}

// GetByID loads a listing and its host.  Errors: repository.ErrInvalidID,
// repository.ErrNotFound, ErrHostNotFound.
func (s *ListingService) GetByID(ctx context.Context, rawID string) (*ListingDetail, error) {
	id, err := repository.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	host, err := s.users.GetByID(ctx, l.Creator)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHostNotFound
		}
		return nil, err
	}
	return &ListingDetail{
		ListingData:  l,
		HostInfoData: model.HostInfoFrom(host),
	}, nil
}
