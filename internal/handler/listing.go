// Package handler exposes the HTTP handlers.  This file defines the
// listing endpoints: creation from a multipart form, category listing,
// keyword search and the listing detail page with host information.

package handler

import (
    "errors"
    "log"
    "mime/multipart"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/homie-rental/internal/repository"
    "github.com/iliyamo/homie-rental/internal/service"
    "github.com/iliyamo/homie-rental/internal/upload"
)

// ListingHandler serves the /properties routes.
type ListingHandler struct {
    Listings *service.ListingService
    Timeout  time.Duration
}

func NewListingHandler(listings *service.ListingService, timeout time.Duration) *ListingHandler {
    if listings == nil {
        panic("nil listing service passed to NewListingHandler")
    }
    return &ListingHandler{Listings: listings, Timeout: timeout}
}

// Create stores a listing from multipart fields; photos come from the
// repeated "listingPhotos" file field in upload order.
func (h *ListingHandler) Create(c echo.Context) error {
    form, err := c.MultipartForm()
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "No file uploaded."})
    }
    in := listingFormFrom(form)

    ctx, cancel := withTimeout(c, h.Timeout)
    defer cancel()

    l, err := h.Listings.Create(ctx, in)
    switch {
    case err == nil:
        return c.JSON(http.StatusOK, l)
    case errors.Is(err, service.ErrNoPhotos):
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "No file uploaded."})
    case errors.Is(err, upload.ErrUnsupportedType):
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Unsupported file type", "error": errText(err)})
    default:
        log.Printf("listing: create failed: %v", err)
        return c.JSON(http.StatusConflict, echo.Map{"message": "Fail to create Listing", "error": errText(err)})
    }
}

func listingFormFrom(form *multipart.Form) service.ListingForm {
    first := func(k string) string {
        if vs := form.Value[k]; len(vs) > 0 {
            return vs[0]
        }
        return ""
    }
    amenities := append([]string{}, form.Value["amenities"]...)
    amenities = append(amenities, form.Value["amenities[]"]...)

    return service.ListingForm{
        Creator:       first("creator"),
        Category:      first("category"),
        Type:          first("type"),
        StreetAddress: first("streetAddress"),
        AptSuite:      first("aptSuite"),
        City:          first("city"),
        Province:      first("province"),
        Country:       first("country"),
        GuestCount:    first("guestCount"),
        BedroomCount:  first("bedroomCount"),
        BedCount:      first("bedCount"),
        BathroomCount: first("bathroomCount"),
        Amenities:     amenities,
        Title:         first("title"),
        Description:   first("description"),
        Highlight:     first("highlight"),
        HighlightDesc: first("highlightDesc"),
        Price:         first("price"),
        Photos:        form.File["listingPhotos"],
    }
}

// List returns all listings, or those in ?category= when given.
func (h *ListingHandler) List(c echo.Context) error {
    ctx, cancel := withTimeout(c, h.Timeout)
    defer cancel()

    ls, err := h.Listings.ListByCategory(ctx, c.QueryParam("category"))
    if err != nil {
        log.Printf("listing: list failed: %v", err)
        return c.JSON(http.StatusNotFound, echo.Map{"message": "Fail to fetch listings", "error": errText(err)})
    }
    return c.JSON(http.StatusOK, ls)
}

// Search matches :term against listing category and title.
func (h *ListingHandler) Search(c echo.Context) error {
    ctx, cancel := withTimeout(c, h.Timeout)
    defer cancel()

    ls, err := h.Listings.Search(ctx, pathParam(c, "term"))
    if err != nil {
        log.Printf("listing: search failed: %v", err)
        return c.JSON(http.StatusNotFound, echo.Map{"message": "Fail to fetch listings", "error": errText(err)})
    }
    return c.JSON(http.StatusOK, ls)
}

// GetByID returns the listing with a summary of its host.
func (h *ListingHandler) GetByID(c echo.Context) error {
    ctx, cancel := withTimeout(c, h.Timeout)
    defer cancel()

    d, err := h.Listings.GetByID(ctx, c.Param("listingId"))
    switch {
    case err == nil:
        return c.JSON(http.StatusOK, d)
    case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrHostNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"message": "Fail to fetch listings"})
    default:
        log.Printf("listing: get %s failed: %v", c.Param("listingId"), err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
    }
}
