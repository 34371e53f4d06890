package router

// This file registers the marketplace resources: listings (/properties),
// bookings and the per-user relationship routes.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/homie-rental/internal/handler"
)

// RegisterListings mounts the listing routes.  /search/:term and /create
// are static segments, so Echo matches them before /:listingId.
func RegisterListings(e *echo.Echo, h *handler.ListingHandler) {
	g := e.Group("/properties")
	g.POST("/create", h.Create)
	g.GET("", h.List)
	g.GET("/search/:term", h.Search)
	g.GET("/:listingId", h.GetByID)
}

func RegisterBookings(e *echo.Echo, h *handler.BookingHandler) {
	e.POST("/bookings/create", h.Create)
}

// RegisterUsers mounts the per-user routes.  The wishlist toggle is the
// only write.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler) {
	g := e.Group("/users/:userId")
	g.GET("/trips", h.Trips)
	g.PATCH("/:listingId", h.ToggleWishlist)
	g.GET("/properties", h.Properties)
	g.GET("/reservations", h.Reservations)
}
