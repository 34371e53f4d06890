package handler

import (
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/homie-rental/internal/service"
)

// UserHandler serves the /users/:userId routes.  Successful list reads
// answer 202, matching what existing clients expect.
type UserHandler struct {
    Users   *service.UserService
    Timeout time.Duration
}

func NewUserHandler(users *service.UserService, timeout time.Duration) *UserHandler {
    if users == nil {
        panic("nil user service passed to NewUserHandler")
    }
    return &UserHandler{Users: users, Timeout: timeout}
}

// Trips lists the user's bookings as a customer.
func (h *UserHandler) Trips(c echo.Context) error {
    ctx, cancel := withTimeout(c, h.Timeout)
    defer cancel()

    trips, err := h.Users.Trips(ctx, c.Param("userId"))
    if err != nil {
        log.Printf("user: trips of %s failed: %v", c.Param("userId"), err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
    }
    return c.JSON(http.StatusAccepted, echo.Map{"tripListData": trips})
}

// ToggleWishlist adds or removes :listingId in the user's wishlist.
func (h *UserHandler) ToggleWishlist(c echo.Context) error {
    ctx, cancel := withTimeout(c, h.Timeout)
    defer cancel()

    res, err := h.Users.ToggleWishlist(ctx, c.Param("userId"), c.Param("listingId"))
    if err != nil {
        log.Printf("user: wishlist toggle failed: %v", err)
        return c.JSON(http.StatusNotFound, echo.Map{"error": errText(err)})
    }
    return c.JSON(http.StatusOK, res)
}

// Properties lists the listings the user created.
func (h *UserHandler) Properties(c echo.Context) error {
    ctx, cancel := withTimeout(c, h.Timeout)
    defer cancel()

    ls, err := h.Users.Properties(ctx, c.Param("userId"))
    if err != nil {
        log.Printf("user: properties of %s failed: %v", c.Param("userId"), err)
        return c.JSON(http.StatusNotFound, echo.Map{"message": "Can not find properties!", "error": errText(err)})
    }
    return c.JSON(http.StatusAccepted, ls)
}

// Reservations lists the bookings the user received as a host.
func (h *UserHandler) Reservations(c echo.Context) error {
    ctx, cancel := withTimeout(c, h.Timeout)
    defer cancel()

    bs, err := h.Users.Reservations(ctx, c.Param("userId"))
    if err != nil {
        log.Printf("user: reservations of %s failed: %v", c.Param("userId"), err)
        return c.JSON(http.StatusNotFound, echo.Map{"message": "Can not find reservations!", "error": errText(err)})
    }
    return c.JSON(http.StatusAccepted, bs)
}
