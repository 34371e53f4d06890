package handler

import (
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/homie-rental/internal/service"
)

// BookingHandler serves POST /bookings/create.
type BookingHandler struct {
    Bookings *service.BookingService
    Timeout  time.Duration
}

func NewBookingHandler(bookings *service.BookingService, timeout time.Duration) *BookingHandler {
    if bookings == nil {
        panic("nil booking service passed to NewBookingHandler")
    }
    return &BookingHandler{Bookings: bookings, Timeout: timeout}
}

func (h *BookingHandler) Create(c echo.Context) error {
    var in service.BookingInput
    if err := c.Bind(&in); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Fail to create a new Booking!", "error": errText(err)})
    }

    ctx, cancel := withTimeout(c, h.Timeout)
    defer cancel()

    b, err := h.Bookings.Create(ctx, in)
    if err != nil {
        log.Printf("booking: create failed: %v", err)
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Fail to create a new Booking!", "error": errText(err)})
    }
    return c.JSON(http.StatusOK, b)
}
