package handler

import (
    "errors"             // errors.Is maps service errors to statuses
    "log"                // log records unexpected failures
    "mime/multipart"     // multipart file headers for the profile image
    "net/http"           // HTTP status codes and primitives
    "time"               // request timeout

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/homie-rental/internal/service" // account operations
    "github.com/iliyamo/homie-rental/internal/upload"  // upload errors
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Accounts *service.AccountService
    Timeout  time.Duration
}

func NewAuthHandler(accounts *service.AccountService, timeout time.Duration) *AuthHandler {
    if accounts == nil {
        panic("nil account service passed to NewAuthHandler")
    }
    return &AuthHandler{Accounts: accounts, Timeout: timeout}
}

type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

// Register handles the multipart registration form.  The profile image is
// read from the "profileImage" file field.
func (h *AuthHandler) Register(c echo.Context) error {
    var image *multipart.FileHeader
    if fh, err := c.FormFile("profileImage"); err == nil {
        image = fh
    }

    ctx, cancel := withTimeout(c, h.Timeout)
    defer cancel()

    u, err := h.Accounts.Register(ctx, service.RegisterInput{
        FirstName:    c.FormValue("firstName"),
        LastName:     c.FormValue("lastName"),
        Email:        c.FormValue("email"),
        Password:     c.FormValue("password"),
        ProfileImage: image,
    })
    switch {
    case err == nil:
        return c.JSON(http.StatusOK, echo.Map{"message": "User registered successfully!", "user": u})
    case errors.Is(err, service.ErrNoImage):
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "No file uploaded"})
    case errors.Is(err, service.ErrUserExists):
        return c.JSON(http.StatusConflict, echo.Map{"message": "User already exists!"})
    case errors.Is(err, upload.ErrUnsupportedType):
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Unsupported file type", "error": errText(err)})
    case errors.As(err, new(*service.ValidationError)):
        // missing fields fail like a rejected document save
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Registration failed!", "error": errText(err)})
    default:
        log.Printf("auth: register failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Registration failed!", "error": errText(err)})
    }
}

// Login verifies credentials from a JSON body and returns a session token.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": errText(err)})
    }

    ctx, cancel := withTimeout(c, h.Timeout)
    defer cancel()

    res, err := h.Accounts.Login(ctx, req.Email, req.Password)
    switch {
    case err == nil:
        return c.JSON(http.StatusOK, res)
    case errors.Is(err, service.ErrUserNotFound):
        return c.JSON(http.StatusConflict, echo.Map{"message": "User doesn't exist!"})
    case errors.Is(err, service.ErrInvalidCredentials):
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid Credentials!"})
    default:
        log.Printf("auth: login failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": errText(err)})
    }
}
