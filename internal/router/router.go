package router // package router defines how HTTP routes are registered for the API

import (
	"context"  // health probe signature
	"net/http" // HTTP methods for CORS

	"github.com/labstack/echo/v4"                   // import the Echo web framework to handle routing
	echomw "github.com/labstack/echo/v4/middleware" // Echo's bundled middleware (recover, CORS)

	"github.com/iliyamo/homie-rental/internal/handler"    // import the handlers that implement the endpoints
	"github.com/iliyamo/homie-rental/internal/middleware" // request log, identity and rate limiting
)

// Handlers groups the endpoint handlers mounted by New.
type Handlers struct {
	Auth     *handler.AuthHandler
	Listings *handler.ListingHandler
	Bookings *handler.BookingHandler
	Users    *handler.UserHandler
}

// Options carries the cross-cutting settings applied by New.
type Options struct {
	JWTSecret   string                      // verifies optional bearer tokens
	FrontendURL string                      // allowed CORS origin; any origin when empty
	PublicDir   string                      // served at / when non-empty
	AuthLimiter echo.MiddlewareFunc         // applied to /auth; nil disables limiting
	HealthCheck func(context.Context) error // store probe behind /healthz; nil always answers ok
}

// New builds the Echo instance with global middleware and every route.
func New(h Handlers, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	origins := []string{"*"}
	if opts.FrontendURL != "" {
		origins = []string{opts.FrontendURL}
	}
	// RequestLog runs outermost so recovered panics still get an access line.
	e.Use(
		middleware.RequestLog(),
		echomw.Recover(),
		echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		}),
		middleware.Identity(opts.JWTSecret),
	)

	RegisterRoutes(e, opts.HealthCheck)
	RegisterAuth(e, h.Auth, opts.AuthLimiter)
	RegisterListings(e, h.Listings)
	RegisterBookings(e, h.Bookings)
	RegisterUsers(e, h.Users)

	if opts.PublicDir != "" {
		// uploaded files are stored as <PublicDir>/uploads/<name>
		e.Static("/", opts.PublicDir)
	}
	return e
}

// RegisterRoutes registers routes that do not belong to any resource.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, check func(context.Context) error) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service and its store are reachable.
	e.GET("/healthz", handler.Health(check))
}

// RegisterAuth registers the account routes under /auth.  The limiter,
// when given, guards both endpoints against credential stuffing.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	// multipart form with a profileImage file
	g.POST("/register", a.Register)
	// JSON {email, password}
	g.POST("/login", a.Login)
}
