package main // Entry point package

import (
	"context"   // shutdown deadline and consumer lifetime
	"errors"    // http.ErrServerClosed check
	"log"       // Logging library
	"net/http"  // http.ErrServerClosed
	"os"        // signal channel
	"os/signal" // SIGINT/SIGTERM handling
	"syscall"   // SIGTERM
	"time"      // shutdown timeout

	glog "github.com/labstack/gommon/log" // Echo's logger levels

	"github.com/iliyamo/homie-rental/internal/config"            // Internal config loader
	"github.com/iliyamo/homie-rental/internal/database"          // MongoDB connection
	"github.com/iliyamo/homie-rental/internal/handler"           // HTTP handlers
	"github.com/iliyamo/homie-rental/internal/middleware"        // rate limiter
	"github.com/iliyamo/homie-rental/internal/queue"             // domain events
	"github.com/iliyamo/homie-rental/internal/repository"        // MongoDB repositories
	"github.com/iliyamo/homie-rental/internal/repository/memory" // in-process repositories
	"github.com/iliyamo/homie-rental/internal/router"            // Internal router setup
	"github.com/iliyamo/homie-rental/internal/service"           // business logic
	"github.com/iliyamo/homie-rental/internal/upload"            // multipart file storage
)

// stores bundles the three repositories behind the service interfaces.
type stores struct {
	users    service.UserStore
	listings service.ListingStore
	bookings service.BookingStore
	ping     func(context.Context) error // nil for the memory store
	close    func()
}

func openStores(cfg config.Config) stores {
	if cfg.StoreDriver == config.StoreMemory {
		log.Printf("store: using in-memory repositories; data is lost on exit")
		st := memory.NewStore()
		return stores{users: st.Users(), listings: st.Listings(), bookings: st.Bookings(), close: func() {}}
	}

	client, db, err := database.Open(cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongo: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("mongo: ensure indexes: %v", err)
	}
	return stores{
		users:    repository.NewUserRepo(db),
		listings: repository.NewListingRepo(db),
		bookings: repository.NewBookingRepo(db),
		ping:     func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close: func() {
			if err := database.Close(client); err != nil {
				log.Printf("mongo: close: %v", err)
			}
		},
	}
}

// startEvents selects the broker.  The returned stop func releases the
// consumer and any broker connection, and returns only once no message
// is being applied.
func startEvents(ctx context.Context, cfg config.Config, h *queue.Handler) (service.EventPublisher, func()) {
	switch cfg.EventsBroker {
	case config.BrokerRabbitMQ:
		url := cfg.AMQPURL
		if url == "" {
			url = queue.DefaultAMQPURL
		}
		cctx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := queue.StartConsumer(cctx, url, h); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("events: rabbitmq consumer stopped: %v", err)
			}
		}()
		stop := func() {
			cancel()
			<-done
		}
		return queue.NewAMQPPublisher(url), stop
	case config.BrokerNATS:
		bus, err := queue.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("events: %v", err)
		}
		if err := bus.Subscribe(h); err != nil {
			log.Fatalf("events: %v", err)
		}
		return bus, bus.Close
	default:
		return queue.NewInlinePublisher(h), func() {}
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err) // Log and exit if server fails
	}
}

// run owns every resource so deferred closes execute in reverse order:
// the HTTP server stops first, then the consumer, then the store.
func run() error {
	cfg := config.Load() // Load environment config

	st := openStores(cfg)
	defer st.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, stopEvents := startEvents(ctx, cfg, queue.NewHandler(st.users))
	defer stopEvents()

	files := upload.NewDiskStore(cfg.PublicDir, cfg.UploadImagesOnly)
	accounts := service.NewAccountService(st.users, files, cfg.JWTSecret, cfg.BcryptCost)
	listings := service.NewListingService(st.listings, st.users, files, events)
	bookings := service.NewBookingService(st.bookings, events)
	users := service.NewUserService(st.users, st.listings, st.bookings)

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := router.New(router.Handlers{
		Auth:     handler.NewAuthHandler(accounts, cfg.RequestTimeout),
		Listings: handler.NewListingHandler(listings, cfg.RequestTimeout),
		Bookings: handler.NewBookingHandler(bookings, cfg.RequestTimeout),
		Users:    handler.NewUserHandler(users, cfg.RequestTimeout),
	}, router.Options{
		JWTSecret:   cfg.JWTSecret,
		FrontendURL: cfg.FrontendURL,
		PublicDir:   cfg.PublicDir,
		AuthLimiter: limiter,
		HealthCheck: st.ping,
	})
	if cfg.Env == "prod" {
		e.Logger.SetLevel(glog.WARN)
	} else {
		e.Logger.SetLevel(glog.INFO)
	}

	addr := ":" + cfg.Port // Address string with port
	log.Printf("listening on %s (env=%s store=%s events=%s)", addr, cfg.Env, cfg.StoreDriver, cfg.EventsBroker) // Print startup info

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- e.Start(addr) // Start HTTP server
	}()

	var err error
	select {
	case <-ctx.Done():
		log.Printf("shutting down")
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	}
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if serr := e.Shutdown(sctx); serr != nil {
		log.Printf("shutdown: %v", serr)
	}
	return err
}
