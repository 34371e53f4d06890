package config // package config loads application configuration from environment variables

import (
    "errors"   // errors distinguishes a missing env file from a broken one
    "io/fs"    // fs.ErrNotExist for optional env files
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strings"  // strings normalizes enum-like values
    "time"     // time parses request timeouts

    "github.com/joho/godotenv" // godotenv loads .env files into the process environment
)

// Store drivers.
const (
    StoreMongo  = "mongo"
    StoreMemory = "memory"
)

// Event brokers.
const (
    BrokerNone     = "none"
    BrokerRabbitMQ = "rabbitmq"
    BrokerNATS     = "nats"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
    Env              string        // application environment (e.g. "dev", "prod")
    Port             string        // HTTP port to listen on
    StoreDriver      string        // "mongo" or "memory"
    MongoURL         string        // MongoDB connection string (required for mongo)
    MongoDB          string        // database name
    JWTSecret        string        // secret used to sign JWTs
    BcryptCost       int           // bcrypt cost for password hashing
    FrontendURL      string        // allowed CORS origin; "*" when unset
    PublicDir        string        // directory served at / and holding uploads/
    UploadImagesOnly bool          // reject uploads that do not sniff as images
    RequestTimeout   time.Duration // per-request store deadline
    EventsBroker     string        // "none", "rabbitmq" or "nats"
    AMQPURL          string        // RabbitMQ URL
    NATSURL          string        // NATS URL
}

// Load reads configuration values from the environment and returns a
// Config.  Values from .env.local, or .env when that is absent, are
// loaded first without overriding variables already set.  Required
// variables are enforced by must() and missing values cause the program
// to exit with a fatal log message.
func Load() Config {
    loadEnvFiles(".env.local", ".env")

    cfg := Config{
        Env:              envStr("APP_ENV", "dev"),
        Port:             envStr("PORT", "3002"),
        StoreDriver:      strings.ToLower(envStr("STORE_DRIVER", StoreMongo)),
        MongoDB:          envStr("MONGO_DB", "duckcuonghomie"),
        JWTSecret:        must("JWT_SECRET"),
        BcryptCost:       envInt("BCRYPT_COST", 10),
        FrontendURL:      os.Getenv("FRONTEND_URL"),
        PublicDir:        envStr("PUBLIC_DIR", "public"),
        UploadImagesOnly: envBool("UPLOAD_IMAGES_ONLY", true),
        RequestTimeout:   envDur("REQUEST_TIMEOUT", 5*time.Second),
        EventsBroker:     strings.ToLower(envStr("EVENTS_BROKER", BrokerNone)),
        AMQPURL:          envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
        NATSURL:          os.Getenv("NATS_URL"),
    }

    switch cfg.StoreDriver {
    case StoreMongo:
        cfg.MongoURL = must("MONGO_URL")
    case StoreMemory:
    default:
        log.Fatalf("invalid STORE_DRIVER: %q", cfg.StoreDriver)
    }
    switch cfg.EventsBroker {
    case BrokerNone, BrokerRabbitMQ, BrokerNATS:
    default:
        log.Fatalf("invalid EVENTS_BROKER: %q", cfg.EventsBroker)
    }
    if cfg.RequestTimeout <= 0 {
        cfg.RequestTimeout = 5 * time.Second
    }
    return cfg
}

// loadEnvFiles loads the first of files that exists.  A file that exists
// but cannot be parsed is fatal.
func loadEnvFiles(files ...string) {
    for _, f := range files {
        err := godotenv.Load(f)
        if err == nil {
            return
        }
        if !errors.Is(err, fs.ErrNotExist) {
            log.Fatalf("load %s: %v", f, err)
        }
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}
