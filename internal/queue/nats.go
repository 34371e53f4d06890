package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "log"
    "time"

    "github.com/nats-io/nats.go"
)

// queueGroup load-balances subscriptions across server replicas so each
// event is applied once.
const queueGroup = "homie-rental"

// NATSBus publishes and subscribes to domain events over one shared NATS
// connection.
type NATSBus struct {
    nc   *nats.Conn
    subs []*nats.Subscription
}

// ConnectNATS dials url with reconnect handling enabled.
func ConnectNATS(url string) (*NATSBus, error) {
    if url == "" {
        url = nats.DefaultURL
    }
    nc, err := nats.Connect(url,
        nats.Name("homie-rental"),
        nats.Timeout(5*time.Second),
        nats.ReconnectWait(time.Second),
        nats.MaxReconnects(10),
        nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
            log.Printf("nats: disconnected: %v", err)
        }),
        nats.ReconnectHandler(func(_ *nats.Conn) {
            log.Println("nats: reconnected")
        }),
        nats.DrainTimeout(10*time.Second),
    )
    if err != nil {
        return nil, fmt.Errorf("nats: connect: %w", err)
    }
    return &NATSBus{nc: nc}, nil
}

func (b *NATSBus) PublishListingCreated(_ context.Context, ev ListingCreatedEvent) error {
    return b.publish(ListingCreatedSubject, ev)
}

func (b *NATSBus) PublishBookingCreated(_ context.Context, ev BookingCreatedEvent) error {
    return b.publish(BookingCreatedSubject, ev)
}

func (b *NATSBus) publish(subject string, event any) error {
    if b.nc == nil || !b.nc.IsConnected() {
        return nats.ErrConnectionClosed
    }
    body, err := json.Marshal(event)
    if err != nil {
        return fmt.Errorf("nats: marshal event: %w", err)
    }
    if err := b.nc.Publish(subject, body); err != nil {
        return fmt.Errorf("nats: publish %s: %w", subject, err)
    }
    return nil
}

// Subscribe applies every event on both subjects with h.  Failures are
// logged; core NATS has no redelivery to request.
func (b *NATSBus) Subscribe(h *Handler) error {
    for _, subject := range []string{ListingCreatedSubject, BookingCreatedSubject} {
        sub, err := b.nc.QueueSubscribe(subject, queueGroup, func(m *nats.Msg) {
            ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
            defer cancel()
            if err := h.Handle(ctx, m.Subject, m.Data); err != nil {
                log.Printf("event-consumer: handle %s failed: %v", m.Subject, err)
            }
        })
        if err != nil {
            return fmt.Errorf("nats: subscribe %s: %w", subject, err)
        }
        b.subs = append(b.subs, sub)
    }
    return nil
}

// Close drains subscriptions and pending publishes, then closes the
// connection.
func (b *NATSBus) Close() {
    if b.nc == nil {
        return
    }
    if err := b.nc.Drain(); err != nil {
        log.Printf("nats: drain: %v", err)
        b.nc.Close()
    }
}
