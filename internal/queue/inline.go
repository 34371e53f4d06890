package queue

import "context"

// InlinePublisher applies events synchronously through a Handler.  It is
// used when no broker is configured so relationship lists stay current
// in single-process deployments.
type InlinePublisher struct {
    h *Handler
}

func NewInlinePublisher(h *Handler) *InlinePublisher {
    return &InlinePublisher{h: h}
}

func (p *InlinePublisher) PublishListingCreated(ctx context.Context, ev ListingCreatedEvent) error {
    return p.h.HandleListingCreated(ctx, ev)
}

func (p *InlinePublisher) PublishBookingCreated(ctx context.Context, ev BookingCreatedEvent) error {
    return p.h.HandleBookingCreated(ctx, ev)
}
