package nats

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/propstack/listing-service/internal/listing/domain"
	"github.com/propstack/listing-service/internal/platform/logger"
)

const (
	SubjectListingCreated       = "listing.created"
	SubjectListingUpdated       = "listing.updated"
	SubjectListingDeleted       = "listing.deleted"
	SubjectListingStatusChanged = "listing.status_changed"
)

// ListingEvent is the payload published on every listing subject.
type ListingEvent struct {
	ListingID string    `json:"listingId"`
	OwnerID   string    `json:"ownerId"`
	Slug      string    `json:"slug,omitempty"`
	Status    string    `json:"status,omitempty"`
	OldStatus string    `json:"oldStatus,omitempty"`
	City      string    `json:"city,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher emits listing lifecycle events. Publishing is fire-and-forget
// from the caller's point of view; failures are returned for logging only.
type Publisher struct {
	conn *nats.Conn
	log  *logger.Logger
}

func NewPublisher(conn *nats.Conn, log *logger.Logger) *Publisher {
	return &Publisher{conn: conn, log: log}
}

func Connect(url string, log *logger.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", "error", err.Error())
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %q: %w", url, err)
	}
	return conn, nil
}

func (p *Publisher) publish(subject string, ev ListingEvent) error {
	ev.At = time.Now().UTC()
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	p.log.Debug("published event", "subject", subject, "listing_id", ev.ListingID)
	return nil
}

func (p *Publisher) ListingCreated(l *domain.Listing) error {
	return p.publish(SubjectListingCreated, ListingEvent{
		ListingID: l.ID,
		OwnerID:   l.OwnerID,
		Slug:      l.Slug,
		Status:    string(l.Status),
		City:      l.City,
	})
}

func (p *Publisher) ListingUpdated(l *domain.Listing) error {
	return p.publish(SubjectListingUpdated, ListingEvent{
		ListingID: l.ID,
		OwnerID:   l.OwnerID,
		Slug:      l.Slug,
		Status:    string(l.Status),
		City:      l.City,
	})
}

func (p *Publisher) ListingDeleted(id, ownerID string) error {
	return p.publish(SubjectListingDeleted, ListingEvent{
		ListingID: id,
		OwnerID:   ownerID,
	})
}

func (p *Publisher) ListingStatusChanged(l *domain.Listing, old domain.ListingStatus) error {
	return p.publish(SubjectListingStatusChanged, ListingEvent{
		ListingID: l.ID,
		OwnerID:   l.OwnerID,
		Status:    string(l.Status),
		OldStatus: string(old),
	})
}
