// Package events publishes website lifecycle events to NATS.
package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/oduppinsjr/rapid-web-ai/internal/model"
	"go.uber.org/zap"
)

// Subjects
const (
	SubjectWebsiteCreated        = "website.created"
	SubjectWebsitePublished      = "website.published"
	SubjectWebsiteDeleted        = "website.deleted"
	SubjectAIGenerationCompleted = "ai.generation.completed"
)

// Publisher emits domain events. Publishing is best effort; callers log failures and carry on.
type Publisher interface {
	PublishWebsiteCreated(website *model.Website) error
	PublishWebsitePublished(website *model.Website) error
	PublishWebsiteDeleted(websiteID, userID string) error
	PublishGenerationCompleted(userID, operation string) error
	Close()
}

// WebsiteEvent is the payload of website.* subjects
type WebsiteEvent struct {
	EventType  string    `json:"event_type"`
	WebsiteID  string    `json:"website_id"`
	UserID     string    `json:"user_id"`
	Subdomain  string    `json:"subdomain,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// GenerationEvent is the payload of ai.generation.completed
type GenerationEvent struct {
	EventType  string    `json:"event_type"`
	UserID     string    `json:"user_id"`
	Operation  string    `json:"operation"`
	OccurredAt time.Time `json:"occurred_at"`
}

// conn is the subset of *nats.Conn the publisher uses
type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
	Close()
}

// NatsPublisher publishes JSON events on a NATS connection
type NatsPublisher struct {
	conn conn
	log  *zap.Logger
	now  func() time.Time
}

// NewNatsPublisher connects to the NATS server at natsURL
func NewNatsPublisher(natsURL, name string, log *zap.Logger) (*NatsPublisher, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc, log: log, now: time.Now}, nil
}

func (p *NatsPublisher) PublishWebsiteCreated(website *model.Website) error {
	return p.publish(SubjectWebsiteCreated, p.websiteEvent(SubjectWebsiteCreated, website.ID, website.UserID, website.Subdomain))
}

func (p *NatsPublisher) PublishWebsitePublished(website *model.Website) error {
	return p.publish(SubjectWebsitePublished, p.websiteEvent(SubjectWebsitePublished, website.ID, website.UserID, website.Subdomain))
}

func (p *NatsPublisher) PublishWebsiteDeleted(websiteID, userID string) error {
	return p.publish(SubjectWebsiteDeleted, p.websiteEvent(SubjectWebsiteDeleted, websiteID, userID, ""))
}

func (p *NatsPublisher) PublishGenerationCompleted(userID, operation string) error {
	return p.publish(SubjectAIGenerationCompleted, GenerationEvent{
		EventType:  SubjectAIGenerationCompleted,
		UserID:     userID,
		Operation:  operation,
		OccurredAt: p.now().UTC(),
	})
}

// Close drains pending messages and closes the connection
func (p *NatsPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.log.Warn("NATS drain failed", zap.Error(err))
		p.conn.Close()
	}
}

func (p *NatsPublisher) websiteEvent(subject, websiteID, userID, subdomain string) WebsiteEvent {
	return WebsiteEvent{
		EventType:  subject,
		WebsiteID:  websiteID,
		UserID:     userID,
		Subdomain:  subdomain,
		OccurredAt: p.now().UTC(),
	}
}

func (p *NatsPublisher) publish(subject string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Error marshalling event JSON", zap.String("subject", subject), zap.Error(err))
		return err
	}

	if err := p.conn.Publish(subject, payload); err != nil {
		p.log.Error("Error publishing to NATS", zap.String("subject", subject), zap.Error(err))
		return err
	}

	p.log.Debug("Published event to NATS", zap.String("subject", subject))
	return nil
}

// NoopPublisher discards events. Used when no NATS URL is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishWebsiteCreated(*model.Website) error { return nil }
func (NoopPublisher) PublishWebsitePublished(*model.Website) error { return nil }
func (NoopPublisher) PublishWebsiteDeleted(string, string) error { return nil }
func (NoopPublisher) PublishGenerationCompleted(string, string) error { return nil }
func (NoopPublisher) Close() {}
