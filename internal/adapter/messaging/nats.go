// internal/adapter/messaging/nats.go

package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"spykes/internal/config"
	"spykes/internal/domain/messaging"
)

// Connect opens a NATS connection. It returns nil without error when no URL is configured.
func Connect(cfg config.NATSConfig, log *zap.SugaredLogger) (*nats.Conn, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	options := []nats.Option{
		nats.Name("spykes"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warnw("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infow("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}

// NATSPublisher publishes JSON events on <topic>.<type>
type NATSPublisher struct {
	conn  *nats.Conn
	topic string
}

// NewNATSPublisher creates a publisher on the given topic
func NewNATSPublisher(conn *nats.Conn, topic string) *NATSPublisher {
	return &NATSPublisher{conn: conn, topic: topic}
}

// PublishIngestion publishes the event and flushes so short-lived CLI runs deliver it
func (p *NATSPublisher) PublishIngestion(ctx context.Context, event messaging.IngestionEvent) error {
	if event.Type == "" {
		event.Type = messaging.EventIngested
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error encoding event: %w", err)
	}

	subject := messaging.Subject(p.topic, event.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("error publishing to %s: %w", subject, err)
	}

	timeout := 2 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return context.DeadlineExceeded
		}
	}
	if err := p.conn.FlushTimeout(timeout); err != nil {
		return fmt.Errorf("error flushing %s: %w", subject, err)
	}
	return nil
}

// NopPublisher drops events. Used when NATS is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishIngestion(context.Context, messaging.IngestionEvent) error { return nil }
