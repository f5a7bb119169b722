package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/yatra/internal/core/domain"
)

const (
	StreamTracking = "YATRA_TRACKING"
	StreamPayments = "YATRA_PAYMENTS"

	trackingPrefix = "yatra.tracking."
	paymentsPrefix = "yatra.payments."
)

// TrackingSubject is the subject carrying snapshots of one tracking session.
func TrackingSubject(sessionID string) string { return trackingPrefix + sessionID }

// PaymentSubject is the subject carrying status changes of one payment.
func PaymentSubject(paymentID string) string { return paymentsPrefix + paymentID }

// Streams returns the JetStream configuration the publisher ensures on start.
func Streams() []nats.StreamConfig {
	return []nats.StreamConfig{
		{
			Name:      StreamTracking,
			Subjects:  []string{trackingPrefix + ">"},
			Retention: nats.LimitsPolicy,
			MaxAge:    15 * time.Minute,
			Storage:   nats.MemoryStorage,
		},
		{
			Name:      StreamPayments,
			Subjects:  []string{paymentsPrefix + ">"},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	for _, cfg := range Streams() {
		if _, err := js.AddStream(&cfg); err != nil {
			// stream may already exist
			if _, err := js.UpdateStream(&cfg); err != nil {
				conn.Close()
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishTrackingSnapshot(ctx context.Context, s *domain.TrackingSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(TrackingSubject(s.ID), data, nats.Context(ctx))
	return err
}

func (p *Publisher) PublishPaymentEvent(ctx context.Context, pay *domain.Payment) error {
	data, err := json.Marshal(pay)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(PaymentSubject(pay.ID), data, nats.Context(ctx))
	return err
}

// Connected reports whether the underlying connection is up.
func (p *Publisher) Connected() bool {
	return p.conn.IsConnected()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("yatra"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
