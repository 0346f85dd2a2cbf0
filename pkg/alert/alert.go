// Package alert publishes non-low recommendations to interested parties.
package alert

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/orbitarch/orbitarch-service-go/log"
	"github.com/orbitarch/orbitarch-service-go/pkg/collision"
	"github.com/orbitarch/orbitarch-service-go/pkg/orbit"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "oas.alerts"

type (
	Alert struct {
		RequestID            string               `json:"requestId,omitempty"`
		Satellite            orbit.Elements       `json:"satellite"`
		ImpactArea           collision.ImpactArea `json:"impactArea"`
		CollisionProbability float64              `json:"collisionProbability"`
		RelativeVelocity     float64              `json:"relativeVelocity"`
		DebrisName           string               `json:"debrisName,omitempty"`
		Timestamp            time.Time            `json:"timestamp"`
	}
	Publisher interface {
		Publish(ctx context.Context, a *Alert) error
	}
	NatsPublisher struct {
		conn    *nats.Conn
		subject string
		l       *log.Logger
	}
	Option func(*NatsPublisher)
)

func WithSubject(subject string) Option {
	return func(p *NatsPublisher) {
		if subject != "" {
			p.subject = subject
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(p *NatsPublisher) {
		p.l = l
	}
}

func NewNatsPublisher(conn *nats.Conn, opts ...Option) *NatsPublisher {
	ret := &NatsPublisher{
		conn:    conn,
		subject: DefaultSubject,
		l:       log.Default().Named("alert"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (p *NatsPublisher) Subject() string {
	return p.subject
}

// Publish sends the alert as JSON. The nats client buffers the message, ctx
// is only checked before encoding.
func (p *NatsPublisher) Publish(ctx context.Context, a *Alert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return err
	}
	p.l.Debug("alert published",
		log.String("subject", p.subject),
		log.String("area", string(a.ImpactArea)))
	return nil
}

func (p *NatsPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.l.Warn("could not drain nats connection", log.ErrorField(err))
	}
}

// Connect opens a nats connection with reconnect settings suitable for a
// long running server.
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("oas"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}

// Noop discards all alerts.
type Noop struct{}

func (Noop) Publish(context.Context, *Alert) error { return nil }
