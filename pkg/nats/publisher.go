package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/nats-io/nats.go"

	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/events"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/tracing"
)

var ErrNotConnected = errors.New("nats not connected")

type Config struct {
	URL           string
	SubjectPrefix string
	ClientName    string
}

// Publisher sends record lifecycle events to "<prefix>.<event type>" subjects.
type Publisher struct {
	cfg    Config
	logger ectologger.Logger

	mu sync.RWMutex
	nc *nats.Conn
}

func NewPublisher(cfg Config, logger ectologger.Logger) *Publisher {
	if cfg.ClientName == "" {
		cfg.ClientName = "neogarden-api"
	}
	return &Publisher{cfg: cfg, logger: logger}
}

func (p *Publisher) GetName() string {
	return "events"
}

func (p *Publisher) DependsOn() []string {
	return []string{"tracing"}
}

func (p *Publisher) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.nc != nil && !p.nc.IsClosed() {
		return nil
	}

	opts := []nats.Option{
		nats.Name(p.cfg.ClientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			p.logger.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			p.logger.Infof("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	}
	if deadline, ok := ctx.Deadline(); ok {
		opts = append(opts, nats.Timeout(time.Until(deadline)))
	}

	nc, err := nats.Connect(p.cfg.URL, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", p.cfg.URL, err)
	}
	p.nc = nc
	p.logger.Infof("Connected to NATS at %s", nc.ConnectedUrl())
	return nil
}

func (p *Publisher) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.nc == nil {
		return nil
	}
	err := p.nc.Drain()
	p.nc.Close()
	p.nc = nil
	return err
}

// Subject returns the subject an event type is published on.
func (p *Publisher) Subject(eventType string) string {
	prefix := strings.TrimSuffix(p.cfg.SubjectPrefix, ".")
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}

func (p *Publisher) PublishEvent(ctx context.Context, evt events.Event) error {
	ctx, span := tracing.StartSpan(ctx, "NATS.PublishEvent")
	defer span.End()

	p.mu.RLock()
	nc := p.nc
	p.mu.RUnlock()
	if nc == nil || nc.IsClosed() {
		return ErrNotConnected
	}

	msg, err := p.buildMsg(ctx, evt)
	if err != nil {
		return err
	}
	if err := nc.PublishMsg(msg); err != nil {
		p.logger.WithContext(ctx).WithError(err).Errorf("Failed to publish to NATS subject %s", msg.Subject)
		return err
	}
	return nil
}

func (p *Publisher) buildMsg(ctx context.Context, evt events.Event) (*nats.Msg, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := nats.NewMsg(p.Subject(evt.Type))
	msg.Data = data
	msg.Header.Set("Nats-Msg-Id", evt.ID)
	msg.Header.Set("resource", evt.Resource)
	for key, value := range tracing.PropagationHeaders(ctx) {
		msg.Header.Set(key, value)
	}
	return msg, nil
}
