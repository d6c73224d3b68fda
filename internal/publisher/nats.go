package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/northseawatch/scrubber-backend-go/internal/models"
)

// DefaultSubjectPrefix is used when no prefix is configured
const DefaultSubjectPrefix = "discharge"

// NATSPublisher announces recomputed discharge rates on NATS
type NATSPublisher struct {
	nc      *nats.Conn
	prefix  string
	metrics PublisherMetrics
}

// PublisherMetrics is implemented by the observability collector
type PublisherMetrics interface {
	NATSPublishedInc()
	NATSPublishErrInc()
	PublishObserve(d time.Duration)
	NATSSetConnected(connected bool)
}

// NewNATSPublisher connects to url and publishes under prefix
func NewNATSPublisher(url, prefix string, m PublisherMetrics) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("scrubber-backend"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("[NATS] Disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			log.Printf("[NATS] Reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("[NATS] Connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	if m != nil {
		m.NATSSetConnected(true)
	}
	log.Printf("[NATS] Connected to %s", nc.ConnectedUrl())
	return &NATSPublisher{nc: nc, prefix: prefixOrDefault(prefix), metrics: m}, nil
}

// Close drains pending messages and closes the connection
func (p *NATSPublisher) Close() {
	if p.nc != nil {
		if err := p.nc.Drain(); err != nil {
			log.Printf("[NATS] Drain failed: %v", err)
		}
		p.nc.Close()
	}
}

// PublishRates publishes one vessel's rates on <prefix>.rates.<imo>
func (p *NATSPublisher) PublishRates(ctx context.Context, update models.RateUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject := RatesSubject(p.prefix, update.IMONumber)
	b, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to encode rate update: %w", err)
	}

	start := time.Now()
	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		p.metrics.PublishObserve(time.Since(start))
		if err != nil {
			p.metrics.NATSPublishErrInc()
		} else {
			p.metrics.NATSPublishedInc()
		}
	}
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	return nil
}

// RatesSubject builds the subject for a vessel's rate update
func RatesSubject(prefix, imo string) string {
	return fmt.Sprintf("%s.rates.%s", prefixOrDefault(prefix), subjectToken(imo))
}

func prefixOrDefault(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		return DefaultSubjectPrefix
	}
	return prefix
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
