// Package telemetry wraps the statsd client the scheduler reports step
// timings to, so the rest of the module never imports datadog directly.
package telemetry

import (
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Namespace prefixes every metric name.
const Namespace = "lockstep."

// Client is the subset of the statsd client the module uses.
type Client interface {
	Timing(name string, value time.Duration, tags []string, rate float64) error
	Close() error
}

// Nop returns a client that discards everything.
func Nop() Client {
	return &ddstatsd.NoOpClient{}
}

// New connects to the statsd agent at address. An empty address yields the
// no-op client.
func New(address string, tags []string) (Client, error) {
	if address == "" {
		return Nop(), nil
	}
	opts := []ddstatsd.Option{ddstatsd.WithNamespace(Namespace)}
	if len(tags) > 0 {
		opts = append(opts, ddstatsd.WithTags(tags))
	}
	c, err := ddstatsd.New(address, opts...)
	if err != nil {
		return nil, eris.Wrapf(err, "statsd client for %s", address)
	}
	return c, nil
}

// Logged wraps c so that failed emissions are logged at warn level instead
// of being returned.
func Logged(c Client, logger zerolog.Logger) Client {
	return loggedClient{Client: c, logger: logger}
}

type loggedClient struct {
	Client
	logger zerolog.Logger
}

func (l loggedClient) Timing(name string, value time.Duration, tags []string, rate float64) error {
	if err := l.Client.Timing(name, value, tags, rate); err != nil {
		l.logger.Warn().Err(err).Str("metric", name).Msg("failed to emit timing")
	}
	return nil
}
