// Package replication defines the tick-stamped state that Sync systems hand
// to the network, and the sinks that carry it.
package replication

import (
	"context"
	"errors"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// Snapshot is the replicated state of one entity at one simulation tick.
type Snapshot struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name,omitempty"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Rotation float64   `json:"rot,omitempty"`
	VX       float64   `json:"vx,omitempty"`
	VY       float64   `json:"vy,omitempty"`
}

// Batch groups every snapshot produced during one fixed step.
type Batch struct {
	Tick      uint64     `json:"tick"`
	Snapshots []Snapshot `json:"snapshots"`
}

// Sink receives batches from the Sync phase. Publish is called on the
// scheduler goroutine, so implementations must not block for long.
type Sink interface {
	Publish(ctx context.Context, b Batch) error
}

// Encode returns the wire form of b.
func Encode(b Batch) ([]byte, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, eris.Wrapf(err, "encode batch for tick %d", b.Tick)
	}
	return data, nil
}

// Decode parses a batch produced by Encode.
func Decode(data []byte) (Batch, error) {
	var b Batch
	if err := json.Unmarshal(data, &b); err != nil {
		return Batch{}, eris.Wrap(err, "decode batch")
	}
	return b, nil
}

// MultiSink publishes to every sink in order. A failing sink does not stop
// the others; their errors are joined.
type MultiSink []Sink

func (m MultiSink) Publish(ctx context.Context, b Batch) error {
	var errs []error
	for _, s := range m {
		if err := s.Publish(ctx, b); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
