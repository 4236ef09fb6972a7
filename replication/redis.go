package replication

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

const (
	fieldTick  = "tick"
	fieldBatch = "batch"
)

// RedisStreamSink appends each batch to a Redis stream, one entry per tick.
type RedisStreamSink struct {
	client redis.UniversalClient
	stream string
	maxLen int64
}

// NewRedisStreamSink writes to stream. When maxLen is positive the stream is
// trimmed to roughly that many entries.
func NewRedisStreamSink(client redis.UniversalClient, stream string, maxLen int64) *RedisStreamSink {
	return &RedisStreamSink{client: client, stream: stream, maxLen: maxLen}
}

func (s *RedisStreamSink) Publish(ctx context.Context, b Batch) error {
	data, err := Encode(b)
	if err != nil {
		return err
	}
	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			fieldTick:  strconv.FormatUint(b.Tick, 10),
			fieldBatch: string(data),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return eris.Wrapf(err, "xadd tick %d to %s", b.Tick, s.stream)
	}
	return nil
}

// Read returns up to count batches stored after the entry id after ("-"
// reads from the start), together with the id of the last entry read.
func (s *RedisStreamSink) Read(ctx context.Context, after string, count int64) ([]Batch, string, error) {
	start := "-"
	if after != "" && after != "-" {
		start = "(" + after
	}
	msgs, err := s.client.XRangeN(ctx, s.stream, start, "+", count).Result()
	if err != nil {
		return nil, after, eris.Wrapf(err, "xrange %s", s.stream)
	}
	out := make([]Batch, 0, len(msgs))
	last := after
	for _, msg := range msgs {
		raw, ok := msg.Values[fieldBatch].(string)
		if !ok {
			return out, last, eris.Errorf("stream entry %s has no %s field", msg.ID, fieldBatch)
		}
		b, err := Decode([]byte(raw))
		if err != nil {
			return out, last, err
		}
		out = append(out, b)
		last = msg.ID
	}
	return out, last, nil
}
