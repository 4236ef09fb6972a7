package host

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/milk9111/lockstep/config"
	"github.com/milk9111/lockstep/replication"
)

// Sinks owns the replication transports configured for the process.
type Sinks struct {
	Memory *replication.MemorySink
	Hub    *replication.Hub
	Redis  *replication.RedisStreamSink
	// WSAddr is the address the websocket server listens on, once open.
	WSAddr string

	client *redis.Client
	server *http.Server
	logger zerolog.Logger
}

// OpenSinks connects the transports named in cfg. The memory sink, which
// keeps the latest batch for local readers, is always present.
func OpenSinks(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Sinks, error) {
	s := &Sinks{Memory: replication.NewMemorySink(1), logger: logger}

	if cfg.RedisAddr != "" {
		s.client = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := s.client.Ping(ctx).Err(); err != nil {
			_ = s.client.Close()
			return nil, eris.Wrapf(err, "redis %s", cfg.RedisAddr)
		}
		s.Redis = replication.NewRedisStreamSink(s.client, cfg.RedisStream, 10_000)
		logger.Info().Str("addr", cfg.RedisAddr).Str("stream", cfg.RedisStream).Msg("publishing to redis")
	}

	if cfg.WSAddr != "" {
		ln, err := net.Listen("tcp", cfg.WSAddr)
		if err != nil {
			s.Close()
			return nil, eris.Wrapf(err, "listen %s", cfg.WSAddr)
		}
		s.WSAddr = ln.Addr().String()
		s.Hub = replication.NewHub(replication.WithLogger(logger.With().Str("component", "hub").Logger()))
		mux := http.NewServeMux()
		mux.Handle("/ws", s.Hub)
		s.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("websocket server stopped")
			}
		}()
		logger.Info().Str("addr", s.WSAddr).Msg("serving websocket subscribers on /ws")
	}
	return s, nil
}

// Sink fans out to every open transport.
func (s *Sinks) Sink() replication.Sink {
	multi := replication.MultiSink{s.Memory}
	if s.Redis != nil {
		multi = append(multi, s.Redis)
	}
	if s.Hub != nil {
		multi = append(multi, s.Hub)
	}
	return multi
}

func (s *Sinks) Close() {
	if s.Hub != nil {
		_ = s.Hub.Close()
	}
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctx)
	}
	if s.client != nil {
		_ = s.client.Close()
	}
}
