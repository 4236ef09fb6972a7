package replication

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const (
	writeWait = 2 * time.Second
	// defaultSendBuffer is how many batches a subscriber may fall behind
	// before it is dropped.
	defaultSendBuffer = 16
)

// Hub broadcasts every published batch to its websocket subscribers. It
// serves the websocket endpoint itself via ServeHTTP.
//
// Publish never blocks on the network: each subscriber has its own queue
// and writer goroutine, and a subscriber whose queue is full is dropped.
type Hub struct {
	upgrader   websocket.Upgrader
	logger     zerolog.Logger
	sendBuffer int

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
}

// wsConn is the part of *websocket.Conn the hub writes through.
type wsConn interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

type subscriber struct {
	conn wsConn
	send chan []byte
	done chan struct{}
	once sync.Once
	mu   sync.Mutex
}

func newSubscriber(conn wsConn, buffer int) *subscriber {
	return &subscriber{
		conn: conn,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// writeMessage sends a message guarded by the subscriber's mutex and write
// deadline.
func (s *subscriber) writeMessage(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(messageType, data)
}

// stop ends the writer goroutine; it reports whether this call stopped it.
func (s *subscriber) stop() bool {
	stopped := false
	s.once.Do(func() {
		close(s.done)
		stopped = true
	})
	return stopped
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithLogger sets the hub's logger.
func WithLogger(l zerolog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = l
	}
}

// WithSendBuffer sets how many batches a subscriber may lag behind before
// it is dropped.
func WithSendBuffer(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.sendBuffer = n
		}
	}
}

// WithCheckOrigin replaces the origin check used during the upgrade.
func WithCheckOrigin(fn func(*http.Request) bool) HubOption {
	return func(h *Hub) {
		h.upgrader.CheckOrigin = fn
	}
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		upgrader:    websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 4096},
		logger:      zerolog.Nop(),
		sendBuffer:  defaultSendBuffer,
		subscribers: make(map[*subscriber]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP upgrades the request and keeps the connection subscribed until
// the peer goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}
	sub, count := h.add(conn)
	h.logger.Info().Str("remote", r.RemoteAddr).Int("subscribers", count).Msg("subscriber joined")

	// Subscribers only listen; reading drains control frames and notices
	// when the peer closes.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(sub)
}

// Subscribers is the number of connected peers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Publish queues b for every subscriber and returns without waiting for
// the writes. Subscribers whose queue is full are dropped.
func (h *Hub) Publish(_ context.Context, b Batch) error {
	data, err := Encode(b)
	if err != nil {
		return err
	}
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for s := range h.subscribers {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	failed := 0
	for _, s := range subs {
		select {
		case s.send <- data:
		default:
			h.logger.Warn().Uint64("tick", b.Tick).Int("buffer", cap(s.send)).Msg("dropping subscriber that fell behind")
			h.drop(s)
			failed++
		}
	}
	if failed > 0 && failed == len(subs) {
		return eris.Errorf("tick %d: all %d subscribers failed", b.Tick, failed)
	}
	return nil
}

// Close disconnects every subscriber.
func (h *Hub) Close() error {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[*subscriber]struct{})
	h.mu.Unlock()
	for s := range subs {
		s.stop()
		s.mu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		s.mu.Unlock()
		_ = s.conn.Close()
	}
	return nil
}

func (h *Hub) add(conn wsConn) (*subscriber, int) {
	sub := newSubscriber(conn, h.sendBuffer)
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	count := len(h.subscribers)
	h.mu.Unlock()
	go h.writeLoop(sub)
	return sub, count
}

// writeLoop drains one subscriber's queue onto its connection.
func (h *Hub) writeLoop(s *subscriber) {
	for {
		select {
		case <-s.done:
			return
		case data := <-s.send:
			if err := s.writeMessage(websocket.TextMessage, data); err != nil {
				h.logger.Debug().Err(err).Msg("dropping subscriber after write error")
				h.drop(s)
				return
			}
		}
	}
}

func (h *Hub) drop(s *subscriber) {
	h.mu.Lock()
	delete(h.subscribers, s)
	h.mu.Unlock()
	if s.stop() {
		_ = s.conn.Close()
	}
}
