// Package ws adapts websocket connections to the hub: one reader feeding the
// inbox in frame order and one writer draining a bounded outbox.
package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/typerace-backend/internal/broadcast"
	"github.com/DoyleJ11/typerace-backend/internal/engine"
	"github.com/DoyleJ11/typerace-backend/internal/hub"
)

const (
	DefaultOutboxSize   = 32
	DefaultPingInterval = 30 * time.Second

	writeTimeout = 5 * time.Second
	readLimit    = 4 << 10
)

var errClosed = errors.New("connection closed")

type Config struct {
	OutboxSize     int
	PingInterval   time.Duration
	OriginPatterns []string
	Logger         *zap.Logger
}

// Conn is the hub-facing half of a socket. Send never blocks: a full outbox
// marks the client as too slow and the writer closes the socket.
type Conn struct {
	id     engine.ConnID
	out    chan []byte
	closed chan struct{}
	once   sync.Once
	slow   atomic.Bool
}

func newConn(id engine.ConnID, size int) *Conn {
	return &Conn{
		id:     id,
		out:    make(chan []byte, size),
		closed: make(chan struct{}),
	}
}

func (c *Conn) ID() engine.ConnID { return c.id }

func (c *Conn) Send(p []byte) error {
	select {
	case <-c.closed:
		return errClosed
	default:
	}
	select {
	case c.out <- p:
		return nil
	default:
		c.slow.Store(true)
		c.close()
		return broadcast.ErrSlowConsumer
	}
}

func (c *Conn) close() { c.once.Do(func() { close(c.closed) }) }

func Handler(h *hub.Hub, cfg Config) http.HandlerFunc {
	if cfg.OutboxSize <= 0 {
		cfg.OutboxSize = DefaultOutboxSize
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = DefaultPingInterval
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sock, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: cfg.OriginPatterns,
		})
		if err != nil {
			log.Debug("accept", zap.Error(err))
			return
		}
		defer sock.Close(websocket.StatusNormalClosure, "bye")
		sock.SetReadLimit(readLimit)

		c := newConn(engine.ConnID(uuid.NewString()), cfg.OutboxSize)
		clog := log.With(zap.String("conn", string(c.id)))

		if err := h.Post(r.Context(), hub.Connect{Conn: c}); err != nil {
			sock.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}
		// Posted after the reader has stopped, so it follows every Inbound.
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			defer cancel()
			if err := h.Post(ctx, hub.Disconnect{Conn: c.id}); err != nil {
				clog.Debug("post disconnect", zap.Error(err))
			}
		}()

		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error { return writeLoop(ctx, sock, c, cfg.PingInterval) })
		g.Go(func() error {
			defer c.close()
			return readLoop(ctx, sock, h, c)
		})

		err = g.Wait()
		switch {
		case c.slow.Load():
			clog.Warn("dropped slow client")
		case websocket.CloseStatus(err) == websocket.StatusNormalClosure,
			websocket.CloseStatus(err) == websocket.StatusGoingAway,
			errors.Is(err, errClosed),
			errors.Is(err, context.Canceled):
			clog.Debug("client closed")
		default:
			clog.Info("connection ended", zap.Error(err))
		}
	}
}

func readLoop(ctx context.Context, sock *websocket.Conn, h *hub.Hub, c *Conn) error {
	for {
		_, data, err := sock.Read(ctx)
		if err != nil {
			return err
		}
		if err := h.Post(ctx, hub.Inbound{Conn: c.id, Data: data}); err != nil {
			return err
		}
	}
}

func writeLoop(ctx context.Context, sock *websocket.Conn, c *Conn, pingEvery time.Duration) error {
	ping := time.NewTicker(pingEvery)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-c.closed:
			if c.slow.Load() {
				sock.Close(websocket.StatusPolicyViolation, "slow consumer")
				return broadcast.ErrSlowConsumer
			}
			return errClosed

		case p := <-c.out:
			if err := write(ctx, sock, p); err != nil {
				return err
			}

		case <-ping.C:
			pctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := sock.Ping(pctx)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

func write(ctx context.Context, sock *websocket.Conn, p []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return sock.Write(ctx, websocket.MessageText, p)
}
