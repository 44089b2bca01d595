// Package hub owns every room and connection on a single goroutine. Transport
// events, timer fires and queries all arrive through one inbox, so the session
// coordinator never sees concurrent calls.
package hub

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/typerace-backend/internal/broadcast"
	"github.com/DoyleJ11/typerace-backend/internal/clock"
	"github.com/DoyleJ11/typerace-backend/internal/engine"
	"github.com/DoyleJ11/typerace-backend/internal/events"
	"github.com/DoyleJ11/typerace-backend/internal/history"
	"github.com/DoyleJ11/typerace-backend/internal/router"
	"github.com/DoyleJ11/typerace-backend/internal/session"
	"github.com/DoyleJ11/typerace-backend/internal/store"
)

var ErrClosed = errors.New("hub closed")

type Msg interface{ isHubMsg() }

// Connect registers a transport before it delivers any frames.
type Connect struct {
	Conn broadcast.Conn
}

// Inbound carries one raw frame in the order the connection read it.
type Inbound struct {
	Conn engine.ConnID
	Data []byte
}

// Disconnect is posted exactly once when a transport closes.
type Disconnect struct {
	Conn engine.ConnID
}

type GetStats struct {
	Reply chan session.Stats
}

type RoomInfo struct {
	Code         string       `json:"code"`
	State        engine.State `json:"state"`
	Participants int          `json:"participants"`
}

type GetRoom struct {
	Code  string
	Reply chan *RoomInfo // nil when unknown
}

type Shutdown struct{}

type timerFired struct{ f func() }

func (Connect) isHubMsg()    {}
func (Inbound) isHubMsg()    {}
func (Disconnect) isHubMsg() {}
func (GetStats) isHubMsg()   {}
func (GetRoom) isHubMsg()    {}
func (Shutdown) isHubMsg()   {}
func (timerFired) isHubMsg() {}

type Config struct {
	Countdown     time.Duration
	MatchDuration time.Duration
	Prompts       []string
	Recorder      history.Recorder
	Publisher     events.Publisher
	Logger        *zap.Logger

	// Clock schedules timers. Defaults to the system clock.
	Clock clock.Clock
}

type Hub struct {
	inbox  chan Msg
	out    *broadcast.Broadcaster
	coord  *session.Coordinator
	router *router.Router
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewHub(parent context.Context, cfg *Config) (*Hub, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	base := cfg.Clock
	if base == nil {
		base = clock.System{}
	}

	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan Msg, 64),
		out:    broadcast.New(log.Named("broadcast")),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	coord, err := session.New(&session.Config{
		Store:         store.New(cfg.Prompts),
		Broadcaster:   h.out,
		Clock:         loopClock{base: base, h: h},
		Recorder:      cfg.Recorder,
		Publisher:     cfg.Publisher,
		Logger:        log.Named("session"),
		Countdown:     cfg.Countdown,
		MatchDuration: cfg.MatchDuration,
	})
	if err != nil {
		cancel()
		return nil, err
	}
	h.coord = coord
	h.router = router.New(coord, log.Named("router"))

	go h.loop()
	return h, nil
}

func (h *Hub) Inbox() chan<- Msg { return h.inbox }

// Done is closed once the loop has exited.
func (h *Hub) Done() <-chan struct{} { return h.done }

// Post enqueues m, giving up when ctx ends or the hub has stopped.
func (h *Hub) Post(ctx context.Context, m Msg) error {
	if h.ctx.Err() != nil {
		return ErrClosed
	}
	select {
	case h.inbox <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.ctx.Done():
		return ErrClosed
	}
}

func (h *Hub) Stats(ctx context.Context) (session.Stats, error) {
	reply := make(chan session.Stats, 1)
	if err := h.Post(ctx, GetStats{Reply: reply}); err != nil {
		return session.Stats{}, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return session.Stats{}, ctx.Err()
	case <-h.done:
		return session.Stats{}, ErrClosed
	}
}

// Room looks up a room by code. The result is a copy taken on the loop.
func (h *Hub) Room(ctx context.Context, code string) (*RoomInfo, error) {
	reply := make(chan *RoomInfo, 1)
	if err := h.Post(ctx, GetRoom{Code: code, Reply: reply}); err != nil {
		return nil, err
	}
	select {
	case info := <-reply:
		return info, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-h.done:
		return nil, ErrClosed
	}
}

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Connect:
				h.out.Attach(msg.Conn)
				h.log.Debug("connected", zap.String("conn", string(msg.Conn.ID())))

			case Inbound:
				h.router.Route(msg.Conn, msg.Data)

			case Disconnect:
				h.coord.Disconnect(msg.Conn)
				h.out.Detach(msg.Conn)
				h.log.Debug("disconnected", zap.String("conn", string(msg.Conn)))

			case timerFired:
				msg.f()

			case GetStats:
				msg.Reply <- h.coord.Stats()

			case GetRoom:
				room, ok := h.coord.Room(msg.Code)
				if !ok {
					msg.Reply <- nil
					break
				}
				msg.Reply <- &RoomInfo{Code: room.Code, State: room.State, Participants: len(room.Participants)}

			case Shutdown:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	h.coord.Shutdown()
	h.cancel()
	h.log.Info("hub stopped")
}

// loopClock runs timer callbacks on the hub goroutine instead of the
// timer's own.
type loopClock struct {
	base clock.Clock
	h    *Hub
}

func (c loopClock) Now() time.Time { return c.base.Now() }

func (c loopClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	return c.base.AfterFunc(d, func() {
		_ = c.h.Post(context.Background(), timerFired{f: f})
	})
}
