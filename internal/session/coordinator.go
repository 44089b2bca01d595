// Package session drives each room through waiting, starting, active and
// finished. A Coordinator is not safe for concurrent use: every call,
// timer callbacks included, must run on one goroutine (see package hub).
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/typerace-backend/internal/broadcast"
	"github.com/DoyleJ11/typerace-backend/internal/clock"
	"github.com/DoyleJ11/typerace-backend/internal/engine"
	"github.com/DoyleJ11/typerace-backend/internal/events"
	"github.com/DoyleJ11/typerace-backend/internal/history"
	"github.com/DoyleJ11/typerace-backend/internal/registry"
	"github.com/DoyleJ11/typerace-backend/internal/store"
)

const (
	DefaultCountdown     = 3 * time.Second
	DefaultMatchDuration = 30 * time.Second
)

var ErrRoomNotFound = errors.New("room not found")
var ErrRoomFull = engine.ErrRoomFull

type Config struct {
	Store       *store.Store
	Registry    *registry.Registry
	Broadcaster *broadcast.Broadcaster
	Clock       clock.Clock
	Recorder    history.Recorder
	Publisher   events.Publisher
	Logger      *zap.Logger

	Countdown     time.Duration
	MatchDuration time.Duration

	// NewID mints participant IDs. Defaults to random UUIDs.
	NewID func() string
}

type Coordinator struct {
	rooms    *store.Store
	bindings *registry.Registry
	out      *broadcast.Broadcaster
	clock    clock.Clock
	recorder history.Recorder
	events   events.Publisher
	log      *zap.Logger

	countdown     time.Duration
	matchDuration time.Duration
	newID         func() string

	timers map[string]*pending // room code -> armed timer
}

func New(cfg *Config) (*Coordinator, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Broadcaster == nil {
		return nil, errors.New("broadcaster cannot be nil")
	}
	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	c := &Coordinator{
		rooms:         cfg.Store,
		bindings:      cfg.Registry,
		out:           cfg.Broadcaster,
		clock:         cfg.Clock,
		recorder:      cfg.Recorder,
		events:        cfg.Publisher,
		log:           cfg.Logger,
		countdown:     cfg.Countdown,
		matchDuration: cfg.MatchDuration,
		newID:         cfg.NewID,
		timers:        make(map[string]*pending),
	}
	if c.rooms == nil {
		c.rooms = store.New(nil)
	}
	if c.bindings == nil {
		c.bindings = registry.New()
	}
	if c.recorder == nil {
		c.recorder = history.Nop{}
	}
	if c.events == nil {
		c.events = events.Nop{}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.countdown <= 0 {
		c.countdown = DefaultCountdown
	}
	if c.matchDuration <= 0 {
		c.matchDuration = DefaultMatchDuration
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	return c, nil
}

type Stats struct {
	Rooms       int `json:"rooms"`
	Connections int `json:"connections"`
	Bound       int `json:"bound"`
}

func (c *Coordinator) Stats() Stats {
	return Stats{
		Rooms:       c.rooms.Len(),
		Connections: c.out.Len(),
		Bound:       c.bindings.Len(),
	}
}

// Room exposes a live room for read-only inspection on the owning goroutine.
func (c *Coordinator) Room(code string) (*engine.Room, bool) {
	return c.rooms.Get(code)
}

// Shutdown stops every armed timer. Rooms are left as they are.
func (c *Coordinator) Shutdown() {
	for code := range c.timers {
		c.disarm(code)
	}
}

func (c *Coordinator) publish(typ string, room *engine.Room, data any) {
	c.events.Publish(events.Event{
		Type:     typ,
		RoomCode: room.Code,
		At:       c.clock.Now(),
		Data:     data,
	})
}
