package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/typerace-backend/internal/clock"
	"github.com/DoyleJ11/typerace-backend/internal/engine"
	"github.com/DoyleJ11/typerace-backend/internal/events"
	"github.com/DoyleJ11/typerace-backend/internal/history"
	"github.com/DoyleJ11/typerace-backend/internal/protocol"
)

// pending is the one timer a room may have armed, with the state it was armed in.
type pending struct {
	room  *engine.Room
	state engine.State
	timer clock.Timer
}

// arm replaces the room's timer. On fire, fn runs only if this is still the
// armed timer and the room is still stored in the state it had when armed.
func (c *Coordinator) arm(room *engine.Room, d time.Duration, fn func(*engine.Room)) {
	c.disarm(room.Code)

	p := &pending{room: room, state: room.State}
	p.timer = c.clock.AfterFunc(d, func() {
		// A fire that raced Stop is no longer the room's pending timer.
		if c.timers[room.Code] != p {
			c.log.Debug("disarmed timer fired", zap.String("room", room.Code))
			return
		}
		delete(c.timers, room.Code)
		if cur, ok := c.rooms.Get(room.Code); !ok || cur != p.room || cur.State != p.state {
			c.log.Debug("stale timer", zap.String("room", room.Code), zap.String("armed", string(p.state)))
			return
		}
		fn(room)
	})
	c.timers[room.Code] = p
}

func (c *Coordinator) disarm(code string) {
	if p, ok := c.timers[code]; ok {
		p.timer.Stop()
		delete(c.timers, code)
	}
}

// begin ends the countdown.
func (c *Coordinator) begin(room *engine.Room) {
	now := c.clock.Now()
	if err := room.Advance(engine.StateActive, now); err != nil {
		c.log.Error("start match", zap.String("room", room.Code), zap.Error(err))
		return
	}
	c.out.Broadcast(room, protocol.GameStarted{
		Type:      protocol.TypeGameStarted,
		StartTime: now.UnixMilli(),
	}, "")
	c.arm(room, c.matchDuration, c.finish)
	c.publish(events.GameStarted, room, nil)
	c.log.Info("match started", zap.String("room", room.Code))
}

// finish closes the match and reports standings to everyone still seated.
func (c *Coordinator) finish(room *engine.Room) {
	c.disarm(room.Code)
	if err := room.Advance(engine.StateFinished, c.clock.Now()); err != nil {
		c.log.Error("finish match", zap.String("room", room.Code), zap.Error(err))
		return
	}
	if room.StartedAt == nil {
		c.log.Error("finished match has no start time", zap.String("room", room.Code))
	}

	standings := engine.Rank(room.Participants)
	msg := protocol.NewGameFinished(standings, room.Duration())
	c.out.Broadcast(room, msg, "")
	c.recorder.Record(history.FromRoom(room, standings))
	c.publish(events.GameFinished, room, msg)
	c.log.Info("match finished",
		zap.String("room", room.Code),
		zap.Duration("duration", room.Duration()),
		zap.Bool("tie", standings.Tie))
}
