package broadcast

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/DoyleJ11/typerace-backend/internal/engine"
)

var ErrNotAttached = errors.New("connection not attached")

// ErrSlowConsumer is returned by transports whose outbox is full.
var ErrSlowConsumer = errors.New("slow consumer")

// Conn is the send side of one client transport. Send must not block.
type Conn interface {
	ID() engine.ConnID
	Send(payload []byte) error
}

// Broadcaster delivers server messages to attached connections.
// Delivery is fire-and-forget: failures are logged and never returned.
type Broadcaster struct {
	conns map[engine.ConnID]Conn
	log   *zap.Logger
}

func New(log *zap.Logger) *Broadcaster {
	if log == nil {
		log = zap.NewNop()
	}
	return &Broadcaster{
		conns: make(map[engine.ConnID]Conn),
		log:   log,
	}
}

func (b *Broadcaster) Attach(c Conn) { b.conns[c.ID()] = c }

func (b *Broadcaster) Detach(id engine.ConnID) { delete(b.conns, id) }

func (b *Broadcaster) Len() int { return len(b.conns) }

func (b *Broadcaster) Send(id engine.ConnID, msg any) {
	payload, err := json.Marshal(msg)
	if err != nil {
		b.log.Error("marshal message", zap.Error(err))
		return
	}
	b.deliver(id, payload)
}

// Broadcast sends msg to every participant of room except exclude.
func (b *Broadcaster) Broadcast(room *engine.Room, msg any, exclude engine.ConnID) {
	payload, err := json.Marshal(msg)
	if err != nil {
		b.log.Error("marshal message", zap.Error(err), zap.String("room", room.Code))
		return
	}
	for _, p := range room.Participants {
		if exclude != "" && p.Conn == exclude {
			continue
		}
		b.deliver(p.Conn, payload)
	}
}

func (b *Broadcaster) deliver(id engine.ConnID, payload []byte) {
	c, ok := b.conns[id]
	if !ok {
		b.log.Debug("send to detached connection", zap.String("conn", string(id)), zap.Error(ErrNotAttached))
		return
	}
	if err := c.Send(payload); err != nil {
		// The transport's own close event does the cleanup.
		b.log.Warn("send failed", zap.String("conn", string(id)), zap.Error(err))
	}
}
