package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/typerace-backend/internal/engine"
	"github.com/DoyleJ11/typerace-backend/internal/events"
	"github.com/DoyleJ11/typerace-backend/internal/protocol"
	"github.com/DoyleJ11/typerace-backend/internal/registry"
	"github.com/DoyleJ11/typerace-backend/internal/store"
)

// CreateRoom opens a fresh room with conn seated as Player 1.
func (c *Coordinator) CreateRoom(conn engine.ConnID) {
	c.leave(conn)

	room := c.rooms.Create()
	p, err := room.Add(c.newID(), conn)
	if err != nil {
		// A new room always has a free seat.
		c.log.Error("seat creator", zap.String("room", room.Code), zap.Error(err))
		c.rooms.Delete(room.Code)
		return
	}
	c.bindings.Bind(conn, registry.Binding{RoomCode: room.Code, ParticipantID: p.ID})

	c.out.Send(conn, protocol.RoomCreated{
		Type:       protocol.TypeRoomCreated,
		RoomID:     room.Code,
		Prompt:     room.Prompt,
		PlayerID:   p.ID,
		PlayerName: p.DisplayName,
	})
	c.publish(events.RoomCreated, room, nil)
	c.log.Info("room created", zap.String("room", room.Code), zap.String("conn", string(conn)))
}

// JoinRoom seats conn in the room with the given code. Unknown and full rooms
// are reported to conn only and leave every room untouched.
func (c *Coordinator) JoinRoom(conn engine.ConnID, code string) error {
	room, ok := c.rooms.Get(code)
	if !ok {
		c.out.Send(conn, protocol.Error{Type: protocol.TypeError, Message: protocol.MsgRoomNotFound})
		c.log.Info("join unknown room", zap.String("room", code), zap.String("conn", string(conn)))
		return ErrRoomNotFound
	}
	if b, bound := c.bindings.Lookup(conn); bound && b.RoomCode == room.Code {
		c.log.Debug("already seated", zap.String("room", room.Code), zap.String("conn", string(conn)))
		return nil
	}
	// Seats are fixed once a match leaves the lobby.
	if room.Full() || room.State != engine.StateWaiting {
		c.out.Send(conn, protocol.Error{Type: protocol.TypeError, Message: protocol.MsgRoomFull})
		c.log.Info("join full room", zap.String("room", room.Code), zap.String("conn", string(conn)))
		return ErrRoomFull
	}

	c.leave(conn)

	p, err := room.Add(c.newID(), conn)
	if err != nil {
		c.out.Send(conn, protocol.Error{Type: protocol.TypeError, Message: protocol.MsgRoomFull})
		return err
	}
	c.bindings.Bind(conn, registry.Binding{RoomCode: room.Code, ParticipantID: p.ID})

	c.out.Broadcast(room, protocol.PlayerJoined{
		Type:       protocol.TypePlayerJoined,
		RoomID:     room.Code,
		Prompt:     room.Prompt,
		PlayerID:   p.ID,
		PlayerName: p.DisplayName,
		Players:    protocol.Roster(room),
	}, "")
	c.publish(events.PlayerJoined, room, map[string]string{"playerId": p.ID})
	c.log.Info("player joined", zap.String("room", room.Code), zap.String("participant", p.ID))
	return nil
}

// SetReady marks the sender ready. When both seats are ready the countdown
// starts; otherwise the roster is re-sent.
func (c *Coordinator) SetReady(conn engine.ConnID, code string) {
	room, p, ok := c.seat(conn)
	if !ok {
		return
	}
	if code != "" && store.Normalize(code) != room.Code {
		c.log.Debug("ready for a room the connection is not in",
			zap.String("room", code), zap.String("bound", room.Code), zap.String("conn", string(conn)))
		return
	}
	if room.State != engine.StateWaiting {
		return
	}

	if err := room.MarkReady(p.ID); err != nil {
		c.log.Warn("mark ready", zap.String("room", room.Code), zap.Error(err))
		return
	}

	if !room.AllReady() {
		c.out.Broadcast(room, protocol.PlayerReadyUpdate{
			Type:    protocol.TypePlayerReadyUpdate,
			Players: protocol.Roster(room),
		}, "")
		return
	}

	if err := room.Advance(engine.StateStarting, c.clock.Now()); err != nil {
		c.log.Error("start countdown", zap.String("room", room.Code), zap.Error(err))
		return
	}
	c.out.Broadcast(room, protocol.GameStarting{
		Type:      protocol.TypeGameStarting,
		Countdown: countdownSeconds(c.countdown),
	}, "")
	c.arm(room, c.countdown, c.begin)
	c.log.Info("countdown started", zap.String("room", room.Code))
}

// ReportProgress relays the sender's progress to the opponent while the match is active.
func (c *Coordinator) ReportProgress(conn engine.ConnID, progress int, wpm float64) {
	room, p, ok := c.seat(conn)
	if !ok || room.State != engine.StateActive {
		return
	}
	if err := room.Record(p.ID, progress, wpm); err != nil {
		return
	}
	c.out.Broadcast(room, protocol.OpponentProgress{
		Type:     protocol.TypeOpponentProgress,
		PlayerID: p.ID,
		Progress: progress,
		WPM:      wpm,
	}, conn)
}

// ReportCompletion stores the sender's final numbers and ends an active match
// as soon as every participant has a nonzero WPM.
func (c *Coordinator) ReportCompletion(conn engine.ConnID, progress int, wpm float64) {
	room, p, ok := c.seat(conn)
	if !ok {
		return
	}
	if err := room.Record(p.ID, progress, wpm); err != nil {
		c.log.Debug("completion ignored", zap.String("room", room.Code), zap.Error(err))
		return
	}
	if !room.AllCompleted() {
		return
	}
	if room.State != engine.StateActive {
		c.log.Warn("completion before match start", zap.String("room", room.Code), zap.String("state", string(room.State)))
		return
	}
	c.finish(room)
}

// Disconnect releases conn's seat. The match keeps running for the survivor.
func (c *Coordinator) Disconnect(conn engine.ConnID) {
	c.leave(conn)
}

// seat resolves conn's binding to a live room and participant.
func (c *Coordinator) seat(conn engine.ConnID) (*engine.Room, *engine.Participant, bool) {
	b, ok := c.bindings.Lookup(conn)
	if !ok {
		c.log.Debug("unbound connection", zap.String("conn", string(conn)))
		return nil, nil, false
	}
	room, ok := c.rooms.Get(b.RoomCode)
	if !ok {
		c.log.Debug("stale binding", zap.String("room", b.RoomCode), zap.String("conn", string(conn)))
		return nil, nil, false
	}
	p, ok := room.Participant(b.ParticipantID)
	if !ok {
		c.log.Debug("stale participant", zap.String("room", b.RoomCode), zap.String("participant", b.ParticipantID))
		return nil, nil, false
	}
	return room, p, true
}

func (c *Coordinator) leave(conn engine.ConnID) {
	b, ok := c.bindings.Lookup(conn)
	if !ok {
		return
	}
	c.bindings.Unbind(conn)

	room, ok := c.rooms.Get(b.RoomCode)
	if !ok {
		return
	}
	if _, err := room.Remove(b.ParticipantID); err != nil {
		c.log.Debug("remove participant", zap.String("room", room.Code), zap.Error(err))
		return
	}
	c.log.Info("player left", zap.String("room", room.Code), zap.String("participant", b.ParticipantID))

	if room.Empty() {
		c.disarm(room.Code)
		c.rooms.Delete(room.Code)
		c.publish(events.RoomClosed, room, nil)
		c.log.Info("room deleted", zap.String("room", room.Code))
		return
	}
	c.out.Broadcast(room, protocol.PlayerDisconnected{
		Type:    protocol.TypePlayerDisconnected,
		Message: protocol.MsgOpponentDisconnected,
	}, "")
}

// countdownSeconds rounds up so a sub-second countdown never reads as zero.
func countdownSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}
