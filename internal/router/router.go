// Package router decodes inbound client frames and dispatches each one to
// exactly one coordinator operation.
package router

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/DoyleJ11/typerace-backend/internal/engine"
	"github.com/DoyleJ11/typerace-backend/internal/protocol"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_operations.go github.com/DoyleJ11/typerace-backend/internal/router Operations

// Operations is the coordinator surface the router drives.
type Operations interface {
	CreateRoom(conn engine.ConnID)
	JoinRoom(conn engine.ConnID, code string) error
	SetReady(conn engine.ConnID, code string)
	ReportProgress(conn engine.ConnID, progress int, wpm float64)
	ReportCompletion(conn engine.ConnID, progress int, wpm float64)
}

type Router struct {
	ops Operations
	log *zap.Logger
}

func New(ops Operations, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{ops: ops, log: log}
}

// Route handles one raw frame from conn. Malformed or unknown frames are
// logged and dropped; nothing is sent back.
func (r *Router) Route(conn engine.ConnID, raw []byte) {
	var msg protocol.ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		r.log.Warn("malformed message", zap.String("conn", string(conn)), zap.Error(err))
		return
	}
	if msg.Type == "" {
		r.log.Warn("message without type", zap.String("conn", string(conn)))
		return
	}

	switch msg.Type {
	case protocol.TypeCreateRoom:
		r.ops.CreateRoom(conn)

	case protocol.TypeJoinRoom:
		// Failures are already reported to the client.
		_ = r.ops.JoinRoom(conn, msg.RoomID)

	case protocol.TypePlayerReady:
		r.ops.SetReady(conn, msg.RoomID)

	case protocol.TypeTypingProgress:
		if progress, wpm, ok := r.stats(conn, msg); ok {
			r.ops.ReportProgress(conn, progress, wpm)
		}

	case protocol.TypeGameComplete:
		if progress, wpm, ok := r.stats(conn, msg); ok {
			r.ops.ReportCompletion(conn, progress, wpm)
		}

	default:
		r.log.Info("unknown message type", zap.String("conn", string(conn)), zap.String("type", msg.Type))
	}
}

func (r *Router) stats(conn engine.ConnID, msg protocol.ClientMessage) (int, float64, bool) {
	if msg.Progress == nil || msg.WPM == nil {
		r.log.Warn("missing progress fields", zap.String("conn", string(conn)), zap.String("type", msg.Type))
		return 0, 0, false
	}
	progress, wpm := *msg.Progress, *msg.WPM
	if progress < 0 || progress > 100 || wpm < 0 {
		r.log.Warn("progress out of range",
			zap.String("conn", string(conn)),
			zap.Int("progress", progress),
			zap.Float64("wpm", wpm))
		return 0, 0, false
	}
	return progress, wpm, true
}
