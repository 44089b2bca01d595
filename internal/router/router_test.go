package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/DoyleJ11/typerace-backend/internal/engine"
	"github.com/DoyleJ11/typerace-backend/internal/router/mocks"
	"github.com/DoyleJ11/typerace-backend/internal/session"
)

const conn = engine.ConnID("conn-1")

func TestRoute_Dispatch(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		expect func(m *mocks.MockOperationsMockRecorder)
	}{
		{
			name:   "create room",
			raw:    `{"type":"create_room"}`,
			expect: func(m *mocks.MockOperationsMockRecorder) { m.CreateRoom(conn) },
		},
		{
			name: "join room",
			raw:  `{"type":"join_room","roomId":"ABCD2345"}`,
			expect: func(m *mocks.MockOperationsMockRecorder) {
				m.JoinRoom(conn, "ABCD2345").Return(nil)
			},
		},
		{
			name: "join failure is swallowed",
			raw:  `{"type":"join_room","roomId":"NOPE"}`,
			expect: func(m *mocks.MockOperationsMockRecorder) {
				m.JoinRoom(conn, "NOPE").Return(session.ErrRoomNotFound)
			},
		},
		{
			name:   "ready",
			raw:    `{"type":"player_ready","roomId":"ABCD2345"}`,
			expect: func(m *mocks.MockOperationsMockRecorder) { m.SetReady(conn, "ABCD2345") },
		},
		{
			name:   "typing progress",
			raw:    `{"type":"typing_progress","progress":42,"wpm":61.5}`,
			expect: func(m *mocks.MockOperationsMockRecorder) { m.ReportProgress(conn, 42, 61.5) },
		},
		{
			name:   "zero progress is valid",
			raw:    `{"type":"typing_progress","progress":0,"wpm":0}`,
			expect: func(m *mocks.MockOperationsMockRecorder) { m.ReportProgress(conn, 0, 0.0) },
		},
		{
			name:   "game complete",
			raw:    `{"type":"game_complete","progress":100,"wpm":88}`,
			expect: func(m *mocks.MockOperationsMockRecorder) { m.ReportCompletion(conn, 100, 88.0) },
		},
		{
			name:   "extra fields ignored",
			raw:    `{"type":"create_room","roomId":"X","progress":3,"extra":true}`,
			expect: func(m *mocks.MockOperationsMockRecorder) { m.CreateRoom(conn) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ops := mocks.NewMockOperations(ctrl)
			tt.expect(ops.EXPECT())

			New(ops, nil).Route(conn, []byte(tt.raw))
		})
	}
}

func TestRoute_Dropped(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		level string
		log   string
	}{
		{"not json", `hello`, "warn", "malformed message"},
		{"no type", `{"roomId":"ABCD2345"}`, "warn", "message without type"},
		{"wrong type kind", `{"type":7}`, "warn", "malformed message"},
		{"unknown type", `{"type":"chat","text":"hi"}`, "info", "unknown message type"},
		{"progress missing", `{"type":"typing_progress","wpm":10}`, "warn", "missing progress fields"},
		{"wpm missing", `{"type":"game_complete","progress":100}`, "warn", "missing progress fields"},
		{"progress above 100", `{"type":"typing_progress","progress":101,"wpm":10}`, "warn", "progress out of range"},
		{"negative progress", `{"type":"game_complete","progress":-1,"wpm":10}`, "warn", "progress out of range"},
		{"negative wpm", `{"type":"typing_progress","progress":10,"wpm":-3}`, "warn", "progress out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ops := mocks.NewMockOperations(ctrl) // any call fails the test

			core, logs := observer.New(zap.DebugLevel)
			New(ops, zap.New(core)).Route(conn, []byte(tt.raw))

			entries := logs.All()
			if assert.Len(t, entries, 1) {
				assert.Equal(t, tt.log, entries[0].Message)
				assert.Equal(t, tt.level, entries[0].Level.String())
			}
		})
	}
}
