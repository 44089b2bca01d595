// Package history archives finished matches. Archived matches are never
// loaded back into live rooms.
package history

import (
	"context"
	"time"

	"github.com/DoyleJ11/typerace-backend/internal/engine"
)

type Result struct {
	Rank          int     `json:"rank"`
	ParticipantID string  `json:"participantId"`
	DisplayName   string  `json:"displayName"`
	WPM           float64 `json:"wpm"`
	Progress      int     `json:"progress"`
}

type Match struct {
	RoomCode  string        `json:"roomCode"`
	Prompt    string        `json:"prompt"`
	StartedAt *time.Time    `json:"startedAt,omitempty"`
	EndedAt   time.Time     `json:"endedAt"`
	Duration  time.Duration `json:"duration"`
	Tie       bool          `json:"tie"`
	Results   []Result      `json:"results"`
}

//go:generate mockgen -package=mocks -destination=mocks/mock_recorder.go github.com/DoyleJ11/typerace-backend/internal/history Recorder

// Recorder accepts finished matches. Record must not block the caller.
type Recorder interface {
	Record(m Match)
	Close() error
}

// Store is a durable match archive.
type Store interface {
	Save(ctx context.Context, m Match) error
	Recent(ctx context.Context, limit int) ([]Match, error)
	Close() error
}

// FromRoom snapshots a finished room. Results are in rank order.
func FromRoom(room *engine.Room, s engine.Standings) Match {
	m := Match{
		RoomCode:  room.Code,
		Prompt:    room.Prompt,
		StartedAt: room.StartedAt,
		Duration:  room.Duration(),
		Tie:       s.Tie,
		Results:   make([]Result, 0, len(s.Results)),
	}
	if room.EndedAt != nil {
		m.EndedAt = *room.EndedAt
	}
	for i, r := range s.Results {
		rank := i + 1
		if s.Tie && i > 0 && r.WPM == s.Results[0].WPM {
			rank = 1
		}
		m.Results = append(m.Results, Result{
			Rank:          rank,
			ParticipantID: r.ID,
			DisplayName:   r.DisplayName,
			WPM:           r.WPM,
			Progress:      r.Progress,
		})
	}
	return m
}

type Nop struct{}

func (Nop) Record(Match) {}
func (Nop) Close() error { return nil }
