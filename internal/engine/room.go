package engine

import (
	"errors"
	"fmt"
	"time"
)

var ErrRoomFull = errors.New("room is full")
var ErrParticipantNotFound = errors.New("participant not found")
var ErrInvalidTransition = errors.New("invalid state transition")
var ErrNotActive = errors.New("match not active")

// MaxParticipants is the seat count of a room. Matches are always head-to-head.
const MaxParticipants = 2

type State string

const (
	StateWaiting  State = "waiting"
	StateStarting State = "starting"
	StateActive   State = "active"
	StateFinished State = "finished"
)

// order ranks states so transitions can only move forward.
var order = map[State]int{
	StateWaiting:  0,
	StateStarting: 1,
	StateActive:   2,
	StateFinished: 3,
}

// ConnID identifies one live transport connection.
type ConnID string

type Participant struct {
	ID          string
	DisplayName string
	Conn        ConnID
	Progress    int
	WPM         float64
	Ready       bool
}

type Room struct {
	Code         string
	Prompt       string
	Participants []*Participant
	State        State
	StartedAt    *time.Time
	EndedAt      *time.Time
}

func NewRoom(code, prompt string) *Room {
	return &Room{
		Code:         code,
		Prompt:       prompt,
		Participants: make([]*Participant, 0, MaxParticipants),
		State:        StateWaiting,
	}
}

// Add admits a participant bound to conn under the lowest free seat name.
// Names of seated participants never change.
func (r *Room) Add(id string, conn ConnID) (*Participant, error) {
	if len(r.Participants) >= MaxParticipants {
		return nil, ErrRoomFull
	}
	p := &Participant{
		ID:          id,
		DisplayName: r.freeSeatName(),
		Conn:        conn,
	}
	r.Participants = append(r.Participants, p)
	return p, nil
}

func (r *Room) freeSeatName() string {
	for n := 1; ; n++ {
		name := fmt.Sprintf("Player %d", n)
		taken := false
		for _, p := range r.Participants {
			if p.DisplayName == name {
				taken = true
				break
			}
		}
		if !taken {
			return name
		}
	}
}

func (r *Room) Remove(id string) (*Participant, error) {
	for i, p := range r.Participants {
		if p.ID == id {
			r.Participants = append(r.Participants[:i], r.Participants[i+1:]...)
			return p, nil
		}
	}
	return nil, ErrParticipantNotFound
}

func (r *Room) Participant(id string) (*Participant, bool) {
	for _, p := range r.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

func (r *Room) Full() bool  { return len(r.Participants) >= MaxParticipants }
func (r *Room) Empty() bool { return len(r.Participants) == 0 }

// MarkReady flags the participant ready. Readiness is never cleared within a room.
func (r *Room) MarkReady(id string) error {
	p, ok := r.Participant(id)
	if !ok {
		return ErrParticipantNotFound
	}
	p.Ready = true
	return nil
}

// AllReady reports whether a full room has every seat ready.
func (r *Room) AllReady() bool {
	if len(r.Participants) != MaxParticipants {
		return false
	}
	for _, p := range r.Participants {
		if !p.Ready {
			return false
		}
	}
	return true
}

// Record stores a progress report verbatim.
func (r *Room) Record(id string, progress int, wpm float64) error {
	if r.State == StateFinished {
		return ErrNotActive
	}
	p, ok := r.Participant(id)
	if !ok {
		return ErrParticipantNotFound
	}
	p.Progress = progress
	p.WPM = wpm
	return nil
}

// AllCompleted reports whether every participant has a nonzero WPM on file.
func (r *Room) AllCompleted() bool {
	if len(r.Participants) == 0 {
		return false
	}
	for _, p := range r.Participants {
		if p.WPM <= 0 {
			return false
		}
	}
	return true
}

// Advance moves the room forward to next, stamping start and end times.
func (r *Room) Advance(next State, now time.Time) error {
	cur, ok := order[r.State]
	if !ok {
		return fmt.Errorf("%w: unknown state %q", ErrInvalidTransition, r.State)
	}
	want, ok := order[next]
	if !ok || want != cur+1 {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.State, next)
	}

	r.State = next
	switch next {
	case StateActive:
		t := now
		r.StartedAt = &t
	case StateFinished:
		t := now
		r.EndedAt = &t
	}
	return nil
}

// Duration is EndedAt - StartedAt, or zero when either end is missing.
func (r *Room) Duration() time.Duration {
	if r.StartedAt == nil || r.EndedAt == nil {
		return 0
	}
	return r.EndedAt.Sub(*r.StartedAt)
}
