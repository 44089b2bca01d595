package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/typerace-backend/internal/engine"
)

func finishedRoom(t *testing.T, wpm1, wpm2 float64) *engine.Room {
	t.Helper()
	r := engine.NewRoom("ROOM2345", "prompt")
	p1, err := r.Add("p1", "c1")
	require.NoError(t, err)
	p2, err := r.Add("p2", "c2")
	require.NoError(t, err)
	p1.WPM, p1.Progress = wpm1, 100
	p2.WPM, p2.Progress = wpm2, 90

	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, r.Advance(engine.StateStarting, start))
	require.NoError(t, r.Advance(engine.StateActive, start))
	require.NoError(t, r.Advance(engine.StateFinished, start.Add(21*time.Second)))
	return r
}

func TestFromRoom_RanksWinnerFirst(t *testing.T) {
	r := finishedRoom(t, 80, 95)

	m := FromRoom(r, engine.Rank(r.Participants))

	assert.Equal(t, "ROOM2345", m.RoomCode)
	assert.Equal(t, 21*time.Second, m.Duration)
	assert.False(t, m.Tie)
	require.Len(t, m.Results, 2)
	assert.Equal(t, Result{Rank: 1, ParticipantID: "p2", DisplayName: "Player 2", WPM: 95, Progress: 90}, m.Results[0])
	assert.Equal(t, 2, m.Results[1].Rank)
}

func TestFromRoom_TieSharesFirstPlace(t *testing.T) {
	r := finishedRoom(t, 60, 60)

	m := FromRoom(r, engine.Rank(r.Participants))

	assert.True(t, m.Tie)
	assert.Equal(t, 1, m.Results[0].Rank)
	assert.Equal(t, 1, m.Results[1].Rank)
}
