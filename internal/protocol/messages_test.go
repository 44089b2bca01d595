package protocol

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/typerace-backend/internal/engine"
)

func TestNewGameFinished(t *testing.T) {
	tests := []struct {
		name      string
		standings engine.Standings
		want      string
	}{
		{
			name: "winner",
			standings: engine.Standings{
				Results: []engine.Result{
					{ID: "p2", DisplayName: "Player 2", WPM: 95, Progress: 100},
					{ID: "p1", DisplayName: "Player 1", WPM: 80, Progress: 100},
				},
				Winner: "p2",
			},
			want: `{"type":"game_finished","results":[
				{"id":"p2","name":"Player 2","wpm":95,"progress":100},
				{"id":"p1","name":"Player 1","wpm":80,"progress":100}],
				"duration":12500,"tie":false,"winner":"p2"}`,
		},
		{
			name: "tie omits winner",
			standings: engine.Standings{
				Results: []engine.Result{
					{ID: "p1", DisplayName: "Player 1", WPM: 60, Progress: 100},
					{ID: "p2", DisplayName: "Player 2", WPM: 60, Progress: 100},
				},
				Tie: true,
			},
			want: `{"type":"game_finished","results":[
				{"id":"p1","name":"Player 1","wpm":60,"progress":100},
				{"id":"p2","name":"Player 2","wpm":60,"progress":100}],
				"duration":12500,"tie":true}`,
		},
		{
			name:      "no participants",
			standings: engine.Standings{},
			want:      `{"type":"game_finished","results":[],"duration":12500,"tie":false}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(NewGameFinished(tt.standings, 12500*time.Millisecond))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestRoster_KeepsJoinOrder(t *testing.T) {
	room := engine.NewRoom("ABCD2345", "prompt")
	_, err := room.Add("p1", "c1")
	require.NoError(t, err)
	_, err = room.Add("p2", "c2")
	require.NoError(t, err)
	require.NoError(t, room.MarkReady("p2"))

	assert.Equal(t, []Player{
		{ID: "p1", Name: "Player 1"},
		{ID: "p2", Name: "Player 2", Ready: true},
	}, Roster(room))
}

func TestClientMessage_OptionalFields(t *testing.T) {
	var m ClientMessage
	require.NoError(t, json.Unmarshal([]byte(`{"type":"typing_progress","progress":0,"wpm":0}`), &m))
	require.NotNil(t, m.Progress)
	require.NotNil(t, m.WPM)
	assert.Zero(t, *m.Progress)

	m = ClientMessage{}
	require.NoError(t, json.Unmarshal([]byte(`{"type":"create_room"}`), &m))
	assert.Nil(t, m.Progress)
	assert.Nil(t, m.WPM)
}
