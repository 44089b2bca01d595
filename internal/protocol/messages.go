package protocol

import (
	"time"

	"github.com/DoyleJ11/typerace-backend/internal/engine"
)

// Client -> Server
const (
	TypeCreateRoom     = "create_room"
	TypeJoinRoom       = "join_room"
	TypePlayerReady    = "player_ready"
	TypeTypingProgress = "typing_progress"
	TypeGameComplete   = "game_complete"
)

// Server -> Client
const (
	TypeRoomCreated        = "room_created"
	TypePlayerJoined       = "player_joined"
	TypeError              = "error"
	TypePlayerReadyUpdate  = "player_ready_update"
	TypeGameStarting       = "game_starting"
	TypeGameStarted        = "game_started"
	TypeOpponentProgress   = "opponent_progress"
	TypeGameFinished       = "game_finished"
	TypePlayerDisconnected = "player_disconnected"
)

const (
	MsgRoomNotFound         = "Room not found"
	MsgRoomFull             = "Room is full"
	MsgOpponentDisconnected = "Opponent disconnected"
)

// ClientMessage is the union of every inbound field. Type is required.
type ClientMessage struct {
	Type     string   `json:"type"`
	RoomID   string   `json:"roomId,omitempty"`
	Progress *int     `json:"progress,omitempty"`
	WPM      *float64 `json:"wpm,omitempty"`
}

type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
}

type RoomCreated struct {
	Type       string `json:"type"`
	RoomID     string `json:"roomId"`
	Prompt     string `json:"prompt"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type PlayerJoined struct {
	Type       string   `json:"type"`
	RoomID     string   `json:"roomId"`
	Prompt     string   `json:"prompt"`
	PlayerID   string   `json:"playerId"`
	PlayerName string   `json:"playerName"`
	Players    []Player `json:"players"`
}

type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type PlayerReadyUpdate struct {
	Type    string   `json:"type"`
	Players []Player `json:"players"`
}

type GameStarting struct {
	Type      string `json:"type"`
	Countdown int    `json:"countdown"`
}

type GameStarted struct {
	Type      string `json:"type"`
	StartTime int64  `json:"startTime"` // unix millis
}

type OpponentProgress struct {
	Type     string  `json:"type"`
	PlayerID string  `json:"playerId"`
	Progress int     `json:"progress"`
	WPM      float64 `json:"wpm"`
}

type Result struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	WPM      float64 `json:"wpm"`
	Progress int     `json:"progress"`
}

type GameFinished struct {
	Type     string   `json:"type"`
	Results  []Result `json:"results"`
	Duration int64    `json:"duration"` // millis
	Tie      bool     `json:"tie"`
	Winner   string   `json:"winner,omitempty"`
}

type PlayerDisconnected struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func Roster(room *engine.Room) []Player {
	players := make([]Player, 0, len(room.Participants))
	for _, p := range room.Participants {
		players = append(players, Player{ID: p.ID, Name: p.DisplayName, Ready: p.Ready})
	}
	return players
}

func NewGameFinished(s engine.Standings, d time.Duration) GameFinished {
	results := make([]Result, 0, len(s.Results))
	for _, r := range s.Results {
		results = append(results, Result{ID: r.ID, Name: r.DisplayName, WPM: r.WPM, Progress: r.Progress})
	}
	return GameFinished{
		Type:     TypeGameFinished,
		Results:  results,
		Duration: d.Milliseconds(),
		Tie:      s.Tie,
		Winner:   s.Winner,
	}
}
