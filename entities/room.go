package entities

import "time"

type RoomStatus string

const (
	RoomStatusWaiting  RoomStatus = "waiting"  // lobby, players may join
	RoomStatusPlaying  RoomStatus = "playing"  // GameState exists
	RoomStatusFinished RoomStatus = "finished" // someone reached the win target
)

// RoomInfo is the room metadata mirrored to the room store.
type RoomInfo struct {
	RoomCode   string     `json:"roomCode"`
	Status     RoomStatus `json:"status"`
	MaxPlayers int        `json:"maxPlayers"`
	Host       string     `json:"host"`
	Players    []string   `json:"players"`
	Winner     string     `json:"winner,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// LogKind tags a game message for the client (matches the colour it is shown in).
type LogKind string

const (
	LogKindInfo      LogKind = "info"
	LogKindGold      LogKind = "gold"
	LogKindImportant LogKind = "important"
)

// LogEntry is one human-readable line produced by a game operation.
type LogEntry struct {
	Message string  `json:"message"`
	Kind    LogKind `json:"kind"`
}

// GameResult is written once per finished game.
type GameResult struct {
	RoomCode   string
	Winner     string
	Rounds     int
	Players    []string
	FinishedAt time.Time
}
