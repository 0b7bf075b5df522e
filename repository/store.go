package repository

import (
	"context"
	"errors"

	"color-engine/entities"
)

var ErrRoomNotFound = errors.New("room not found in store")

// RoomStore mirrors room metadata and the per-room game log. Game state itself is
// never stored; it lives in memory for the life of the room.
type RoomStore interface {
	SaveRoomInfo(ctx context.Context, info entities.RoomInfo) error
	GetRoomInfo(ctx context.Context, roomCode string) (*entities.RoomInfo, error)
	DeleteRoom(ctx context.Context, roomCode string) error
	AppendGameLog(ctx context.Context, roomCode string, entries []entities.LogEntry) error
	GameLog(ctx context.Context, roomCode string) ([]entities.LogEntry, error)
}

// ResultStore records finished games.
type ResultStore interface {
	SaveResult(ctx context.Context, result entities.GameResult) error
}
