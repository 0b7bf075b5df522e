package dto

import "time"

type RoomInfo struct {
	RoomID     string       `json:"roomID"`
	Host       string       `json:"host"`
	MaxPlayers int          `json:"maxPlayers"`
	Status     string       `json:"status"`
	RoomPlayer []RoomPlayer `json:"roomPlayer"`
	CreatedAt  time.Time    `json:"createdAt"`
}

type RoomPlayer struct {
	PlayerID string `json:"playerID"`
	Online   bool   `json:"online"`
}

type CreateRoomRequest struct {
	PlayerName string `json:"playerName" binding:"required"`
}

type CreateRoomResponse struct {
	RoomID string `json:"roomID"`
	Token  string `json:"token"`
}

type JoinRoomRequest struct {
	PlayerName string `json:"playerName" binding:"required"`
}

type JoinRoomResponse struct {
	RoomID  string   `json:"roomID"`
	Token   string   `json:"token"`
	Players []string `json:"players"`
}

type GetRoomList struct {
	Rooms []RoomInfo `json:"rooms"`
}
