package dto

import (
	"time"

	"github.com/gorilla/websocket"
)

// DefaultWriteWait bounds a single write to a client.
const DefaultWriteWait = 5 * time.Second

// ConnInterface is the write side of a client connection. Tests substitute fakes.
type ConnInterface interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// RealConn wraps a websocket connection. Each write must finish within WriteWait.
type RealConn struct {
	*websocket.Conn
	WriteWait time.Duration
}

func (r *RealConn) WriteMessage(messageType int, data []byte) error {
	wait := r.WriteWait
	if wait <= 0 {
		wait = DefaultWriteWait
	}
	if err := r.Conn.SetWriteDeadline(time.Now().Add(wait)); err != nil {
		return err
	}
	return r.Conn.WriteMessage(messageType, data)
}

func (r *RealConn) Close() error {
	return r.Conn.Close()
}

// PlayerConn associates a player name with its current connection. It does not own
// the player: reconnecting swaps Conn and flips Online only.
type PlayerConn struct {
	PlayerID string
	Conn     ConnInterface
	Online   bool
}

// Message is the envelope of every websocket message in both directions.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// CardRequest is the payload of buy_card and activate_card.
type CardRequest struct {
	CardID string `mapstructure:"cardId"`
}

// LogRequest is the payload of get_log: entries before Offset are skipped.
type LogRequest struct {
	Offset int `mapstructure:"offset"`
}
