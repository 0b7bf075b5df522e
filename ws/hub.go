package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"color-engine/dto"
	"color-engine/service"
	"color-engine/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	MsgUpdateTable        = "update_table"
	MsgShowMessage        = "show_message"
	MsgGameOver           = "game_over"
	MsgPlayerList         = "player_list"
	MsgPlayerDisconnected = "player_disconnected"
	MsgGameLog            = "game_log"
	MsgError              = "error"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// roomConns holds the connections of one room. mu also serializes writes to them.
type roomConns struct {
	mu    sync.Mutex
	conns []*dto.PlayerConn
}

// Hub associates websocket connections with room players and fans results out to them.
// It never owns game state: every read goes through the service.
type Hub struct {
	svc    *service.Service
	tokens *utils.Tokens
	logger *zap.Logger

	mu    sync.Mutex
	rooms map[string]*roomConns
}

func NewHub(svc *service.Service, tokens *utils.Tokens, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		svc:    svc,
		tokens: tokens,
		logger: logger,
		rooms:  make(map[string]*roomConns),
	}
}

// room returns the room's connections. Only Attach creates an entry, so a closed
// room is not brought back by a late write or detach.
func (h *Hub) room(roomID string, create bool) (*roomConns, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rc, ok := h.rooms[roomID]
	if !ok && create {
		rc = &roomConns{}
		h.rooms[roomID] = rc
		ok = true
	}
	return rc, ok
}

// Attach associates conn with the player, swapping out any earlier connection.
func (h *Hub) Attach(roomID, playerID string, conn dto.ConnInterface) {
	rc, _ := h.room(roomID, true)
	rc.mu.Lock()
	defer rc.mu.Unlock()

	for _, pc := range rc.conns {
		if pc.PlayerID == playerID {
			if pc.Conn != nil && pc.Conn != conn {
				pc.Conn.Close()
			}
			pc.Conn = conn
			pc.Online = true
			h.logger.Info("player reconnected", zap.String("room", roomID), zap.String("player", playerID))
			return
		}
	}
	rc.conns = append(rc.conns, &dto.PlayerConn{PlayerID: playerID, Conn: conn, Online: true})
	h.logger.Info("player connected", zap.String("room", roomID), zap.String("player", playerID))
}

// Detach marks the player offline if conn is still its current connection. It
// reports whether the association changed.
func (h *Hub) Detach(roomID, playerID string, conn dto.ConnInterface) bool {
	rc, ok := h.room(roomID, false)
	if !ok {
		return false
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	for _, pc := range rc.conns {
		if pc.PlayerID == playerID && pc.Conn == conn {
			pc.Online = false
			pc.Conn = nil
			return true
		}
	}
	return false
}

// Presence lists each associated player with its online flag.
func (h *Hub) Presence(roomID string) []dto.RoomPlayer {
	rc, ok := h.room(roomID, false)
	if !ok {
		return []dto.RoomPlayer{}
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()
	players := make([]dto.RoomPlayer, 0, len(rc.conns))
	for _, pc := range rc.conns {
		players = append(players, dto.RoomPlayer{PlayerID: pc.PlayerID, Online: pc.Online})
	}
	return players
}

// OnlineCount counts online connections across every room.
func (h *Hub) OnlineCount() int {
	h.mu.Lock()
	codes := make([]string, 0, len(h.rooms))
	for code := range h.rooms {
		codes = append(codes, code)
	}
	h.mu.Unlock()

	count := 0
	for _, code := range codes {
		for _, p := range h.Presence(code) {
			if p.Online {
				count++
			}
		}
	}
	return count
}

// CloseRoom drops every connection of a removed room.
func (h *Hub) CloseRoom(roomID string) {
	h.mu.Lock()
	rc, ok := h.rooms[roomID]
	delete(h.rooms, roomID)
	h.mu.Unlock()
	if !ok {
		return
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()
	for _, pc := range rc.conns {
		if pc.Conn != nil {
			pc.Conn.Close()
		}
	}
	rc.conns = nil
}

func encode(msgType string, payload interface{}) []byte {
	data, _ := json.Marshal(dto.Message{Type: msgType, Payload: payload})
	return data
}

// send writes to one connection.
func (h *Hub) send(roomID string, conn dto.ConnInterface, msgType string, payload interface{}) {
	if rc, ok := h.room(roomID, false); ok {
		rc.mu.Lock()
		defer rc.mu.Unlock()
	}
	if err := conn.WriteMessage(websocket.TextMessage, encode(msgType, payload)); err != nil {
		h.logger.Debug("send failed", zap.String("room", roomID), zap.String("type", msgType), zap.Error(err))
	}
}

func (h *Hub) sendError(roomID string, conn dto.ConnInterface, err error) {
	h.send(roomID, conn, MsgError, gin.H{"message": err.Error()})
}

// broadcastLocked writes data to every online connection. A failed write closes the
// connection, which ends its read loop and detaches it; the player stays in the game.
func (h *Hub) broadcastLocked(roomID string, rc *roomConns, data []byte) {
	for _, pc := range rc.conns {
		if !pc.Online || pc.Conn == nil {
			continue
		}
		if err := pc.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Info("broadcast failed, marking offline",
				zap.String("room", roomID),
				zap.String("player", pc.PlayerID),
				zap.Error(err),
			)
			pc.Conn.Close()
			pc.Online = false
		}
	}
}

// Broadcast sends one message to every online player of the room.
func (h *Hub) Broadcast(roomID, msgType string, payload interface{}) {
	rc, ok := h.room(roomID, false)
	if !ok {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()
	h.broadcastLocked(roomID, rc, encode(msgType, payload))
}

// BroadcastTable sends the room's current snapshot. The snapshot is read while the
// room's connections are locked, so clients never see an older table after a newer one.
func (h *Hub) BroadcastTable(roomID string) {
	rc, ok := h.room(roomID, false)
	if !ok {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()
	snap, ok := h.svc.GetTableSnapshot(roomID)
	if !ok {
		return
	}
	h.broadcastLocked(roomID, rc, encode(MsgUpdateTable, snap))
}

// BroadcastPlayerList sends the lobby roster together with who is connected.
func (h *Hub) BroadcastPlayerList(roomID string) {
	h.Broadcast(roomID, MsgPlayerList, h.playerList(roomID))
}

func (h *Hub) playerList(roomID string) gin.H {
	online := make(map[string]bool)
	for _, p := range h.Presence(roomID) {
		online[p.PlayerID] = p.Online
	}
	roster := h.svc.Registry().ListPlayers(roomID)
	players := make([]dto.RoomPlayer, 0, len(roster))
	for _, name := range roster {
		players = append(players, dto.RoomPlayer{PlayerID: name, Online: online[name]})
	}
	info, _ := h.svc.GetRoom(roomID)
	return gin.H{"players": players, "host": info.Host, "status": info.Status}
}
