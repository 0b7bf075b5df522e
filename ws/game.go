package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"color-engine/dto"
	"color-engine/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

var errUnknownMessage = errors.New("unknown message type")

type messageHandler func(h *Hub, conn dto.ConnInterface, roomID, playerID string, msgMap map[string]interface{}) error

var messageHandlers = map[string]messageHandler{
	"init_view":     handleInitView,
	"start_game":    handleStartGame,
	"buy_card":      handleBuyCard,
	"activate_card": handleActivateCard,
	"end_turn":      handleEndTurn,
	"get_log":       handleGetLog,
}

// stringToIntHookFunc lets clients send numbers as strings.
func stringToIntHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Kind, to reflect.Kind, data interface{}) (interface{}, error) {
		if from == reflect.String && to == reflect.Int {
			return strconv.Atoi(data.(string))
		}
		return data, nil
	}
}

func decodePayload(msgMap map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: stringToIntHookFunc(),
		Result:     out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(msgMap)
}

func handleInitView(h *Hub, conn dto.ConnInterface, roomID, playerID string, _ map[string]interface{}) error {
	if snap, ok := h.svc.GetTableSnapshot(roomID); ok {
		h.send(roomID, conn, MsgUpdateTable, snap)
		return nil
	}
	h.send(roomID, conn, MsgPlayerList, h.playerList(roomID))
	return nil
}

func handleStartGame(h *Hub, _ dto.ConnInterface, roomID, playerID string, _ map[string]interface{}) error {
	if _, err := h.svc.StartGame(context.Background(), roomID, playerID); err != nil {
		return err
	}
	h.BroadcastPlayerList(roomID)
	h.BroadcastTable(roomID)
	return nil
}

func handleBuyCard(h *Hub, _ dto.ConnInterface, roomID, playerID string, msgMap map[string]interface{}) error {
	var req dto.CardRequest
	if err := decodePayload(msgMap, &req); err != nil {
		return err
	}
	if _, err := h.svc.BuyCard(context.Background(), roomID, playerID, req.CardID); err != nil {
		return err
	}
	h.BroadcastTable(roomID)
	return nil
}

func handleActivateCard(h *Hub, _ dto.ConnInterface, roomID, playerID string, msgMap map[string]interface{}) error {
	var req dto.CardRequest
	if err := decodePayload(msgMap, &req); err != nil {
		return err
	}
	resp, err := h.svc.ActivateCard(context.Background(), roomID, playerID, req.CardID)
	if err != nil {
		return err
	}
	for _, entry := range resp.Logs {
		h.Broadcast(roomID, MsgShowMessage, entry)
	}
	h.BroadcastTable(roomID)
	if resp.Winner != "" {
		h.Broadcast(roomID, MsgGameOver, gin.H{"winner": resp.Winner})
	}
	return nil
}

func handleEndTurn(h *Hub, _ dto.ConnInterface, roomID, playerID string, _ map[string]interface{}) error {
	if _, err := h.svc.EndTurn(context.Background(), roomID, playerID); err != nil {
		return err
	}
	h.BroadcastTable(roomID)
	return nil
}

func handleGetLog(h *Hub, conn dto.ConnInterface, roomID, _ string, msgMap map[string]interface{}) error {
	var req dto.LogRequest
	if err := decodePayload(msgMap, &req); err != nil {
		return err
	}
	entries, err := h.svc.GameLog(context.Background(), roomID)
	if err != nil {
		return err
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
	if req.Offset > len(entries) {
		req.Offset = len(entries)
	}
	h.send(roomID, conn, MsgGameLog, gin.H{"offset": req.Offset, "entries": entries[req.Offset:]})
	return nil
}

// Dispatch handles one raw client message. Rejections go back to conn only; the rest
// of the room sees nothing.
func (h *Hub) Dispatch(conn dto.ConnInterface, roomID, playerID string, raw []byte) {
	msgMap := make(map[string]interface{})
	if err := json.Unmarshal(raw, &msgMap); err != nil {
		h.logger.Debug("bad message", zap.String("room", roomID), zap.String("player", playerID), zap.Error(err))
		h.sendError(roomID, conn, err)
		return
	}
	msgType, _ := msgMap["type"].(string)
	handler, found := messageHandlers[msgType]
	if !found {
		h.logger.Debug("unknown message type", zap.String("room", roomID), zap.String("type", msgType))
		h.sendError(roomID, conn, errUnknownMessage)
		return
	}
	if err := handler(h, conn, roomID, playerID, msgMap); err != nil {
		h.sendError(roomID, conn, err)
	}
}

// Connect associates a freshly authenticated connection and tells the room.
func (h *Hub) Connect(roomID, playerID string, conn dto.ConnInterface) {
	h.Attach(roomID, playerID, conn)
	h.BroadcastPlayerList(roomID)
	if snap, ok := h.svc.GetTableSnapshot(roomID); ok {
		h.send(roomID, conn, MsgUpdateTable, snap)
	}
}

// Disconnect flips the association offline. The player keeps its seat and state.
func (h *Hub) Disconnect(roomID, playerID string, conn dto.ConnInterface) {
	if !h.Detach(roomID, playerID, conn) {
		return
	}
	h.logger.Info("player disconnected", zap.String("room", roomID), zap.String("player", playerID))
	h.Broadcast(roomID, MsgPlayerDisconnected, gin.H{"playerId": playerID})
	h.BroadcastPlayerList(roomID)
}

func (h *Hub) listen(conn *websocket.Conn, pc dto.ConnInterface, roomID, playerID string) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Info("read failed", zap.String("room", roomID), zap.String("player", playerID), zap.Error(err))
			}
			return
		}
		h.Dispatch(pc, roomID, playerID, msg)
	}
}

// HandleWebSocket upgrades /ws?roomID=..&token=.. for a player already on the room's roster.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	roomID := c.Query("roomID")
	tokenStr := c.Query("token")
	if roomID == "" || tokenStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status_code": http.StatusBadRequest, "msg": "roomID and token are required"})
		return
	}
	claims, err := h.tokens.Parse(tokenStr)
	if err != nil || claims.RoomCode != roomID {
		c.JSON(http.StatusUnauthorized, gin.H{"status_code": http.StatusUnauthorized, "msg": "invalid token"})
		return
	}
	if !h.svc.IsMember(roomID, claims.PlayerName) {
		c.JSON(http.StatusNotFound, gin.H{"status_code": http.StatusNotFound, "msg": service.ErrNotInRoom.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	pc := &dto.RealConn{Conn: conn}
	h.Connect(roomID, claims.PlayerName, pc)
	defer h.Disconnect(roomID, claims.PlayerName, pc)

	h.listen(conn, pc, roomID, claims.PlayerName)
}
