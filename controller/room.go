package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"color-engine/dto"
	"color-engine/entities"
	"color-engine/game"
	"color-engine/middleware"
	"color-engine/service"
	"color-engine/utils"
	"color-engine/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoomController serves the HTTP side of rooms. Live play goes over the websocket hub.
type RoomController struct {
	svc    *service.Service
	hub    *ws.Hub
	tokens *utils.Tokens
	logger *zap.Logger
}

func NewRoomController(svc *service.Service, hub *ws.Hub, tokens *utils.Tokens, logger *zap.Logger) *RoomController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomController{svc: svc, hub: hub, tokens: tokens, logger: logger}
}

// statusFor maps a rejection to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidName), errors.Is(err, service.ErrInvalidRoomCode):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotHost), errors.Is(err, game.ErrNotYourTurn):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNameTaken),
		errors.Is(err, service.ErrRoomFull),
		errors.Is(err, service.ErrGameStarted),
		errors.Is(err, service.ErrAlreadyActive),
		errors.Is(err, service.ErrNotEnoughPlayers):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"status_code": status,
		"msg":         msg,
	})
}

func success(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"status_code": http.StatusOK,
		"msg":         msg,
		"data":        data,
	})
}

func (rc *RoomController) roomView(info entities.RoomInfo) dto.RoomInfo {
	online := make(map[string]bool)
	for _, p := range rc.hub.Presence(info.RoomCode) {
		online[p.PlayerID] = p.Online
	}
	players := make([]dto.RoomPlayer, 0, len(info.Players))
	for _, name := range info.Players {
		players = append(players, dto.RoomPlayer{PlayerID: name, Online: online[name]})
	}
	return dto.RoomInfo{
		RoomID:     info.RoomCode,
		Host:       info.Host,
		MaxPlayers: info.MaxPlayers,
		Status:     string(info.Status),
		RoomPlayer: players,
		CreatedAt:  info.CreatedAt,
	}
}

// claimsFor returns the caller's claims if they were issued for roomID.
func claimsFor(c *gin.Context, roomID string) (*utils.Claims, bool) {
	claims, found := middleware.GetClaims(c)
	if !found || claims.RoomCode != roomID {
		fail(c, http.StatusForbidden, "token does not belong to this room")
		return nil, false
	}
	return claims, true
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "playerName is required")
		return
	}

	name := strings.TrimSpace(req.PlayerName)
	roomID, err := rc.svc.CreateRoom(c.Request.Context(), name)
	if err != nil {
		fail(c, statusFor(err), err.Error())
		return
	}
	token, err := rc.tokens.Generate(roomID, name)
	if err != nil {
		rc.logger.Error("failed to sign token", zap.String("room", roomID), zap.Error(err))
		fail(c, http.StatusInternalServerError, "failed to issue token")
		return
	}

	success(c, "room created", dto.CreateRoomResponse{RoomID: roomID, Token: token})
}

func (rc *RoomController) JoinRoom(c *gin.Context) {
	roomID := c.Param("roomID")
	var req dto.JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "playerName is required")
		return
	}

	name := strings.TrimSpace(req.PlayerName)
	players, err := rc.svc.JoinRoom(c.Request.Context(), roomID, name)
	if err != nil {
		fail(c, statusFor(err), err.Error())
		return
	}
	token, err := rc.tokens.Generate(roomID, name)
	if err != nil {
		rc.logger.Error("failed to sign token", zap.String("room", roomID), zap.Error(err))
		fail(c, http.StatusInternalServerError, "failed to issue token")
		return
	}
	rc.hub.BroadcastPlayerList(roomID)

	success(c, "joined", dto.JoinRoomResponse{RoomID: roomID, Token: token, Players: players})
}

func (rc *RoomController) StartGame(c *gin.Context) {
	roomID := c.Param("roomID")
	claims, found := claimsFor(c, roomID)
	if !found {
		return
	}

	snap, err := rc.svc.StartGame(c.Request.Context(), roomID, claims.PlayerName)
	if err != nil {
		fail(c, statusFor(err), err.Error())
		return
	}
	rc.hub.BroadcastPlayerList(roomID)
	rc.hub.BroadcastTable(roomID)

	success(c, "game started", snap)
}

func (rc *RoomController) GetRoomList(c *gin.Context) {
	infos := rc.svc.ListRooms()
	rooms := make([]dto.RoomInfo, 0, len(infos))
	for _, info := range infos {
		rooms = append(rooms, rc.roomView(info))
	}
	success(c, "ok", dto.GetRoomList{Rooms: rooms})
}

func (rc *RoomController) GetRoomInfo(c *gin.Context) {
	roomID := c.Param("roomID")
	info, err := rc.svc.GetRoom(roomID)
	if err != nil {
		fail(c, statusFor(err), err.Error())
		return
	}
	data := gin.H{"room": rc.roomView(info)}
	if snap, started := rc.svc.GetTableSnapshot(roomID); started {
		data["table"] = snap
	}
	success(c, "ok", data)
}

// DeleteRoom tears a room down. Only its host may do so.
func (rc *RoomController) DeleteRoom(c *gin.Context) {
	roomID := c.Param("roomID")
	claims, found := claimsFor(c, roomID)
	if !found {
		return
	}
	info, err := rc.svc.GetRoom(roomID)
	if err != nil {
		fail(c, statusFor(err), err.Error())
		return
	}
	if !strings.EqualFold(info.Host, claims.PlayerName) {
		fail(c, http.StatusForbidden, service.ErrNotHost.Error())
		return
	}
	if err := rc.svc.DeleteRoom(c.Request.Context(), roomID); err != nil {
		fail(c, statusFor(err), err.Error())
		return
	}
	rc.hub.CloseRoom(roomID)

	success(c, "room deleted", nil)
}

// GetGameLog returns the room's effect log; ?limit=N keeps only the last N entries.
func (rc *RoomController) GetGameLog(c *gin.Context) {
	roomID := c.Param("roomID")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		fail(c, http.StatusBadRequest, "limit must be a number")
		return
	}
	entries, err := rc.svc.GameLog(c.Request.Context(), roomID)
	if err != nil {
		fail(c, statusFor(err), err.Error())
		return
	}
	success(c, "ok", gin.H{"entries": utils.Tail(entries, limit)})
}

func (rc *RoomController) GetOnlinePlayer(c *gin.Context) {
	success(c, "ok", gin.H{"online": rc.hub.OnlineCount()})
}
