package service

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"color-engine/entities"
	"color-engine/game"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomExists     = errors.New("room already exists")
	ErrAlreadyActive  = errors.New("game already active")
	ErrGameNotStarted = errors.New("game not started")
)

// Room is one lobby or running game. Every field is guarded by mu.
type Room struct {
	mu sync.Mutex

	Code      string
	Status    entities.RoomStatus
	Host      string
	Pending   []string
	State     *entities.GameState
	CreatedAt time.Time
	UpdatedAt time.Time

	engine *game.Engine
}

func (r *Room) hasPlayer(name string) bool {
	for _, p := range r.Pending {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}

func (r *Room) info(maxPlayers int) entities.RoomInfo {
	info := entities.RoomInfo{
		RoomCode:   r.Code,
		Status:     r.Status,
		MaxPlayers: maxPlayers,
		Host:       r.Host,
		Players:    append([]string(nil), r.Pending...),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.State != nil {
		info.Winner = r.State.Winner
	}
	return info
}

// Registry owns every room. The map is guarded by an RWMutex; each room's contents by
// the room's own mutex, so operations on different rooms never wait on each other.
type Registry struct {
	mu         sync.RWMutex
	rooms      map[string]*Room
	maxPlayers int
	newEngine  func() *game.Engine
	now        func() time.Time
}

func NewRegistry(maxPlayers int, newEngine func() *game.Engine) *Registry {
	return &Registry{
		rooms:      make(map[string]*Room),
		maxPlayers: maxPlayers,
		newEngine:  newEngine,
		now:        time.Now,
	}
}

func (reg *Registry) MaxPlayers() int {
	return reg.maxPlayers
}

// CreateRoom registers an empty lobby.
func (reg *Registry) CreateRoom(code string) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.rooms[code]; ok {
		return ErrRoomExists
	}
	now := reg.now()
	reg.rooms[code] = &Room{
		Code:      code,
		Status:    entities.RoomStatusWaiting,
		Pending:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
		engine:    reg.newEngine(),
	}
	return nil
}

func (reg *Registry) RoomExists(code string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	_, ok := reg.rooms[code]
	return ok
}

func (reg *Registry) lookup(code string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[code]
	return r, ok
}

// WithRoom runs fn while holding the room's lock.
func (reg *Registry) WithRoom(code string, fn func(r *Room) error) error {
	room, ok := reg.lookup(code)
	if !ok {
		return ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	return fn(room)
}

// AddPendingPlayer adds a name to the lobby roster. It returns false when the name is
// taken (case-insensitive), the lobby is full, the game has started or the room is unknown.
func (reg *Registry) AddPendingPlayer(code, name string) bool {
	added := false
	_ = reg.WithRoom(code, func(r *Room) error {
		if r.Status != entities.RoomStatusWaiting || r.hasPlayer(name) || len(r.Pending) >= reg.maxPlayers {
			return nil
		}
		r.Pending = append(r.Pending, name)
		if r.Host == "" {
			r.Host = name
		}
		r.UpdatedAt = reg.now()
		added = true
		return nil
	})
	return added
}

// ListPlayers returns the roster in join order.
func (reg *Registry) ListPlayers(code string) []string {
	var names []string
	_ = reg.WithRoom(code, func(r *Room) error {
		names = append([]string{}, r.Pending...)
		return nil
	})
	return names
}

// IsJoinable reports whether the room exists, is still a lobby and has a free seat.
func (reg *Registry) IsJoinable(code string) bool {
	joinable := false
	_ = reg.WithRoom(code, func(r *Room) error {
		joinable = r.Status == entities.RoomStatusWaiting && len(r.Pending) < reg.maxPlayers
		return nil
	})
	return joinable
}

// StartGame freezes the roster into a new GameState. A room whose game already
// exists is rejected and keeps its game.
func (reg *Registry) StartGame(code string, cards []entities.CardDefinition) (*entities.GameState, error) {
	var state *entities.GameState
	err := reg.WithRoom(code, func(r *Room) error {
		var err error
		state, err = r.start(cards, reg.now())
		return err
	})
	return state, err
}

func (r *Room) start(cards []entities.CardDefinition, now time.Time) (*entities.GameState, error) {
	if r.State != nil || r.Status != entities.RoomStatusWaiting {
		return nil, ErrAlreadyActive
	}
	r.State = r.engine.InitializeGame(r.Code, append([]string(nil), r.Pending...), cards)
	r.Status = entities.RoomStatusPlaying
	r.UpdatedAt = now
	return r.State, nil
}

// GetGameState returns the room's game, or false if the room is unknown or still a lobby.
// The returned state must only be touched through WithRoom.
func (reg *Registry) GetGameState(code string) (*entities.GameState, bool) {
	var state *entities.GameState
	_ = reg.WithRoom(code, func(r *Room) error {
		state = r.State
		return nil
	})
	return state, state != nil
}

// RemoveRoom drops a room. It reports whether the room existed.
func (reg *Registry) RemoveRoom(code string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	_, ok := reg.rooms[code]
	delete(reg.rooms, code)
	return ok
}

// Infos snapshots the metadata of every room, ordered by creation time.
func (reg *Registry) Infos() []entities.RoomInfo {
	reg.mu.RLock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	reg.mu.RUnlock()

	infos := make([]entities.RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		r.mu.Lock()
		infos = append(infos, r.info(reg.maxPlayers))
		r.mu.Unlock()
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].RoomCode < infos[j].RoomCode
		}
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// Expired lists rooms to tear down: finished rooms untouched for finishedTTL and any
// other room untouched for idleTTL.
func (reg *Registry) Expired(now time.Time, idleTTL, finishedTTL time.Duration) []string {
	var codes []string
	for _, info := range reg.Infos() {
		age := now.Sub(info.UpdatedAt)
		if (info.Status == entities.RoomStatusFinished && age >= finishedTTL) || age >= idleTTL {
			codes = append(codes, info.RoomCode)
		}
	}
	return codes
}
