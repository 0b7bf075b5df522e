package repository

import (
	"context"
	"sync"

	"color-engine/entities"
)

// MemoryStore implements RoomStore and ResultStore in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	rooms   map[string]entities.RoomInfo
	logs    map[string][]entities.LogEntry
	results []entities.GameResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: make(map[string]entities.RoomInfo),
		logs:  make(map[string][]entities.LogEntry),
	}
}

func (m *MemoryStore) SaveRoomInfo(_ context.Context, info entities.RoomInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	info.Players = append([]string(nil), info.Players...)
	m.rooms[info.RoomCode] = info
	return nil
}

func (m *MemoryStore) GetRoomInfo(_ context.Context, roomCode string) (*entities.RoomInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.rooms[roomCode]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return &info, nil
}

func (m *MemoryStore) DeleteRoom(_ context.Context, roomCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[roomCode]; !ok {
		return ErrRoomNotFound
	}
	delete(m.rooms, roomCode)
	delete(m.logs, roomCode)
	return nil
}

func (m *MemoryStore) AppendGameLog(_ context.Context, roomCode string, entries []entities.LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs[roomCode] = append(m.logs[roomCode], entries...)
	return nil
}

func (m *MemoryStore) GameLog(_ context.Context, roomCode string) ([]entities.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.LogEntry(nil), m.logs[roomCode]...), nil
}

func (m *MemoryStore) SaveResult(_ context.Context, result entities.GameResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
	return nil
}

// Results returns every recorded result, oldest first.
func (m *MemoryStore) Results() []entities.GameResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.GameResult(nil), m.results...)
}
