package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"color-engine/config"
	"color-engine/dto"
	"color-engine/entities"
	"color-engine/game"
	"color-engine/repository"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

var (
	ErrInvalidRoomCode  = errors.New("room code is required")
	ErrInvalidName      = errors.New("player name is required")
	ErrNameTaken        = errors.New("player name already taken")
	ErrRoomFull         = errors.New("room is full")
	ErrGameStarted      = errors.New("game already started")
	ErrNotHost          = errors.New("only the host can start the game")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrNotInRoom        = errors.New("player is not in this room")
)

const storeTimeout = 3 * time.Second

// Service is the entry point for every room and game operation. Each call runs under
// the room's lock; the stores are written after the lock is released.
type Service struct {
	registry *Registry
	settings config.GameSettings
	cards    []entities.CardDefinition
	rooms    repository.RoomStore
	results  repository.ResultStore
	logger   *zap.Logger

	seedMu sync.Mutex
	seeds  *rand.Rand
}

type Options struct {
	// Seed fixes every room's randomness. Zero seeds from the clock.
	Seed    uint64
	Rooms   repository.RoomStore
	Results repository.ResultStore
	Logger  *zap.Logger
}

func NewService(settings config.GameSettings, cards []entities.CardDefinition, opts Options) *Service {
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rooms := opts.Rooms
	if rooms == nil {
		rooms = repository.NewMemoryStore()
	}

	s := &Service{
		settings: settings,
		cards:    cards,
		rooms:    rooms,
		results:  opts.Results,
		logger:   logger,
		seeds:    rand.New(rand.NewSource(seed)),
	}
	s.registry = NewRegistry(settings.MaxPlayersCount, s.newEngine)
	return s
}

// newEngine gives each room its own rng so rooms never share one.
func (s *Service) newEngine() *game.Engine {
	s.seedMu.Lock()
	seed := s.seeds.Uint64()
	s.seedMu.Unlock()
	return game.NewEngine(s.settings, rand.New(rand.NewSource(seed)), s.logger)
}

func (s *Service) Registry() *Registry {
	return s.registry
}

// CreateRoom opens a lobby with host as its first player.
func (s *Service) CreateRoom(ctx context.Context, host string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", ErrInvalidName
	}

	var code string
	for {
		code = NewRoomCode()
		err := s.registry.CreateRoom(code)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrRoomExists) {
			return "", err
		}
	}
	s.registry.AddPendingPlayer(code, host)

	s.logger.Info("room created", zap.String("room", code), zap.String("host", host))
	s.mirrorRoom(ctx, code)
	return code, nil
}

// JoinRoom adds name to the lobby and returns the roster.
func (s *Service) JoinRoom(ctx context.Context, code, name string) ([]string, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, ErrInvalidRoomCode
	}
	if name == "" {
		return nil, ErrInvalidName
	}

	if !s.registry.AddPendingPlayer(code, name) {
		err := s.joinRejection(code)
		s.logger.Debug("join rejected", zap.String("room", code), zap.String("player", name), zap.Error(err))
		return nil, err
	}
	roster := s.registry.ListPlayers(code)

	s.logger.Info("player joined", zap.String("room", code), zap.String("player", name))
	s.mirrorRoom(ctx, code)
	return roster, nil
}

// IsMember reports whether name is on the room's roster.
func (s *Service) IsMember(code, name string) bool {
	member := false
	_ = s.registry.WithRoom(code, func(r *Room) error {
		member = r.hasPlayer(name)
		return nil
	})
	return member
}

// StartGame starts the room's game. Only the host may start it, and only with at least
// MinPlayersCount players. An empty actor skips the host check.
func (s *Service) StartGame(ctx context.Context, code, actor string) (dto.TableSnapshot, error) {
	snap, err := s.startGame(code, actor)
	if err != nil {
		s.logger.Debug("start rejected", zap.String("room", code), zap.String("actor", actor), zap.Error(err))
		return dto.TableSnapshot{}, err
	}

	s.logger.Info("game started", zap.String("room", code), zap.Strings("players", playerNames(snap)))
	s.mirrorRoom(ctx, code)
	return snap, nil
}

// joinRejection explains why AddPendingPlayer turned a name away. An open lobby with
// a free seat can only have refused a taken name.
func (s *Service) joinRejection(code string) error {
	info, err := s.GetRoom(code)
	switch {
	case err != nil:
		return err
	case info.Status != entities.RoomStatusWaiting:
		return ErrGameStarted
	case !s.registry.IsJoinable(code):
		return ErrRoomFull
	}
	return ErrNameTaken
}

// startGame checks the host and the player count, then hands the roster to the registry.
// Neither can change once set, so checking them before the registry call is safe.
func (s *Service) startGame(code, actor string) (dto.TableSnapshot, error) {
	if _, active := s.registry.GetGameState(code); active {
		return dto.TableSnapshot{}, ErrAlreadyActive
	}
	info, err := s.GetRoom(code)
	if err != nil {
		return dto.TableSnapshot{}, err
	}
	if actor != "" && !strings.EqualFold(actor, info.Host) {
		return dto.TableSnapshot{}, ErrNotHost
	}
	if len(info.Players) < s.settings.MinPlayersCount {
		return dto.TableSnapshot{}, ErrNotEnoughPlayers
	}
	if _, err := s.registry.StartGame(code, s.cards); err != nil {
		return dto.TableSnapshot{}, err
	}
	snap, ok := s.GetTableSnapshot(code)
	if !ok {
		return dto.TableSnapshot{}, ErrRoomNotFound
	}
	return snap, nil
}

// GetTableSnapshot returns the current table, or false if no game is running in the room.
func (s *Service) GetTableSnapshot(code string) (dto.TableSnapshot, bool) {
	var snap dto.TableSnapshot
	ok := false
	_ = s.registry.WithRoom(code, func(r *Room) error {
		if r.State != nil {
			snap = game.Snapshot(r.State)
			ok = true
		}
		return nil
	})
	return snap, ok
}

// withGame runs fn on the room's game after checking that actor holds the turn.
func (s *Service) withGame(code, actor string, fn func(r *Room) error) error {
	return s.registry.WithRoom(code, func(r *Room) error {
		if r.State == nil {
			return ErrGameNotStarted
		}
		if err := r.engine.CheckTurn(r.State, actor); err != nil {
			return err
		}
		if err := fn(r); err != nil {
			return err
		}
		r.UpdatedAt = time.Now()
		return nil
	})
}

func (s *Service) BuyCard(ctx context.Context, code, actor, cardID string) (dto.TableSnapshot, error) {
	var snap dto.TableSnapshot
	err := s.withGame(code, actor, func(r *Room) error {
		if err := r.engine.BuyCard(r.State, cardID); err != nil {
			return err
		}
		snap = game.Snapshot(r.State)
		return nil
	})
	if err != nil {
		s.logger.Debug("buy rejected", zap.String("room", code), zap.String("actor", actor), zap.String("card", cardID), zap.Error(err))
		return dto.TableSnapshot{}, err
	}
	return snap, nil
}

// ActivateCard runs a card's effect. A non-empty Winner in the response means the
// activation ended the game.
func (s *Service) ActivateCard(ctx context.Context, code, actor, cardID string) (dto.ActivateResponse, error) {
	var (
		resp   dto.ActivateResponse
		result *entities.GameResult
	)
	err := s.withGame(code, actor, func(r *Room) error {
		res, err := r.engine.ActivateCard(r.State, cardID)
		if err != nil {
			return err
		}
		if res.Winner != "" {
			r.Status = entities.RoomStatusFinished
			result = &entities.GameResult{
				RoomCode:   r.Code,
				Winner:     res.Winner,
				Rounds:     r.State.RoundNumber,
				Players:    append([]string(nil), r.State.TurnOrder...),
				FinishedAt: time.Now(),
			}
		}
		resp = dto.ActivateResponse{
			Snapshot: game.Snapshot(r.State),
			Logs:     res.Logs,
			Winner:   res.Winner,
		}
		return nil
	})
	if err != nil {
		s.logger.Debug("activate rejected", zap.String("room", code), zap.String("actor", actor), zap.String("card", cardID), zap.Error(err))
		return dto.ActivateResponse{}, err
	}

	s.appendLog(ctx, code, resp.Logs)
	if result != nil {
		s.recordResult(ctx, *result)
		s.mirrorRoom(ctx, code)
	}
	return resp, nil
}

func (s *Service) EndTurn(ctx context.Context, code, actor string) (dto.TableSnapshot, error) {
	var snap dto.TableSnapshot
	err := s.withGame(code, actor, func(r *Room) error {
		if err := r.engine.EndTurn(r.State); err != nil {
			return err
		}
		snap = game.Snapshot(r.State)
		return nil
	})
	if err != nil {
		s.logger.Debug("end turn rejected", zap.String("room", code), zap.String("actor", actor), zap.Error(err))
		return dto.TableSnapshot{}, err
	}
	return snap, nil
}

// ListRooms returns the metadata of every room.
func (s *Service) ListRooms() []entities.RoomInfo {
	return s.registry.Infos()
}

func (s *Service) GetRoom(code string) (entities.RoomInfo, error) {
	var info entities.RoomInfo
	err := s.registry.WithRoom(code, func(r *Room) error {
		info = r.info(s.registry.MaxPlayers())
		return nil
	})
	return info, err
}

// DeleteRoom drops the room and its mirrored keys.
func (s *Service) DeleteRoom(ctx context.Context, code string) error {
	if !s.registry.RemoveRoom(code) {
		return ErrRoomNotFound
	}
	if err := s.rooms.DeleteRoom(ctx, code); err != nil && !errors.Is(err, repository.ErrRoomNotFound) {
		s.logger.Warn("failed to delete room from store", zap.String("room", code), zap.Error(err))
	}
	s.logger.Info("room deleted", zap.String("room", code))
	return nil
}

// GameLog returns the effect log mirrored for the room.
func (s *Service) GameLog(ctx context.Context, code string) ([]entities.LogEntry, error) {
	if !s.registry.RoomExists(code) {
		return nil, ErrRoomNotFound
	}
	entries, err := s.rooms.GameLog(ctx, code)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []entities.LogEntry{}
	}
	return entries, nil
}

func (s *Service) mirrorRoom(ctx context.Context, code string) {
	info, err := s.GetRoom(code)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := s.rooms.SaveRoomInfo(ctx, info); err != nil {
		s.logger.Warn("failed to mirror room info", zap.String("room", code), zap.Error(err))
	}
}

func (s *Service) appendLog(ctx context.Context, code string, entries []entities.LogEntry) {
	if len(entries) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := s.rooms.AppendGameLog(ctx, code, entries); err != nil {
		s.logger.Warn("failed to append game log", zap.String("room", code), zap.Error(err))
	}
}

func (s *Service) recordResult(ctx context.Context, result entities.GameResult) {
	s.logger.Info("game over",
		zap.String("room", result.RoomCode),
		zap.String("winner", result.Winner),
		zap.Int("rounds", result.Rounds),
	)
	if s.results == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := s.results.SaveResult(ctx, result); err != nil {
		s.logger.Warn("failed to save game result", zap.String("room", result.RoomCode), zap.Error(err))
	}
}

func playerNames(snap dto.TableSnapshot) []string {
	names := make([]string, 0, len(snap.Players))
	for _, p := range snap.Players {
		names = append(names, p.Name)
	}
	return names
}
