package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"color-engine/config"
	"color-engine/entities"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

var (
	ErrGameFinished      = errors.New("game already finished")
	ErrNoPlayers         = errors.New("game has no players")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrAlreadyBought     = errors.New("already bought a card this turn")
	ErrCardNotInMarket   = errors.New("card not in market")
	ErrInsufficientFunds = errors.New("not enough coins")
	ErrCardNotOwned      = errors.New("card not in player's inventory")
	ErrWrongColor        = errors.New("card color is not the active color")
	ErrCardUsed          = errors.New("card already used this round")
	ErrMalformedEffect   = errors.New("card effect is malformed")
)

// Engine applies the game rules to a GameState. It holds no per-room state; callers
// serialize access to each GameState.
type Engine struct {
	settings config.GameSettings
	rng      *rand.Rand
	logger   *zap.Logger
}

// NewEngine constructs an Engine with the provided rng or a time-seeded default.
func NewEngine(settings config.GameSettings, rng *rand.Rand, logger *zap.Logger) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{settings: settings, rng: rng, logger: logger}
}

// ActivationResult carries the effect log of an activation and, when the activation
// ended the game, the winner's name.
type ActivationResult struct {
	Logs   []entities.LogEntry
	Winner string
}

// InitializeGame creates the game for a frozen roster: random starting coins, turn
// order by ascending coins then name, a fresh deck and a filled market.
func (e *Engine) InitializeGame(roomCode string, names []string, cards []entities.CardDefinition) *entities.GameState {
	state := &entities.GameState{
		RoomCode:    roomCode,
		Players:     make([]*entities.Player, 0, len(names)),
		Market:      []entities.CardInstance{},
		RoundNumber: 1,
		Status:      entities.GameStatusActive,
	}
	for _, name := range names {
		state.Players = append(state.Players, &entities.Player{
			Name:      name,
			Coins:     e.settings.StartingCoins(e.rng),
			Inventory: []entities.CardInstance{},
		})
	}
	state.TurnOrder = turnOrder(state.Players)

	deckSize := e.settings.DeckSize
	if deckSize <= 0 {
		deckSize = config.DefaultDeckSize
	}
	state.Deck = BuildDeck(cards, deckSize, e.rng)
	state.ReplenishMarket(e.settings.MarketSize(len(state.Players)))
	state.ActiveColor = e.randomColor()

	e.logger.Info("game initialized",
		zap.String("room", roomCode),
		zap.Strings("turnOrder", state.TurnOrder),
		zap.String("activeColor", string(state.ActiveColor)),
		zap.Int("market", len(state.Market)),
		zap.Int("deck", len(state.Deck)),
	)
	return state
}

// turnOrder sorts by starting coins, poorer first, ties broken by name.
func turnOrder(players []*entities.Player) []string {
	sorted := make([]*entities.Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Coins != sorted[j].Coins {
			return sorted[i].Coins < sorted[j].Coins
		}
		return sorted[i].Name < sorted[j].Name
	})
	order := make([]string, 0, len(sorted))
	for _, p := range sorted {
		order = append(order, p.Name)
	}
	return order
}

// CheckTurn rejects an actor who is not the current player. An empty actor is treated
// as the current player.
func (e *Engine) CheckTurn(state *entities.GameState, actor string) error {
	if state.Finished() {
		return ErrGameFinished
	}
	current := state.CurrentPlayer()
	if current == nil {
		return ErrNoPlayers
	}
	if actor != "" && !strings.EqualFold(current.Name, actor) {
		return ErrNotYourTurn
	}
	return nil
}

// BuyCard moves a market card into the current player's inventory for its cost.
// The market slot is not refilled until the next round.
func (e *Engine) BuyCard(state *entities.GameState, cardID string) error {
	if err := e.CheckTurn(state, ""); err != nil {
		return err
	}
	player := state.CurrentPlayer()
	if player.HasBoughtThisTurn {
		return ErrAlreadyBought
	}
	idx := entities.FindCard(state.Market, cardID)
	if idx < 0 {
		return ErrCardNotInMarket
	}
	if !player.CanAfford(state.Market[idx].Cost) {
		return ErrInsufficientFunds
	}

	var card entities.CardInstance
	state.Market, card = entities.RemoveCardAt(state.Market, idx)
	player.Coins -= card.Cost
	player.Inventory = append(player.Inventory, card)
	player.HasBoughtThisTurn = true

	e.logger.Info("card bought",
		zap.String("room", state.RoomCode),
		zap.String("player", player.Name),
		zap.String("card", card.Name),
		zap.Int("cost", card.Cost),
	)
	return nil
}

// ActivateCard runs the effect of an unused, active-color card owned by the current
// player and marks it used. A malformed effect leaves the card unused. Reaching the
// win target finishes the game.
func (e *Engine) ActivateCard(state *entities.GameState, cardID string) (ActivationResult, error) {
	if err := e.CheckTurn(state, ""); err != nil {
		return ActivationResult{}, err
	}
	player := state.CurrentPlayer()
	idx := entities.FindCard(player.Inventory, cardID)
	if idx < 0 {
		return ActivationResult{}, ErrCardNotOwned
	}
	card := player.Inventory[idx]
	if card.Color != state.ActiveColor {
		return ActivationResult{}, ErrWrongColor
	}
	if card.IsUsed {
		return ActivationResult{}, ErrCardUsed
	}
	if !card.Program.Valid() {
		e.logger.Warn("malformed card effect",
			zap.String("room", state.RoomCode),
			zap.String("card", card.Name),
			zap.String("effect", card.Effect),
		)
		return ActivationResult{}, fmt.Errorf("%w: %q", ErrMalformedEffect, card.Effect)
	}

	logs := e.Execute(card.Program, player, state)

	// The effect may have reordered the actor's inventory (STEAL_CARD appends), so
	// look the card up again before flagging it.
	if i := entities.FindCard(player.Inventory, cardID); i >= 0 {
		player.Inventory[i].IsUsed = true
	}

	result := ActivationResult{Logs: logs}
	if player.HasWon(e.settings.WinTarget) {
		state.Status = entities.GameStatusFinished
		state.Winner = player.Name
		result.Winner = player.Name
		e.logger.Info("game won",
			zap.String("room", state.RoomCode),
			zap.String("winner", player.Name),
			zap.Int("coins", player.Coins),
			zap.Int("round", state.RoundNumber),
		)
	}
	return result, nil
}

// EndTurn passes the turn on, pays the new current player the daily income and, when
// the order wraps, starts a new round.
func (e *Engine) EndTurn(state *entities.GameState) error {
	if err := e.CheckTurn(state, ""); err != nil {
		return err
	}

	state.CurrentTurnIndex = (state.CurrentTurnIndex + 1) % len(state.TurnOrder)
	next := state.CurrentPlayer()
	next.Coins += e.settings.DailyIncome
	next.HasBoughtThisTurn = false

	if state.CurrentTurnIndex == 0 {
		e.startRound(state)
	}

	e.logger.Debug("turn passed",
		zap.String("room", state.RoomCode),
		zap.String("player", next.Name),
		zap.Int("round", state.RoundNumber),
	)
	return nil
}

func (e *Engine) startRound(state *entities.GameState) {
	state.RoundNumber++
	state.ActiveColor = e.randomColor()
	for _, p := range state.Players {
		p.ResetUsedCards()
	}
	moved := state.ReplenishMarket(e.settings.MarketSize(len(state.Players)))

	e.logger.Info("round started",
		zap.String("room", state.RoomCode),
		zap.Int("round", state.RoundNumber),
		zap.String("activeColor", string(state.ActiveColor)),
		zap.Int("replenished", moved),
		zap.Int("deck", len(state.Deck)),
	)
}

func (e *Engine) randomColor() entities.Color {
	return entities.Colors[e.rng.Intn(len(entities.Colors))]
}
