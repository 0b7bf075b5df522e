package entities

import (
	"fmt"
	"strings"
)

// GameStatus is the lifecycle stage of a started game.
type GameStatus string

const (
	GameStatusActive   GameStatus = "active"
	GameStatusFinished GameStatus = "finished"
)

// GameState is the aggregate root of one room's running game. It is not safe for
// concurrent use; callers serialize access per room.
type GameState struct {
	RoomCode         string
	Players          []*Player
	Market           []CardInstance
	Deck             []CardInstance
	TurnOrder        []string
	CurrentTurnIndex int
	ActiveColor      Color
	RoundNumber      int
	Status           GameStatus
	Winner           string
}

// Player looks a player up by name, case-insensitively.
func (s *GameState) Player(name string) *Player {
	for _, p := range s.Players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// CurrentPlayer is the player whose turn it is.
func (s *GameState) CurrentPlayer() *Player {
	if s.CurrentTurnIndex < 0 || s.CurrentTurnIndex >= len(s.TurnOrder) {
		return nil
	}
	return s.Player(s.TurnOrder[s.CurrentTurnIndex])
}

// Opponents returns every player except the given one, in join order.
func (s *GameState) Opponents(of *Player) []*Player {
	out := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		if p != of {
			out = append(out, p)
		}
	}
	return out
}

// ReplenishMarket moves cards from the deck head into the market until the market
// holds targetSize cards or the deck is empty. It returns how many cards moved.
func (s *GameState) ReplenishMarket(targetSize int) int {
	moved := 0
	for len(s.Market) < targetSize && len(s.Deck) > 0 {
		s.Market = append(s.Market, s.Deck[0])
		s.Deck = s.Deck[1:]
		moved++
	}
	return moved
}

func (s *GameState) TotalCoins() int {
	total := 0
	for _, p := range s.Players {
		total += p.Coins
	}
	return total
}

func (s *GameState) Finished() bool {
	return s.Status == GameStatusFinished
}

func (s *GameState) String() string {
	return fmt.Sprintf("Room: %s, Round: %d, Players: %d, ActiveColor: %s", s.RoomCode, s.RoundNumber, len(s.Players), s.ActiveColor)
}
