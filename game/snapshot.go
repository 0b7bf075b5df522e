package game

import (
	"color-engine/dto"
	"color-engine/entities"
)

// Snapshot builds the broadcast payload for a state. Every response path uses it.
func Snapshot(state *entities.GameState) dto.TableSnapshot {
	snap := dto.TableSnapshot{
		RoomCode:    state.RoomCode,
		Status:      string(state.Status),
		ActiveColor: string(state.ActiveColor),
		Market:      dto.NewCardViews(state.Market),
		Players:     make([]dto.PlayerSummary, 0, len(state.Players)),
		RoundNumber: state.RoundNumber,
		DeckCount:   len(state.Deck),
		Winner:      state.Winner,
	}
	if current := state.CurrentPlayer(); current != nil {
		snap.CurrentPlayer = current.Name
	}
	for _, p := range state.Players {
		snap.Players = append(snap.Players, dto.PlayerSummary{
			Name:              p.Name,
			Coins:             p.Coins,
			Inventory:         dto.NewCardViews(p.Inventory),
			HasBoughtThisTurn: p.HasBoughtThisTurn,
		})
	}
	return snap
}
