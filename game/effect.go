package game

import (
	"fmt"

	"color-engine/entities"

	"go.uber.org/zap"
)

// Execute applies a parsed effect for actor and returns the log lines it produced.
// Invalid effects and effects without eligible victims change nothing.
func (e *Engine) Execute(eff entities.Effect, actor *entities.Player, state *entities.GameState) []entities.LogEntry {
	var logs []entities.LogEntry
	switch eff.Kind {
	case entities.EffectGet:
		logs = e.applyGet(eff, actor)
	case entities.EffectGetAll:
		logs = e.applyGetAll(eff, state)
	case entities.EffectStealMoney:
		logs = e.applyStealMoney(eff, actor, state)
	case entities.EffectStealCard:
		logs = e.applyStealCard(eff, actor, state)
	case entities.EffectGetBy:
		logs = e.applyGetBy(eff, actor)
	default:
		return nil
	}

	e.logger.Debug("effect applied",
		zap.String("room", state.RoomCode),
		zap.String("player", actor.Name),
		zap.String("effect", eff.Script),
		zap.Int("messages", len(logs)),
	)
	return logs
}

// ExecuteScript parses and applies a raw script. Unknown commands and bad parameters
// are ignored without a log entry.
func (e *Engine) ExecuteScript(script string, actor *entities.Player, state *entities.GameState) []entities.LogEntry {
	eff, err := entities.ParseEffect(script)
	if err != nil {
		e.logger.Debug("effect script ignored", zap.String("effect", script), zap.Error(err))
		return nil
	}
	return e.Execute(eff, actor, state)
}

func (e *Engine) applyGet(eff entities.Effect, actor *entities.Player) []entities.LogEntry {
	actor.Coins += eff.Amount
	return []entities.LogEntry{gold(fmt.Sprintf("%s gained +%d coins from their holdings", actor.Name, eff.Amount))}
}

func (e *Engine) applyGetAll(eff entities.Effect, state *entities.GameState) []entities.LogEntry {
	for _, p := range state.Players {
		p.Coins += eff.Amount
	}
	return []entities.LogEntry{gold(fmt.Sprintf("A bountiful year! Every player gained %d coins", eff.Amount))}
}

func (e *Engine) applyStealMoney(eff entities.Effect, actor *entities.Player, state *entities.GameState) []entities.LogEntry {
	victims := e.selectVictims(state.Opponents(actor), eff.Mode)
	logs := make([]entities.LogEntry, 0, len(victims))
	for _, victim := range victims {
		stolen := min(victim.Coins, eff.Amount)
		victim.Coins -= stolen
		actor.Coins += stolen
		logs = append(logs, important(fmt.Sprintf("%s stole %d coins from %s", actor.Name, stolen, victim.Name)))
	}
	return logs
}

func (e *Engine) applyStealCard(eff entities.Effect, actor *entities.Player, state *entities.GameState) []entities.LogEntry {
	eligible := make([]*entities.Player, 0, len(state.Players))
	for _, p := range state.Opponents(actor) {
		if len(p.Inventory) > 0 {
			eligible = append(eligible, p)
		}
	}
	victims := e.selectVictims(eligible, eff.Mode)
	logs := make([]entities.LogEntry, 0, len(victims))
	for _, victim := range victims {
		var card entities.CardInstance
		victim.Inventory, card = entities.RemoveCardAt(victim.Inventory, e.rng.Intn(len(victim.Inventory)))
		actor.Inventory = append(actor.Inventory, card)
		logs = append(logs, important(fmt.Sprintf("%s seized '%s' from %s", actor.Name, card.Name, victim.Name)))
	}
	return logs
}

func (e *Engine) applyGetBy(eff entities.Effect, actor *entities.Player) []entities.LogEntry {
	earned := actor.CountByColor(eff.Color) * eff.Amount
	actor.Coins += earned
	return []entities.LogEntry{gold(fmt.Sprintf("%s earned %d coins from %s trade", actor.Name, earned, eff.Color))}
}

// selectVictims returns every candidate for ALL, or one uniformly chosen candidate for
// RANDOM. No candidates means no victims.
func (e *Engine) selectVictims(candidates []*entities.Player, mode entities.VictimMode) []*entities.Player {
	if len(candidates) == 0 {
		return nil
	}
	switch mode {
	case entities.VictimAll:
		return candidates
	case entities.VictimRandom:
		return []*entities.Player{candidates[e.rng.Intn(len(candidates))]}
	}
	return nil
}

func gold(msg string) entities.LogEntry {
	return entities.LogEntry{Message: msg, Kind: entities.LogKindGold}
}

func important(msg string) entities.LogEntry {
	return entities.LogEntry{Message: msg, Kind: entities.LogKindImportant}
}
