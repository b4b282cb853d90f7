// Package game derives what the arena widgets show from tournament state and
// the local session. Nothing here owns state.
package game

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/njprem/DiceArena_BackEnd/internal/domain"
)

// DiceRolls maps a participant wallet to the value it rolled.
type DiceRolls map[string]int

func (r DiceRolls) HasRolled(wallet string) bool {
	_, ok := r[wallet]
	return ok
}

// DiceRollsFromRecord reads the diceRolls field of a tournament. Values that
// are not whole numbers are skipped.
func DiceRollsFromRecord(t domain.Tournament) DiceRolls {
	rolls := DiceRolls{}
	raw, ok := t[domain.TournamentFieldDiceRolls].(map[string]any)
	if !ok {
		return rolls
	}
	for wallet, value := range raw {
		if n, ok := wholeNumber(value); ok {
			rolls[wallet] = n
		}
	}
	return rolls
}

func wholeNumber(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

type RollButtonState struct {
	Disabled bool
	Label    string
}

// RollButton decides whether the local player may roll. rolling is true while
// a roll is in flight.
func RollButton(rolls DiceRolls, wallet string, sessionValid, rolling bool) RollButtonState {
	wallet = strings.TrimSpace(wallet)
	switch {
	case wallet == "":
		return RollButtonState{Disabled: true, Label: "Connect wallet"}
	case !sessionValid:
		return RollButtonState{Disabled: true, Label: "Sign in to roll"}
	case rolls.HasRolled(wallet):
		return RollButtonState{Disabled: true, Label: "Rolled"}
	case rolling:
		return RollButtonState{Disabled: true, Label: "Rolling..."}
	default:
		return RollButtonState{Label: "Roll dice"}
	}
}
