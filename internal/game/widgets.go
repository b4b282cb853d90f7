package game

import (
	"math"
	"strings"

	"github.com/njprem/DiceArena_BackEnd/internal/domain"
)

type ProgressBar struct {
	Percent  float64
	Complete bool
}

// Progress clamps to 0..100. A non-positive target counts as complete; a NaN
// on either side reads as no progress.
func Progress(current, target float64) ProgressBar {
	if math.IsNaN(current) || math.IsNaN(target) {
		return ProgressBar{}
	}
	if target <= 0 {
		return ProgressBar{Percent: 100, Complete: true}
	}
	pct := current / target * 100
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return ProgressBar{Percent: pct, Complete: current >= target}
}

// RollProgress measures rolls against the tournament's maxPlayers. ok is false
// when the tournament has no whole-number maxPlayers.
func RollProgress(t domain.Tournament, rolls DiceRolls) (bar ProgressBar, target int, ok bool) {
	target, ok = wholeNumber(t[domain.TournamentFieldMaxPlayers])
	if !ok {
		return ProgressBar{}, 0, false
	}
	return Progress(float64(len(rolls)), float64(target)), target, true
}

type AbilityItem struct {
	Ability     string
	Highlighted bool
}

func AbilityList(abilities []string, selected string) []AbilityItem {
	items := make([]AbilityItem, 0, len(abilities))
	for _, ability := range abilities {
		items = append(items, AbilityItem{Ability: ability, Highlighted: selected != "" && ability == selected})
	}
	return items
}

// AbilitiesFromRecord reads the abilities field. Blank and non-string entries
// are skipped.
func AbilitiesFromRecord(t domain.Tournament) []string {
	var out []string
	switch raw := t[domain.TournamentFieldAbilities].(type) {
	case []string:
		for _, a := range raw {
			if strings.TrimSpace(a) != "" {
				out = append(out, a)
			}
		}
	case []any:
		for _, v := range raw {
			if a, ok := v.(string); ok && strings.TrimSpace(a) != "" {
				out = append(out, a)
			}
		}
	}
	return out
}
