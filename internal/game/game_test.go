package game

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njprem/DiceArena_BackEnd/internal/domain"
)

func TestDiceRollsFromRecord(t *testing.T) {
	tournament := domain.NewTournament("t1", map[string]any{
		"diceRolls": map[string]any{
			"alice": int64(4),
			"bob":   float64(6),
			"carol": json.Number("2"),
			"dave":  2.5,
			"erin":  "six",
		},
	})

	rolls := DiceRollsFromRecord(tournament)
	assert.Equal(t, DiceRolls{"alice": 4, "bob": 6, "carol": 2}, rolls)
	assert.True(t, rolls.HasRolled("alice"))
	assert.False(t, rolls.HasRolled("dave"))
}

func TestDiceRollsFromRecordWithoutField(t *testing.T) {
	rolls := DiceRollsFromRecord(domain.NewTournament("t1", nil))
	require.NotNil(t, rolls)
	assert.Empty(t, rolls)
}

func TestHasRolledIsMembershipNotValue(t *testing.T) {
	rolls := DiceRolls{"zero": 0}
	assert.True(t, rolls.HasRolled("zero"))
}

func TestRollButton(t *testing.T) {
	rolls := DiceRolls{"rolled": 3}

	cases := []struct {
		name         string
		wallet       string
		sessionValid bool
		rolling      bool
		want         RollButtonState
	}{
		{name: "no wallet", wallet: "", sessionValid: true, want: RollButtonState{Disabled: true, Label: "Connect wallet"}},
		{name: "expired session", wallet: "fresh", sessionValid: false, want: RollButtonState{Disabled: true, Label: "Sign in to roll"}},
		{name: "already rolled", wallet: "rolled", sessionValid: true, want: RollButtonState{Disabled: true, Label: "Rolled"}},
		{name: "in flight", wallet: "fresh", sessionValid: true, rolling: true, want: RollButtonState{Disabled: true, Label: "Rolling..."}},
		{name: "ready", wallet: "fresh", sessionValid: true, want: RollButtonState{Label: "Roll dice"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RollButton(rolls, tc.wallet, tc.sessionValid, tc.rolling))
		})
	}
}

func TestProgress(t *testing.T) {
	assert.Equal(t, ProgressBar{Percent: 50}, Progress(5, 10))
	assert.Equal(t, ProgressBar{Percent: 100, Complete: true}, Progress(15, 10))
	assert.Equal(t, ProgressBar{Percent: 0}, Progress(-3, 10))
	assert.Equal(t, ProgressBar{Percent: 100, Complete: true}, Progress(0, 0))
	assert.Equal(t, ProgressBar{}, Progress(math.NaN(), 10))
	assert.Equal(t, ProgressBar{}, Progress(3, math.NaN()))
	assert.Equal(t, ProgressBar{}, Progress(math.NaN(), 0))
}

func TestRollProgress(t *testing.T) {
	tournament := domain.NewTournament("t1", map[string]any{"maxPlayers": float64(4)})
	bar, target, ok := RollProgress(tournament, DiceRolls{"alice": 3})
	require.True(t, ok)
	assert.Equal(t, 4, target)
	assert.Equal(t, ProgressBar{Percent: 25}, bar)

	bar, _, ok = RollProgress(tournament, DiceRolls{"a": 1, "b": 2, "c": 3, "d": 4})
	require.True(t, ok)
	assert.Equal(t, ProgressBar{Percent: 100, Complete: true}, bar)

	_, _, ok = RollProgress(domain.NewTournament("t2", map[string]any{"maxPlayers": "four"}), DiceRolls{})
	assert.False(t, ok)
}

func TestAbilityList(t *testing.T) {
	items := AbilityList([]string{"Fireball", "Shield", "Heal"}, "Shield")
	require.Len(t, items, 3)
	assert.Equal(t, []AbilityItem{
		{Ability: "Fireball"},
		{Ability: "Shield", Highlighted: true},
		{Ability: "Heal"},
	}, items)

	assert.Empty(t, AbilityList(nil, "Shield"))
}

func TestAbilitiesFromRecord(t *testing.T) {
	tournament := domain.NewTournament("t1", map[string]any{
		"abilities": []any{"Fireball", 7, "  ", "Heal"},
	})
	assert.Equal(t, []string{"Fireball", "Heal"}, AbilitiesFromRecord(tournament))
	assert.Empty(t, AbilitiesFromRecord(domain.NewTournament("t2", nil)))
}
