package character

import (
	"errors"

	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// abilityRoll is the classic 4d6-keep-highest-3 score generation.
var abilityRoll = dice.MustParse("4d6kh3")

// rollScores generates a full set of ability scores with src.
func rollScores(src dice.Source) AbilityScores {
	roll := func() int { return dice.Roll(abilityRoll, src).Total() }
	return AbilityScores{
		Strength:     roll(),
		Dexterity:    roll(),
		Constitution: roll(),
		Intelligence: roll(),
		Wisdom:       roll(),
		Charisma:     roll(),
	}
}

// applyKeyAbilityBoost adds +2 to the class key ability score.
func applyKeyAbilityBoost(a AbilityScores, keyAbility string) AbilityScores {
	switch keyAbility {
	case "strength":
		a.Strength += 2
	case "dexterity":
		a.Dexterity += 2
	case "constitution":
		a.Constitution += 2
	case "intelligence":
		a.Intelligence += 2
	case "wisdom":
		a.Wisdom += 2
	case "charisma":
		a.Charisma += 2
	}
	return a
}

// Build constructs a new level-1 Character from a name and class. Ability
// scores are rolled 4d6kh3 each, the class key ability gains +2, and
// HP = hit_points_per_level + CON modifier (minimum 1).
//
// Precondition: name must be non-empty; class must be non-nil and validated;
// src must be non-nil.
// Postcondition: Returns a Character ready for persistence, or an error.
func Build(name string, class *Class, src dice.Source) (*Character, error) {
	if name == "" {
		return nil, errors.New("character name must not be empty")
	}
	if class == nil {
		return nil, errors.New("class must not be nil")
	}

	abilities := applyKeyAbilityBoost(rollScores(src), class.KeyAbility)

	conMod := abilities.Modifier(abilities.Constitution)
	maxHP := class.HitPointsPerLevel + conMod
	if maxHP < 1 {
		maxHP = 1
	}

	return &Character{
		Name:        name,
		Class:       class.ID,
		Level:       1,
		Abilities:   abilities,
		MaxHP:       maxHP,
		CurrentHP:   maxHP,
		AC:          class.ArmorClass,
		AttackBonus: class.AttackBonus,
		Damage:      class.Damage,
	}, nil
}

// ToCombatant materializes the sheet as a combat-ready combatant: a fresh
// uuid, initiative rolled as d20 + DEX modifier, current HP carried over, and
// player allegiance. This is the factory boundary the combat core consumes —
// the core itself never reads character sheets.
//
// Precondition: c.MaxHP > 0; src must be non-nil.
func (c *Character) ToCombatant(src dice.Source) *combat.Combatant {
	return &combat.Combatant{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Initiative:  rules.ResolveInitiative(src, c.Abilities.Modifier(c.Abilities.Dexterity)),
		CurrentHP:   c.CurrentHP,
		MaxHP:       c.MaxHP,
		AC:          c.AC,
		Allegiance:  combat.AllegiancePlayer,
		Defeated:    c.CurrentHP <= 0,
		CharacterID: c.ID,
	}
}
