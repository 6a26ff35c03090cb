// Package character defines the character-sheet domain model and the pure
// creation logic that turns a sheet into a combat-ready combatant.
package character

import "time"

// AbilityScores holds the six ability score values for a character.
type AbilityScores struct {
	Strength     int
	Dexterity    int
	Constitution int
	Intelligence int
	Wisdom       int
	Charisma     int
}

// Modifier returns the ability modifier for a given score: floor((score-10)/2).
func (a AbilityScores) Modifier(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}

// Character represents a player character's persistent sheet.
//
// ProfileID and ID are set by the persistence layer; zero values indicate an
// unsaved character.
type Character struct {
	ID        int64
	ProfileID int64

	Name  string
	Class string // class ID
	Level int

	Abilities AbilityScores
	MaxHP     int
	CurrentHP int
	// AC is the character's armor class from its class kit.
	AC int
	// AttackBonus is the flat to-hit bonus from the class kit.
	AttackBonus int
	// Damage is the class kit's damage dice expression, e.g. "1d8+3".
	Damage string

	CreatedAt time.Time
	UpdatedAt time.Time
}
