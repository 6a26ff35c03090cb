package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/skirmish/internal/game/character"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterNameTaken is returned when creating a character with a name already used by the profile.
var ErrCharacterNameTaken = errors.New("character name already taken")

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Create inserts a new character and returns it with ID and timestamps set.
//
// Precondition: c.ProfileID must reference an existing profile; c.Name must be non-empty.
// Postcondition: Returns the created character with ID set, or ErrCharacterNameTaken on duplicate.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	var out character.Character
	err := r.db.QueryRow(ctx, `
		INSERT INTO characters
			(profile_id, name, class, level,
			 strength, dexterity, constitution, intelligence, wisdom, charisma,
			 max_hp, current_hp, ac, attack_bonus, damage)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id, profile_id, name, class, level,
		          strength, dexterity, constitution, intelligence, wisdom, charisma,
		          max_hp, current_hp, ac, attack_bonus, damage, created_at, updated_at`,
		c.ProfileID, c.Name, c.Class, c.Level,
		c.Abilities.Strength, c.Abilities.Dexterity, c.Abilities.Constitution,
		c.Abilities.Intelligence, c.Abilities.Wisdom, c.Abilities.Charisma,
		c.MaxHP, c.CurrentHP, c.AC, c.AttackBonus, c.Damage,
	).Scan(
		&out.ID, &out.ProfileID, &out.Name, &out.Class, &out.Level,
		&out.Abilities.Strength, &out.Abilities.Dexterity, &out.Abilities.Constitution,
		&out.Abilities.Intelligence, &out.Abilities.Wisdom, &out.Abilities.Charisma,
		&out.MaxHP, &out.CurrentHP, &out.AC, &out.AttackBonus, &out.Damage,
		&out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrCharacterNameTaken
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return &out, nil
}

// ListByProfile returns all characters for the given profile ID, ordered by created_at.
//
// Precondition: profileID must be > 0.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) ListByProfile(ctx context.Context, profileID int64) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, profile_id, name, class, level,
		       strength, dexterity, constitution, intelligence, wisdom, charisma,
		       max_hp, current_hp, ac, attack_bonus, damage, created_at, updated_at
		FROM characters WHERE profile_id = $1 ORDER BY created_at ASC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		var c character.Character
		if err := rows.Scan(
			&c.ID, &c.ProfileID, &c.Name, &c.Class, &c.Level,
			&c.Abilities.Strength, &c.Abilities.Dexterity, &c.Abilities.Constitution,
			&c.Abilities.Intelligence, &c.Abilities.Wisdom, &c.Abilities.Charisma,
			&c.MaxHP, &c.CurrentHP, &c.AC, &c.AttackBonus, &c.Damage,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, &c)
	}
	return chars, rows.Err()
}

// GetByID retrieves a character by its primary key.
//
// Precondition: id must be > 0.
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (*character.Character, error) {
	var c character.Character
	err := r.db.QueryRow(ctx, `
		SELECT id, profile_id, name, class, level,
		       strength, dexterity, constitution, intelligence, wisdom, charisma,
		       max_hp, current_hp, ac, attack_bonus, damage, created_at, updated_at
		FROM characters WHERE id = $1`,
		id,
	).Scan(
		&c.ID, &c.ProfileID, &c.Name, &c.Class, &c.Level,
		&c.Abilities.Strength, &c.Abilities.Dexterity, &c.Abilities.Constitution,
		&c.Abilities.Intelligence, &c.Abilities.Wisdom, &c.Abilities.Charisma,
		&c.MaxHP, &c.CurrentHP, &c.AC, &c.AttackBonus, &c.Damage,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return &c, nil
}

// SaveState persists a character's current HP after an encounter.
//
// Precondition: id must be > 0.
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row updated.
func (r *CharacterRepository) SaveState(ctx context.Context, id int64, currentHP int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET current_hp = $2, updated_at = NOW()
		WHERE id = $1`,
		id, currentHP,
	)
	if err != nil {
		return fmt.Errorf("saving character state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}
