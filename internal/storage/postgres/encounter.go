package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrEncounterNotFound is returned when an encounter lookup yields no results.
var ErrEncounterNotFound = errors.New("encounter not found")

// EncounterRecord is a finished encounter's persistent summary.
type EncounterRecord struct {
	// ID is the encounter UUID assigned by the combat engine.
	ID string
	// ProfileID owns the record.
	ProfileID int64
	// CharacterID is the character that fought.
	CharacterID int64
	// Winner is the winning side: "players", "adversaries", or "none".
	Winner string
	// Reason describes why the encounter ended.
	Reason string
	// Rounds is the number of rounds fought.
	Rounds int
	// Log holds the full combat log lines in order.
	Log []string
	// CreatedAt is when the record was written.
	CreatedAt time.Time
}

// EncounterRepository persists finished encounter summaries.
type EncounterRepository struct {
	db *pgxpool.Pool
}

// NewEncounterRepository creates an EncounterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewEncounterRepository(db *pgxpool.Pool) *EncounterRepository {
	return &EncounterRepository{db: db}
}

// Record inserts a finished encounter.
//
// Precondition: rec.ID must be non-empty; rec.ProfileID and rec.CharacterID
// must reference existing rows.
// Postcondition: Returns the stored record with CreatedAt set.
func (r *EncounterRepository) Record(ctx context.Context, rec *EncounterRecord) (*EncounterRecord, error) {
	var out EncounterRecord
	err := r.db.QueryRow(ctx, `
		INSERT INTO encounters (id, profile_id, character_id, winner, reason, rounds, combat_log)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, profile_id, character_id, winner, reason, rounds, combat_log, created_at`,
		rec.ID, rec.ProfileID, rec.CharacterID, rec.Winner, rec.Reason, rec.Rounds, rec.Log,
	).Scan(
		&out.ID, &out.ProfileID, &out.CharacterID, &out.Winner, &out.Reason,
		&out.Rounds, &out.Log, &out.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting encounter: %w", err)
	}
	return &out, nil
}

// GetByID retrieves an encounter record by its UUID.
//
// Postcondition: Returns the record or ErrEncounterNotFound.
func (r *EncounterRepository) GetByID(ctx context.Context, id string) (*EncounterRecord, error) {
	var out EncounterRecord
	err := r.db.QueryRow(ctx, `
		SELECT id, profile_id, character_id, winner, reason, rounds, combat_log, created_at
		FROM encounters WHERE id = $1`,
		id,
	).Scan(
		&out.ID, &out.ProfileID, &out.CharacterID, &out.Winner, &out.Reason,
		&out.Rounds, &out.Log, &out.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEncounterNotFound
		}
		return nil, fmt.Errorf("querying encounter: %w", err)
	}
	return &out, nil
}

// ListByProfile returns encounter records for profileID, newest first.
//
// Precondition: profileID must be > 0; limit must be >= 1.
// Postcondition: Returns at most limit records (may be empty) or a non-nil error.
func (r *EncounterRepository) ListByProfile(ctx context.Context, profileID int64, limit int) ([]*EncounterRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, profile_id, character_id, winner, reason, rounds, combat_log, created_at
		FROM encounters WHERE profile_id = $1
		ORDER BY created_at DESC LIMIT $2`,
		profileID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing encounters: %w", err)
	}
	defer rows.Close()

	recs := make([]*EncounterRecord, 0)
	for rows.Next() {
		var rec EncounterRecord
		if err := rows.Scan(
			&rec.ID, &rec.ProfileID, &rec.CharacterID, &rec.Winner, &rec.Reason,
			&rec.Rounds, &rec.Log, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning encounter row: %w", err)
		}
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}
