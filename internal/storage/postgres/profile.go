package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// Profile represents a player profile in the database.
type Profile struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// ErrProfileNotFound is returned when a profile lookup yields no results.
var ErrProfileNotFound = errors.New("profile not found")

// ErrProfileExists is returned when attempting to create a duplicate username.
var ErrProfileExists = errors.New("profile already exists")

// ErrInvalidCredentials is returned when authentication fails.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ProfileRepository provides profile persistence operations.
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a ProfileRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a new profile with a bcrypt-hashed password.
//
// Precondition: username must be non-empty; password must be non-empty.
// Postcondition: Returns the created Profile with ID and CreatedAt set,
// or ErrProfileExists if the username is taken.
func (r *ProfileRepository) Create(ctx context.Context, username, password string) (Profile, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return Profile{}, fmt.Errorf("hashing password: %w", err)
	}

	var p Profile
	err = r.db.QueryRow(ctx,
		`INSERT INTO profiles (username, password_hash)
		 VALUES ($1, $2)
		 RETURNING id, username, password_hash, created_at`,
		username, hash,
	).Scan(&p.ID, &p.Username, &p.PasswordHash, &p.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return Profile{}, ErrProfileExists
		}
		return Profile{}, fmt.Errorf("inserting profile: %w", err)
	}

	return p, nil
}

// Authenticate verifies credentials and returns the matching profile.
//
// Precondition: username and password must be non-empty.
// Postcondition: Returns the Profile if credentials are valid,
// ErrProfileNotFound if the username doesn't exist,
// or ErrInvalidCredentials if the password is wrong.
func (r *ProfileRepository) Authenticate(ctx context.Context, username, password string) (Profile, error) {
	p, err := r.GetByUsername(ctx, username)
	if err != nil {
		return Profile{}, err
	}

	if !CheckPassword(password, p.PasswordHash) {
		return Profile{}, ErrInvalidCredentials
	}

	return p, nil
}

// GetByUsername retrieves a profile by username.
//
// Precondition: username must be non-empty.
// Postcondition: Returns the Profile or ErrProfileNotFound.
func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (Profile, error) {
	var p Profile
	err := r.db.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at
		 FROM profiles WHERE username = $1`,
		username,
	).Scan(&p.ID, &p.Username, &p.PasswordHash, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, fmt.Errorf("querying profile: %w", err)
	}
	return p, nil
}

// HashPassword creates a bcrypt hash of the given password.
//
// Precondition: password must be non-empty.
// Postcondition: Returns a bcrypt hash string.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a bcrypt hash.
//
// Postcondition: Returns true if password matches the hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
