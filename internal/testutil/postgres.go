// Package testutil provides test helpers for integration tests, including
// PostgreSQL container management.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/storage/postgres"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	container testcontainers.Container
	Pool      *postgres.Pool
	RawPool   *pgxpool.Pool
	Config    config.DatabaseConfig
}

// NewPool starts a PostgreSQL container, applies the schema, and returns the
// raw pool. The container is terminated when the test finishes.
//
// Precondition: Docker must be available.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pc := NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return pc.RawPool
}

// NewPostgresContainer starts a PostgreSQL test container and returns
// a connected Pool.
//
// Precondition: Docker must be available.
// Postcondition: Returns a running container with a connected pool,
// or fails the test.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()
	start := time.Now()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v [%s]", err, time.Since(start))
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("getting container host: %v", err)
	}

	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("getting mapped port: %v", err)
	}

	dbCfg := config.DatabaseConfig{
		Host:            host,
		Port:            mappedPort.Int(),
		User:            "test",
		Password:        "test",
		Name:            "test",
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}

	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		t.Fatalf("connecting to test postgres: %v [%s]", err, time.Since(start))
	}

	t.Logf("postgres container started [%s]", time.Since(start))

	pc := &PostgresContainer{
		container: container,
		Pool:      pool,
		RawPool:   pool.DB(),
		Config:    dbCfg,
	}

	t.Cleanup(func() {
		pool.Close()
		_ = container.Terminate(ctx)
	})

	return pc
}

// ApplyMigrations runs the schema creation SQL directly for tests.
// This avoids requiring the migrate tool in the test environment.
//
// Precondition: Pool must be connected.
// Postcondition: The profiles, characters, and encounters tables exist in the
// test database.
func (pc *PostgresContainer) ApplyMigrations(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	start := time.Now()

	schema := `
		CREATE TABLE IF NOT EXISTS profiles (
			id            BIGSERIAL    PRIMARY KEY,
			username      VARCHAR(64)  NOT NULL UNIQUE,
			password_hash TEXT         NOT NULL,
			created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_profiles_username ON profiles (username);

		CREATE TABLE IF NOT EXISTS characters (
			id           BIGSERIAL    PRIMARY KEY,
			profile_id   BIGINT       NOT NULL REFERENCES profiles (id) ON DELETE CASCADE,
			name         VARCHAR(64)  NOT NULL,
			class        VARCHAR(32)  NOT NULL,
			level        INT          NOT NULL DEFAULT 1,
			strength     INT          NOT NULL,
			dexterity    INT          NOT NULL,
			constitution INT          NOT NULL,
			intelligence INT          NOT NULL,
			wisdom       INT          NOT NULL,
			charisma     INT          NOT NULL,
			max_hp       INT          NOT NULL,
			current_hp   INT          NOT NULL,
			ac           INT          NOT NULL,
			attack_bonus INT          NOT NULL,
			damage       VARCHAR(32)  NOT NULL,
			created_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			UNIQUE (profile_id, name)
		);
		CREATE INDEX IF NOT EXISTS idx_characters_profile ON characters (profile_id);

		CREATE TABLE IF NOT EXISTS encounters (
			id           UUID         PRIMARY KEY,
			profile_id   BIGINT       NOT NULL REFERENCES profiles (id) ON DELETE CASCADE,
			character_id BIGINT       NOT NULL REFERENCES characters (id) ON DELETE CASCADE,
			winner       VARCHAR(16)  NOT NULL,
			reason       TEXT         NOT NULL,
			rounds       INT          NOT NULL,
			combat_log   TEXT[]       NOT NULL DEFAULT '{}',
			created_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_encounters_profile ON encounters (profile_id);
	`

	_, err := pc.RawPool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("applying migrations: %v", err)
	}
	t.Logf("migrations applied [%s]", time.Since(start))
}

// DSN returns the connection string for the test database.
func (pc *PostgresContainer) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.Config.User, pc.Config.Password,
		pc.Config.Host, pc.Config.Port,
		pc.Config.Name, pc.Config.SSLMode,
	)
}
