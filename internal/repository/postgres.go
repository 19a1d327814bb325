package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"property-assistant/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS properties (
	id                  SERIAL PRIMARY KEY,
	building_name       TEXT NOT NULL,
	location            TEXT,
	street_name         TEXT,
	apartment_types     TEXT,
	apartment_sizes     TEXT,
	price_range         TEXT,
	amenities           TEXT,
	nearby_locations    TEXT,
	commute_times       TEXT,
	availability_status TEXT,
	builder_name        TEXT,
	builder_contact     TEXT,
	latitude            DOUBLE PRECISION,
	longitude           DOUBLE PRECISION,
	photo_url           TEXT
);

CREATE TABLE IF NOT EXISTS chat_turn_logs (
	id               BIGSERIAL PRIMARY KEY,
	session_id       TEXT NOT NULL,
	query            TEXT NOT NULL,
	response         TEXT NOT NULL,
	preferences      JSONB,
	property_ids     INTEGER[],
	stage            TEXT,
	greeting         BOOLEAN NOT NULL DEFAULT FALSE,
	llm_error        BOOLEAN NOT NULL DEFAULT FALSE,
	response_time_ms INTEGER,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryFromDB wraps an existing connection
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the tables if they do not exist
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// LoadProperties returns every property ordered by id
func (r *PostgresRepository) LoadProperties(ctx context.Context) ([]model.Property, error) {
	query := `
		SELECT id,
			building_name,
			COALESCE(location, '')            AS location,
			COALESCE(street_name, '')         AS street_name,
			COALESCE(apartment_types, '')     AS apartment_types,
			COALESCE(apartment_sizes, '')     AS apartment_sizes,
			COALESCE(price_range, '')         AS price_range,
			COALESCE(amenities, '')           AS amenities,
			COALESCE(nearby_locations, '')    AS nearby_locations,
			COALESCE(commute_times, '')       AS commute_times,
			COALESCE(availability_status, '') AS availability_status,
			COALESCE(builder_name, '')        AS builder_name,
			COALESCE(builder_contact, '')     AS builder_contact,
			latitude,
			longitude,
			photo_url
		FROM properties
		ORDER BY id
	`

	var properties []model.Property
	if err := r.db.SelectContext(ctx, &properties, query); err != nil {
		return nil, fmt.Errorf("failed to load properties: %w", err)
	}
	return properties, nil
}

// LogTurn records one chat turn
func (r *PostgresRepository) LogTurn(ctx context.Context, turn model.TurnLog) error {
	prefs, err := json.Marshal(turn.Preferences)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	ids := make([]int64, len(turn.PropertyIDs))
	for i, id := range turn.PropertyIDs {
		ids[i] = int64(id)
	}

	logQuery := `
		INSERT INTO chat_turn_logs (session_id, query, response, preferences, property_ids, stage, greeting, llm_error, response_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.ExecContext(ctx, logQuery,
		turn.SessionID,
		turn.Query,
		turn.Response,
		prefs,
		pq.Array(ids),
		string(turn.Stage),
		turn.Greeting,
		turn.LLMError,
		turn.TookMs,
	)
	if err != nil {
		return fmt.Errorf("failed to log turn: %w", err)
	}
	return nil
}
