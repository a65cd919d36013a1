package repository

import (
	"context"
	"errors"
	"fmt"

	"address-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createAddressTablePostgres = `
	CREATE TABLE IF NOT EXISTS addresses (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL
	);
	CREATE INDEX IF NOT EXISTS ix_addresses_name ON addresses (name);
`

// PostgresRepository implements the address store for PostgreSQL
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository and ensures the schema
func NewPostgresRepository(ctx context.Context, db *pgxpool.Pool) (*PostgresRepository, error) {
	if _, err := db.Exec(ctx, createAddressTablePostgres); err != nil {
		return nil, fmt.Errorf("repository: failed to create addresses table: %w", err)
	}
	return &PostgresRepository{db: db}, nil
}

// Create inserts a new address unless one with the same name already exists.
// A transaction-scoped advisory lock on the name serializes concurrent creates.
func (r *PostgresRepository) Create(ctx context.Context, name string, lat, lon float64) (*models.Address, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, name); err != nil {
		return nil, fmt.Errorf("repository: failed to lock name: %w", err)
	}

	sql := `
		INSERT INTO addresses (name, latitude, longitude)
		SELECT $1::text, $2::double precision, $3::double precision
		WHERE NOT EXISTS (SELECT 1 FROM addresses WHERE name = $1::text)
		RETURNING id
	`

	addr := models.Address{Name: name, Latitude: lat, Longitude: lon}
	if err := tx.QueryRow(ctx, sql, name, lat, lon).Scan(&addr.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("repository: failed to insert address: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository: failed to commit address: %w", err)
	}

	return &addr, nil
}

// GetAll returns every address in insertion order
func (r *PostgresRepository) GetAll(ctx context.Context) ([]models.Address, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, latitude, longitude FROM addresses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute list query: %w", err)
	}
	defer rows.Close()

	addresses := []models.Address{}
	for rows.Next() {
		var addr models.Address
		err := rows.Scan(
			&addr.ID,
			&addr.Name,
			&addr.Latitude,
			&addr.Longitude,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan address: %w", err)
		}
		addresses = append(addresses, addr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return addresses, nil
}

// GetByID returns the address with the given id or ErrNotFound
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Address, error) {
	var addr models.Address
	err := r.db.QueryRow(ctx, `SELECT id, name, latitude, longitude FROM addresses WHERE id = $1`, id).Scan(
		&addr.ID,
		&addr.Name,
		&addr.Latitude,
		&addr.Longitude,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to get address: %w", err)
	}

	return &addr, nil
}

// Update overwrites name and coordinates of an existing address
func (r *PostgresRepository) Update(ctx context.Context, id int64, name string, lat, lon float64) (*models.Address, error) {
	sql := `
		UPDATE addresses SET name = $2, latitude = $3, longitude = $4
		WHERE id = $1
		RETURNING id, name, latitude, longitude
	`

	var addr models.Address
	err := r.db.QueryRow(ctx, sql, id, name, lat, lon).Scan(
		&addr.ID,
		&addr.Name,
		&addr.Latitude,
		&addr.Longitude,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to update address: %w", err)
	}

	return &addr, nil
}

// Delete removes the address with the given id
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored addresses
func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM addresses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count addresses: %w", err)
	}
	return count, nil
}

// Ping checks that the database is reachable
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Close releases the connection pool
func (r *PostgresRepository) Close() {
	r.db.Close()
}
