package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"address-api/internal/models"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const createAddressTableSQLite = `
	CREATE TABLE IF NOT EXISTS addresses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS ix_addresses_name ON addresses (name);
`

// SQLiteRepository stores addresses in an embedded SQLite database file.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the database at path and ensures the schema.
func NewSQLiteRepository(ctx context.Context, path string) (*SQLiteRepository, error) {
	if path == "" {
		path = "addresses.db"
	}

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("repository: failed to open sqlite: %w", err)
	}
	// A single connection serializes writers, which keeps the
	// check-and-insert in Create atomic and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createAddressTableSQLite); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("repository: failed to create addresses table: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "_pragma") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)"
}

// Create inserts a new address unless one with the same name already exists.
func (r *SQLiteRepository) Create(ctx context.Context, name string, lat, lon float64) (*models.Address, error) {
	query := `
		INSERT INTO addresses (name, latitude, longitude)
		SELECT ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM addresses WHERE name = ?)
		RETURNING id
	`

	addr := models.Address{Name: name, Latitude: lat, Longitude: lon}
	err := r.db.QueryRowContext(ctx, query, name, lat, lon, name).Scan(&addr.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("repository: failed to insert address: %w", err)
	}

	return &addr, nil
}

// GetAll returns every address in insertion order.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Address, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, latitude, longitude FROM addresses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute list query: %w", err)
	}
	defer rows.Close()

	addresses := []models.Address{}
	for rows.Next() {
		var addr models.Address
		if err := rows.Scan(&addr.ID, &addr.Name, &addr.Latitude, &addr.Longitude); err != nil {
			return nil, fmt.Errorf("repository: failed to scan address: %w", err)
		}
		addresses = append(addresses, addr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return addresses, nil
}

// GetByID returns the address with the given id or ErrNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Address, error) {
	var addr models.Address
	err := r.db.QueryRowContext(ctx, `SELECT id, name, latitude, longitude FROM addresses WHERE id = ?`, id).
		Scan(&addr.ID, &addr.Name, &addr.Latitude, &addr.Longitude)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to get address: %w", err)
	}

	return &addr, nil
}

// Update overwrites name and coordinates of an existing address.
// Name collisions with other records are not checked.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, name string, lat, lon float64) (*models.Address, error) {
	query := `
		UPDATE addresses SET name = ?, latitude = ?, longitude = ?
		WHERE id = ?
		RETURNING id, name, latitude, longitude
	`

	var addr models.Address
	err := r.db.QueryRowContext(ctx, query, name, lat, lon, id).
		Scan(&addr.ID, &addr.Name, &addr.Latitude, &addr.Longitude)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to update address: %w", err)
	}

	return &addr, nil
}

// Delete removes the address with the given id.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM addresses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete address: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository: failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

// Count returns the number of stored addresses.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM addresses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count addresses: %w", err)
	}
	return count, nil
}

// Ping checks that the database file is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the underlying database handle.
func (r *SQLiteRepository) Close() {
	_ = r.db.Close()
}
