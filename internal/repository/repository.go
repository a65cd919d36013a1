package repository

import (
	"context"
	"errors"
	"fmt"

	"address-api/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Domain errors returned by every store implementation.
var (
	// ErrNotFound is returned when no address has the requested id.
	ErrNotFound = errors.New("address not found")
	// ErrDuplicateName is returned when creating an address whose name is already taken.
	ErrDuplicateName = errors.New("address with this name already exists")
)

// Store is the persistent table of address records.
type Store interface {
	Create(ctx context.Context, name string, lat, lon float64) (*models.Address, error)
	GetAll(ctx context.Context) ([]models.Address, error)
	GetByID(ctx context.Context, id int64) (*models.Address, error)
	Update(ctx context.Context, id int64, name string, lat, lon float64) (*models.Address, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Close()
}

// Open connects to the store selected by driver ("sqlite" or "postgres")
// and makes sure the addresses table exists.
func Open(ctx context.Context, driver, source string) (Store, error) {
	switch driver {
	case "sqlite":
		repo, err := NewSQLiteRepository(ctx, source)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to connect to postgres: %w", err)
		}
		repo, err := NewPostgresRepository(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("repository: unsupported driver %q", driver)
	}
}
