package service

import (
	"context"
	"errors"
	"fmt"

	"address-api/internal/geo"
	"address-api/internal/models"
)

// ErrInvalidInput is returned when arguments fail validation before reaching the repository.
var ErrInvalidInput = errors.New("invalid input")

// AddressService contains the business logic for address records and distance queries
type AddressService struct {
	repo AddressRepository
}

// AddressRepository interface for dependency injection
type AddressRepository interface {
	Create(ctx context.Context, name string, lat, lon float64) (*models.Address, error)
	GetAll(ctx context.Context) ([]models.Address, error)
	GetByID(ctx context.Context, id int64) (*models.Address, error)
	Update(ctx context.Context, id int64, name string, lat, lon float64) (*models.Address, error)
	Delete(ctx context.Context, id int64) error
}

// NewAddressService creates a new address service
func NewAddressService(repo AddressRepository) *AddressService {
	return &AddressService{repo: repo}
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("service: invalid latitude %f: %w", lat, ErrInvalidInput)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("service: invalid longitude %f: %w", lon, ErrInvalidInput)
	}
	return nil
}

// ListAll returns every stored address
func (s *AddressService) ListAll(ctx context.Context) ([]models.Address, error) {
	addresses, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list addresses: %w", err)
	}
	return addresses, nil
}

// Get returns a single address by id
func (s *AddressService) Get(ctx context.Context, id int64) (*models.Address, error) {
	addr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get address %d: %w", id, err)
	}
	return addr, nil
}

// Create stores a new address; the name must not be taken yet
func (s *AddressService) Create(ctx context.Context, name string, lat, lon float64) (*models.Address, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	addr, err := s.repo.Create(ctx, name, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("service: failed to create address: %w", err)
	}
	return addr, nil
}

// Update overwrites the name and coordinates of an existing address
func (s *AddressService) Update(ctx context.Context, id int64, name string, lat, lon float64) (*models.Address, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	addr, err := s.repo.Update(ctx, id, name, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("service: failed to update address %d: %w", id, err)
	}
	return addr, nil
}

func (s *AddressService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service: failed to delete address %d: %w", id, err)
	}
	return nil
}

// FilterByDistance returns the addresses whose distance to (lat, lon) is at most maxKm kilometers.
// Every stored address is scanned; the result keeps the repository order.
// A negative radius matches nothing.
func (s *AddressService) FilterByDistance(ctx context.Context, lat, lon, maxKm float64) ([]models.Address, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	addresses, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load addresses: %w", err)
	}

	ref := geo.Point{Lat: lat, Lon: lon}
	within := make([]models.Address, 0, len(addresses))
	for _, addr := range addresses {
		if geo.Distance(ref, geo.Point{Lat: addr.Latitude, Lon: addr.Longitude}) <= maxKm {
			within = append(within, addr)
		}
	}

	return within, nil
}
