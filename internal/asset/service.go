package asset

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=asset
type Repository interface {
	CreateAsset(ctx context.Context, a *Asset) error
	GetAsset(ctx context.Context, id uuid.UUID) (*Asset, error)
	ListAssets(ctx context.Context, filter ListFilter) ([]*Asset, error)
	// UpdateStatus fails with ErrInvalidStatusTransition when the asset is
	// rented at the time of the write.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	OwnerID     string
	Kind        Kind
	Title       string
	Rates       RateTable
	IsListed    bool
	HideContact bool
	BookingType BookingType
	Utilities   Utilities
}

type ListFilter struct {
	OwnerID    *string
	Kind       *Kind
	Status     *Status
	ListedOnly bool
}

// Match reports whether a satisfies the filter.
func (f ListFilter) Match(a *Asset) bool {
	if f.OwnerID != nil && a.OwnerID != *f.OwnerID {
		return false
	}

	if f.Kind != nil && a.Kind != *f.Kind {
		return false
	}

	if f.Status != nil && a.Status != *f.Status {
		return false
	}

	if f.ListedOnly && !a.IsListed {
		return false
	}

	return true
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Asset, error) {
	if !params.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, params.Kind)
	}

	if err := params.Rates.Validate(); err != nil {
		return nil, err
	}

	utilities := params.Utilities
	if utilities == nil {
		utilities, _ = EmptyUtilities(params.Kind)
	}

	if err := CheckUtilities(params.Kind, utilities); err != nil {
		return nil, err
	}

	bookingType := params.BookingType
	if bookingType == "" {
		bookingType = BookingInstant
	}

	a := &Asset{
		OwnerID:     params.OwnerID,
		Kind:        params.Kind,
		Title:       params.Title,
		Rates:       params.Rates,
		Status:      StatusActive,
		IsListed:    params.IsListed,
		HideContact: params.HideContact,
		BookingType: bookingType,
		Utilities:   utilities,
	}
	if err := s.repo.CreateAsset(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Asset, error) {
	return s.repo.GetAsset(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Asset, error) {
	return s.repo.ListAssets(ctx, filter)
}

// SetStatus lets an owner take an asset in or out of maintenance. The rented
// status belongs to the tenancy lifecycle and cannot be set or left here;
// the repository refuses to change a rented asset in the same write that
// changes the status.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if status != StatusActive && status != StatusMaintenance {
		return fmt.Errorf("%w: cannot set %s directly", ErrInvalidStatusTransition, status)
	}

	return s.repo.UpdateStatus(ctx, id, status)
}
