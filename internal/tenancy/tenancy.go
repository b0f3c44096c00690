package tenancy

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
)

type Status string

const (
	StatusActive Status = "active"
	// StatusFuture is accepted from storage but never produced by this
	// package. Every tenancy starts active.
	StatusFuture Status = "future"
	StatusPast   Status = "past"
)

var (
	ErrNotFound         = errors.New("tenancy not found")
	ErrAssetUnavailable = errors.New("asset is not available")
	ErrTenancyNotActive = errors.New("tenancy is not active")
	ErrInvalidTenancy   = errors.New("invalid tenancy")
)

type Tenancy struct {
	ID               uuid.UUID
	AssetID          uuid.UUID
	OwnerID          string
	RenterID         string
	RenterName       string
	RenterPhone      string
	RenterEmail      string
	RenterNationalID string
	LeaseMonths      int
	BillingCycle     asset.Cycle
	Status           Status
	StartDate        time.Time
	EndDate          *time.Time
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

type ListFilter struct {
	OwnerID  *string
	RenterID *string
	AssetID  *uuid.UUID
	Status   *Status
}

func (f ListFilter) Match(t *Tenancy) bool {
	switch {
	case f.OwnerID != nil && t.OwnerID != *f.OwnerID:
		return false
	case f.RenterID != nil && t.RenterID != *f.RenterID:
		return false
	case f.AssetID != nil && t.AssetID != *f.AssetID:
		return false
	case f.Status != nil && t.Status != *f.Status:
		return false
	}

	return true
}
