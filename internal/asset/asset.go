package asset

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies the family of a rentable asset.
type Kind string

const (
	KindFlat     Kind = "flat"
	KindVehicle  Kind = "vehicle"
	KindGadget   Kind = "gadget"
	KindService  Kind = "service"
	KindBuilding Kind = "building"
)

// Valid reports whether k is one of the known asset kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindFlat, KindVehicle, KindGadget, KindService, KindBuilding:
		return true
	}

	return false
}

// Status represents the availability of an asset.
type Status string

const (
	StatusActive      Status = "active"
	StatusRented      Status = "rented"
	StatusMaintenance Status = "maintenance"
)

// BookingType controls how renters book a listed asset.
type BookingType string

const (
	BookingInstant BookingType = "instant"
	BookingRequest BookingType = "request"
)

// Asset is a rentable unit listed by an owner.
type Asset struct {
	ID          uuid.UUID
	OwnerID     string
	Kind        Kind
	Title       string
	Rates       RateTable
	Status      Status
	IsListed    bool
	HideContact bool
	BookingType BookingType
	Utilities   Utilities
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Available reports whether a tenancy can be created against the asset.
func (a *Asset) Available() bool {
	return a.Status == StatusActive
}
