package bill

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
	"github.com/MrJamesThe3rd/rentledger/internal/bill"
)

type Response struct {
	ID          uuid.UUID   `json:"id"`
	TenancyID   uuid.UUID   `json:"tenancy_id"`
	AssetID     uuid.UUID   `json:"asset_id"`
	OwnerID     string      `json:"owner_id"`
	RenterID    string      `json:"renter_id"`
	AssetKind   asset.Kind  `json:"asset_kind"`
	Cycle       asset.Cycle `json:"billing_cycle"`
	PeriodStart time.Time   `json:"period_start"`
	DueDate     time.Time   `json:"due_date"`
	RentAmount  int64       `json:"rent_amount"`
	asset.FlatUtilities
	ExtraCharges []bill.ExtraCharge `json:"extra_charges"`
	Total        int64              `json:"total"`
	PaidAmount   int64              `json:"paid_amount"`
	Due          int64              `json:"due"`
	Credit       int64              `json:"credit,omitempty"`
	PaidDate     *time.Time         `json:"paid_date,omitempty"`
	Payments     []bill.Payment     `json:"payments"`
	Status       bill.Status        `json:"status"`
	Warnings     []string           `json:"warnings,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    *time.Time         `json:"updated_at,omitempty"`
}

func ToResponse(b *bill.Bill) Response {
	return Response{
		ID:            b.ID,
		TenancyID:     b.TenancyID,
		AssetID:       b.AssetID,
		OwnerID:       b.OwnerID,
		RenterID:      b.RenterID,
		AssetKind:     b.AssetKind,
		Cycle:         b.Cycle,
		PeriodStart:   b.PeriodStart,
		DueDate:       b.DueDate,
		RentAmount:    b.RentAmount,
		FlatUtilities: asset.Flatten(b.Utilities),
		ExtraCharges:  nonNil(b.ExtraCharges),
		Total:         b.Total,
		PaidAmount:    b.PaidAmount,
		Due:           b.Due(),
		Credit:        b.Credit(),
		PaidDate:      b.PaidDate,
		Payments:      nonNil(b.Payments),
		Status:        b.Status,
		Warnings:      b.Warnings,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func ToResponseList(bills []*bill.Bill) []Response {
	resp := make([]Response, len(bills))
	for i, b := range bills {
		resp[i] = ToResponse(b)
	}

	return resp
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
