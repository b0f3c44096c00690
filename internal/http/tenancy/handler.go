package tenancy

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
	billHTTP "github.com/MrJamesThe3rd/rentledger/internal/http/bill"
	"github.com/MrJamesThe3rd/rentledger/internal/http/respond"
	"github.com/MrJamesThe3rd/rentledger/internal/http/session"
	"github.com/MrJamesThe3rd/rentledger/internal/tenancy"
)

type Handler struct {
	svc *tenancy.Service
}

func NewHandler(svc *tenancy.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/terminate", h.terminate)
}

type tenancyResponse struct {
	ID               uuid.UUID      `json:"id"`
	AssetID          uuid.UUID      `json:"asset_id"`
	OwnerID          string         `json:"owner_id"`
	RenterID         string         `json:"renter_id"`
	RenterName       string         `json:"renter_name,omitempty"`
	RenterPhone      string         `json:"renter_phone,omitempty"`
	RenterEmail      string         `json:"renter_email,omitempty"`
	RenterNationalID string         `json:"renter_national_id,omitempty"`
	LeaseMonths      int            `json:"lease_months"`
	BillingCycle     asset.Cycle    `json:"billing_cycle"`
	Status           tenancy.Status `json:"status"`
	StartDate        time.Time      `json:"start_date"`
	EndDate          *time.Time     `json:"end_date,omitempty"`
	Notes            string         `json:"notes,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        *time.Time     `json:"updated_at,omitempty"`
}

func toResponse(t *tenancy.Tenancy) tenancyResponse {
	return tenancyResponse{
		ID:               t.ID,
		AssetID:          t.AssetID,
		OwnerID:          t.OwnerID,
		RenterID:         t.RenterID,
		RenterName:       t.RenterName,
		RenterPhone:      t.RenterPhone,
		RenterEmail:      t.RenterEmail,
		RenterNationalID: t.RenterNationalID,
		LeaseMonths:      t.LeaseMonths,
		BillingCycle:     t.BillingCycle,
		Status:           t.Status,
		StartDate:        t.StartDate,
		EndDate:          t.EndDate,
		Notes:            t.Notes,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

type createTenancyRequest struct {
	AssetID          uuid.UUID   `json:"asset_id"`
	RenterID         string      `json:"renter_id"`
	RenterName       string      `json:"renter_name"`
	RenterPhone      string      `json:"renter_phone"`
	RenterEmail      string      `json:"renter_email"`
	RenterNationalID string      `json:"renter_national_id"`
	LeaseMonths      int         `json:"lease_months"`
	BillingCycle     asset.Cycle `json:"billing_cycle"`
	StartDate        string      `json:"start_date"`
	Notes            string      `json:"notes"`
}

type createTenancyResponse struct {
	Tenancy  tenancyResponse   `json:"tenancy"`
	Bill     billHTTP.Response `json:"bill"`
	Warnings []string          `json:"warnings"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTenancyRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if req.AssetID == uuid.Nil {
		respond.Error(w, r, fmt.Errorf("%w: asset_id is required", respond.ErrBadRequest))
		return
	}

	if req.RenterID == "" {
		req.RenterID = session.FromContext(r.Context())
	}

	var start time.Time

	if req.StartDate != "" {
		t, err := respond.ParseDate(req.StartDate)
		if err != nil {
			respond.Error(w, r, fmt.Errorf("%w: invalid start_date", respond.ErrBadRequest))
			return
		}

		start = t
	}

	res, err := h.svc.Create(r.Context(), req.AssetID, tenancy.CreateParams{
		RenterID:         req.RenterID,
		RenterName:       req.RenterName,
		RenterPhone:      req.RenterPhone,
		RenterEmail:      req.RenterEmail,
		RenterNationalID: req.RenterNationalID,
		LeaseMonths:      req.LeaseMonths,
		BillingCycle:     req.BillingCycle,
		StartDate:        start,
		Notes:            req.Notes,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	respond.JSON(w, r, http.StatusCreated, createTenancyResponse{
		Tenancy:  toResponse(res.Tenancy),
		Bill:     billHTTP.ToResponse(res.Bill),
		Warnings: warnings,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := respond.NewQuery(r)

	filter := tenancy.ListFilter{
		OwnerID:  q.String("owner_id"),
		RenterID: q.String("renter_id"),
		AssetID:  q.UUID("asset_id"),
	}

	if s := q.String("status"); s != nil {
		filter.Status = new(tenancy.Status(*s))
	}

	if q.Err != nil {
		respond.Error(w, r, q.Err)
		return
	}

	owner, renter, err := respond.Scope(r, filter.OwnerID, filter.RenterID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	filter.OwnerID, filter.RenterID = owner, renter

	tenancies, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]tenancyResponse, len(tenancies))
	for i, t := range tenancies {
		resp[i] = toResponse(t)
	}

	respond.JSON(w, r, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.URLID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, toResponse(t))
}

type terminateRequest struct {
	EndDate string `json:"end_date"`
}

func (h *Handler) terminate(w http.ResponseWriter, r *http.Request) {
	id, err := respond.URLID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req terminateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	var end *time.Time

	if req.EndDate != "" {
		t, err := respond.ParseDate(req.EndDate)
		if err != nil {
			respond.Error(w, r, fmt.Errorf("%w: invalid end_date", respond.ErrBadRequest))
			return
		}

		end = &t
	}

	t, err := h.svc.Terminate(r.Context(), id, end)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, toResponse(t))
}
