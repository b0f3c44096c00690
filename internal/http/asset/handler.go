package asset

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
	"github.com/MrJamesThe3rd/rentledger/internal/http/respond"
	"github.com/MrJamesThe3rd/rentledger/internal/http/session"
)

type Handler struct {
	svc *asset.Service
}

func NewHandler(svc *asset.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/status", h.updateStatus)
}

type assetResponse struct {
	ID          uuid.UUID         `json:"id"`
	OwnerID     string            `json:"owner_id"`
	Kind        asset.Kind        `json:"kind"`
	Title       string            `json:"title"`
	Rates       asset.RateTable   `json:"rates"`
	Status      asset.Status      `json:"status"`
	IsListed    bool              `json:"is_listed"`
	HideContact bool              `json:"hide_contact"`
	BookingType asset.BookingType `json:"booking_type"`
	asset.FlatUtilities
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func toResponse(a *asset.Asset) assetResponse {
	rates := a.Rates
	if rates == nil {
		rates = asset.RateTable{}
	}

	return assetResponse{
		ID:            a.ID,
		OwnerID:       a.OwnerID,
		Kind:          a.Kind,
		Title:         a.Title,
		Rates:         rates,
		Status:        a.Status,
		IsListed:      a.IsListed,
		HideContact:   a.HideContact,
		BookingType:   a.BookingType,
		FlatUtilities: asset.Flatten(a.Utilities),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

type createAssetRequest struct {
	OwnerID     string            `json:"owner_id"`
	Kind        asset.Kind        `json:"kind"`
	Title       string            `json:"title"`
	Rates       asset.RateTable   `json:"rates"`
	IsListed    bool              `json:"is_listed"`
	HideContact bool              `json:"hide_contact"`
	BookingType asset.BookingType `json:"booking_type"`
	asset.FlatUtilities
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createAssetRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if req.OwnerID == "" {
		req.OwnerID = session.FromContext(r.Context())
	}

	if req.OwnerID == "" {
		respond.Error(w, r, fmt.Errorf("%w: owner_id is required", respond.ErrBadRequest))
		return
	}

	utilities, err := req.FlatUtilities.For(req.Kind)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	a, err := h.svc.Create(r.Context(), asset.CreateParams{
		OwnerID:     req.OwnerID,
		Kind:        req.Kind,
		Title:       req.Title,
		Rates:       req.Rates,
		IsListed:    req.IsListed,
		HideContact: req.HideContact,
		BookingType: req.BookingType,
		Utilities:   utilities,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, toResponse(a))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := respond.NewQuery(r)

	filter := asset.ListFilter{
		OwnerID:    q.String("owner_id"),
		ListedOnly: r.URL.Query().Get("listed") == "true",
	}

	if k := q.String("kind"); k != nil {
		filter.Kind = new(asset.Kind(*k))
	}

	if s := q.String("status"); s != nil {
		filter.Status = new(asset.Status(*s))
	}

	owner, _, err := respond.Scope(r, filter.OwnerID, nil)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	filter.OwnerID = owner

	assets, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]assetResponse, len(assets))
	for i, a := range assets {
		resp[i] = toResponse(a)
	}

	respond.JSON(w, r, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.URLID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, toResponse(a))
}

type updateStatusRequest struct {
	Status asset.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := respond.URLID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.SetStatus(r.Context(), id, req.Status); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
