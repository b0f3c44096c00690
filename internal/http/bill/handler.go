package bill

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentledger/internal/bill"
	"github.com/MrJamesThe3rd/rentledger/internal/http/respond"
)

type Handler struct {
	svc *bill.Service
}

func NewHandler(svc *bill.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/charges", h.addCharges)
	r.Post("/reminders", h.sendReminders)
	r.Get("/{id}", h.get)
	r.Post("/{id}/payments", h.recordPayment)
	r.Patch("/{id}/status", h.updateStatus)
}

// Filter builds a bill filter from the owner_id, renter_id, tenancy_id,
// asset_id, status, from, to and scope query parameters.
func Filter(r *http.Request) (bill.ListFilter, error) {
	q := respond.NewQuery(r)

	filter := bill.ListFilter{
		OwnerID:   q.String("owner_id"),
		RenterID:  q.String("renter_id"),
		TenancyID: q.UUID("tenancy_id"),
		AssetID:   q.UUID("asset_id"),
		From:      q.Date("from"),
		To:        q.Date("to"),
	}

	if s := q.String("status"); s != nil {
		filter.Status = new(bill.Status(*s))
	}

	if q.Err != nil {
		return bill.ListFilter{}, q.Err
	}

	owner, renter, err := respond.Scope(r, filter.OwnerID, filter.RenterID)
	if err != nil {
		return bill.ListFilter{}, err
	}

	filter.OwnerID, filter.RenterID = owner, renter

	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := Filter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	bills, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, ToResponseList(bills))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.URLID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, ToResponse(b))
}

type paymentRequest struct {
	Amount     int64       `json:"amount"`
	Method     bill.Method `json:"method"`
	Note       string      `json:"note"`
	ReceivedAt *time.Time  `json:"received_at,omitempty"`
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := respond.URLID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req paymentRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	b, err := h.svc.RecordPayment(r.Context(), id, bill.PaymentParams{
		Amount:     req.Amount,
		Method:     req.Method,
		Note:       req.Note,
		ReceivedAt: req.ReceivedAt,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, ToResponse(b))
}

type statusRequest struct {
	Status  bill.Status      `json:"status"`
	Amount  *int64           `json:"amount,omitempty"`
	Percent *decimal.Decimal `json:"percent,omitempty"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := respond.URLID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req statusRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	b, err := h.svc.SetStatus(r.Context(), id, bill.StatusParams{
		Status:  req.Status,
		Partial: bill.Partial{Amount: req.Amount, Percent: req.Percent},
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, ToResponse(b))
}

type chargeLine struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}

type addChargesRequest struct {
	BillIDs []uuid.UUID  `json:"bill_ids"`
	Charges []chargeLine `json:"charges"`
}

type rejectedLine struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

type skippedBill struct {
	BillID uuid.UUID `json:"bill_id"`
	Error  string    `json:"error"`
}

type addChargesResponse struct {
	Updated  []Response     `json:"updated"`
	Rejected []rejectedLine `json:"rejected"`
	Skipped  []skippedBill  `json:"skipped"`
}

func (h *Handler) addCharges(w http.ResponseWriter, r *http.Request) {
	var req addChargesRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if len(req.BillIDs) == 0 || len(req.Charges) == 0 {
		respond.Error(w, r, fmt.Errorf("%w: bill_ids and charges are required", respond.ErrBadRequest))
		return
	}

	lines := make([]bill.ChargeLine, len(req.Charges))
	for i, c := range req.Charges {
		lines[i] = bill.ChargeLine{Name: c.Name, Amount: c.Amount, Note: c.Note}
	}

	res, err := h.svc.AddCharges(r.Context(), req.BillIDs, lines)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := addChargesResponse{
		Updated:  ToResponseList(res.Updated),
		Rejected: make([]rejectedLine, len(res.Rejected)),
		Skipped:  make([]skippedBill, len(res.Skipped)),
	}

	for i, rej := range res.Rejected {
		resp.Rejected[i] = rejectedLine{Index: rej.Index, Name: rej.Name, Error: rej.Err.Error()}
	}

	for i, s := range res.Skipped {
		resp.Skipped[i] = skippedBill{BillID: s.BillID, Error: s.Err.Error()}
	}

	respond.JSON(w, r, http.StatusOK, resp)
}

type remindersResponse struct {
	Sent int `json:"sent"`
}

func (h *Handler) sendReminders(w http.ResponseWriter, r *http.Request) {
	filter, err := Filter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	n, err := h.svc.SendReminders(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusAccepted, remindersResponse{Sent: n})
}
