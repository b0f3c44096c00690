package preset

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/rentledger/internal/http/respond"
	"github.com/MrJamesThe3rd/rentledger/internal/preset"
)

type Handler struct {
	svc *preset.Service
}

func NewHandler(svc *preset.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	RawName       string `json:"raw_name"`
	PreferredName string `json:"preferred_name"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("raw_name")
	if raw == "" {
		respond.Error(w, r, fmt.Errorf("%w: raw_name query parameter is required", respond.ErrBadRequest))
		return
	}

	preferred, err := h.svc.Suggest(r.Context(), raw)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, suggestResponse{RawName: raw, PreferredName: preferred})
}

type learnRequest struct {
	RawPattern    string `json:"raw_pattern"`
	PreferredName string `json:"preferred_name"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Learn(r.Context(), req.RawPattern, req.PreferredName); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
