package importcsv

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billHTTP "github.com/MrJamesThe3rd/rentledger/internal/http/bill"
	"github.com/MrJamesThe3rd/rentledger/internal/http/respond"
	"github.com/MrJamesThe3rd/rentledger/internal/importer"
)

const maxSheetSize = 10 << 20

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importSheet)
	r.Post("/preview", h.preview)
}

type rowError struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

type importResponse struct {
	Profile string              `json:"profile"`
	Rows    int                 `json:"rows"`
	Updated []billHTTP.Response `json:"updated"`
	Errors  []rowError          `json:"errors"`
}

type rowDTO struct {
	Line   int             `json:"line"`
	Target uuid.UUID       `json:"target_id"`
	Charge string          `json:"charge"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}

type previewResponse struct {
	Profile string     `json:"profile"`
	Target  string     `json:"target"`
	Rows    []rowDTO   `json:"rows"`
	Errors  []rowError `json:"errors"`
}

func toRowErrors(errs []importer.RowError) []rowError {
	out := make([]rowError, len(errs))
	for i, e := range errs {
		out[i] = rowError{Line: e.Line, Error: e.Err.Error()}
	}

	return out
}

func (h *Handler) importSheet(w http.ResponseWriter, r *http.Request) {
	file, err := sheetFile(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	defer file.Close()

	report, err := h.svc.Import(r.Context(), file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, importResponse{
		Profile: report.Profile,
		Rows:    report.Rows,
		Updated: billHTTP.ToResponseList(report.Updated),
		Errors:  toRowErrors(report.Errors),
	})
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	file, err := sheetFile(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	defer file.Close()

	sheet, err := h.svc.Parse(file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	rows := make([]rowDTO, len(sheet.Rows))
	for i, row := range sheet.Rows {
		rows[i] = rowDTO{Line: row.Line, Target: row.Target, Charge: row.Charge, Amount: row.Amount, Note: row.Note}
	}

	respond.JSON(w, r, http.StatusOK, previewResponse{
		Profile: sheet.Profile,
		Target:  string(sheet.Target),
		Rows:    rows,
		Errors:  toRowErrors(sheet.Errors),
	})
}

func sheetFile(r *http.Request) (multipart.File, error) {
	if err := r.ParseMultipartForm(maxSheetSize); err != nil {
		return nil, fmt.Errorf("%w: failed to parse form: %w", respond.ErrBadRequest, err)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: file field is required", respond.ErrBadRequest)
	}

	return file, nil
}
