package export

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/rentledger/internal/bill"
	"github.com/MrJamesThe3rd/rentledger/internal/export"
	billHTTP "github.com/MrJamesThe3rd/rentledger/internal/http/bill"
	"github.com/MrJamesThe3rd/rentledger/internal/http/respond"
)

const summaryFile = "summary.txt"

type Handler struct {
	svc *export.Service
	log *zap.Logger
}

func NewHandler(svc *export.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}

	return &Handler{svc: svc, log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	OwnerID  *string      `json:"owner_id,omitempty"`
	RenterID *string      `json:"renter_id,omitempty"`
	Status   *bill.Status `json:"status,omitempty"`
	From     *time.Time   `json:"from,omitempty"`
	To       *time.Time   `json:"to,omitempty"`
}

type exportItem struct {
	Bill       billHTTP.Response `json:"bill"`
	AssetTitle string            `json:"asset_title"`
	File       string            `json:"file"`
}

type exportMetadataResponse struct {
	Items   []exportItem `json:"items"`
	Summary string       `json:"summary"`
}

func (h *Handler) filter(r *http.Request) (bill.ListFilter, error) {
	var req exportRequest
	if err := respond.Decode(r, &req); err != nil {
		return bill.ListFilter{}, err
	}

	owner, renter, err := respond.Scope(r, req.OwnerID, req.RenterID)
	if err != nil {
		return bill.ListFilter{}, err
	}

	return bill.ListFilter{
		OwnerID:  owner,
		RenterID: renter,
		Status:   req.Status,
		From:     req.From,
		To:       req.To,
	}, nil
}

// run exports into a fresh temporary directory. The caller removes it.
func (h *Handler) run(r *http.Request) (string, []export.Item, error) {
	filter, err := h.filter(r)
	if err != nil {
		return "", nil, err
	}

	tmpDir, err := os.MkdirTemp("", "rentledger-export-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating export directory: %w", err)
	}

	items, err := h.svc.Export(r.Context(), filter, tmpDir)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", nil, err
	}

	return tmpDir, items, nil
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	tmpDir, items, err := h.run(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	defer os.RemoveAll(tmpDir)

	resp := exportMetadataResponse{
		Items:   make([]exportItem, 0, len(items)),
		Summary: h.svc.GenerateSummary(items),
	}

	for _, item := range items {
		resp.Items = append(resp.Items, exportItem{
			Bill:       billHTTP.ToResponse(item.Bill),
			AssetTitle: item.AssetTitle,
			File:       filepath.Base(item.FilePath),
		})
	}

	respond.JSON(w, r, http.StatusOK, resp)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	tmpDir, items, err := h.run(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	defer os.RemoveAll(tmpDir)

	summary := h.svc.GenerateSummary(items)
	if err := os.WriteFile(filepath.Join(tmpDir, summaryFile), []byte(summary), 0o644); err != nil {
		respond.Error(w, r, fmt.Errorf("writing summary: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"statements_%s.zip\"", time.Now().Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	err = filepath.Walk(tmpDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		relPath, _ := filepath.Rel(tmpDir, path)

		zf, err := zipWriter.Create(relPath)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(zf, f)

		return err
	})
	if err != nil {
		h.log.Error("failed to create zip", zap.Error(err))
	}
}
