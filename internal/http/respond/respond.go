package respond

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
	"github.com/MrJamesThe3rd/rentledger/internal/bill"
	"github.com/MrJamesThe3rd/rentledger/internal/importer"
	"github.com/MrJamesThe3rd/rentledger/internal/preset"
	"github.com/MrJamesThe3rd/rentledger/internal/tenancy"
)

// ErrBadRequest marks malformed input: bad JSON, ids or query values.
var ErrBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

type loggerKey struct{}

// WithLogger attaches the request logger used by JSON and Error.
func WithLogger(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

// Logger returns the logger attached to ctx, or a no-op logger.
func Logger(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && log != nil {
		return log
	}

	return zap.NewNop()
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		Logger(r.Context()).Error("failed to encode response", zap.Error(err))
	}
}

// Error maps err onto a status code and writes it. Internal errors are
// logged and hidden from the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		Logger(r.Context()).Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)

		msg = "internal error"
	}

	JSON(w, r, status, errorResponse{Error: msg})
}

func Status(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, importer.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, asset.ErrNotFound),
		errors.Is(err, bill.ErrNotFound),
		errors.Is(err, tenancy.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tenancy.ErrAssetUnavailable),
		errors.Is(err, tenancy.ErrTenancyNotActive),
		errors.Is(err, asset.ErrInvalidStatusTransition):
		return http.StatusConflict
	case errors.Is(err, bill.ErrInvalidChargeAmount),
		errors.Is(err, bill.ErrInvalidChargeName),
		errors.Is(err, bill.ErrTotalOverflow),
		errors.Is(err, bill.ErrInvalidPaymentAmount),
		errors.Is(err, bill.ErrInvalidPaymentMethod),
		errors.Is(err, bill.ErrInvalidStatusOverride),
		errors.Is(err, asset.ErrInvalidRate),
		errors.Is(err, asset.ErrInvalidKind),
		errors.Is(err, asset.ErrUtilitiesMismatch),
		errors.Is(err, tenancy.ErrInvalidTenancy),
		errors.Is(err, preset.ErrInvalidPreset):
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}
