package http_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
	"github.com/MrJamesThe3rd/rentledger/internal/bill"
	"github.com/MrJamesThe3rd/rentledger/internal/export"
	ledgerHTTP "github.com/MrJamesThe3rd/rentledger/internal/http"
	assetHTTP "github.com/MrJamesThe3rd/rentledger/internal/http/asset"
	billHTTP "github.com/MrJamesThe3rd/rentledger/internal/http/bill"
	exportHTTP "github.com/MrJamesThe3rd/rentledger/internal/http/export"
	"github.com/MrJamesThe3rd/rentledger/internal/http/importcsv"
	presetHTTP "github.com/MrJamesThe3rd/rentledger/internal/http/preset"
	"github.com/MrJamesThe3rd/rentledger/internal/http/session"
	tenancyHTTP "github.com/MrJamesThe3rd/rentledger/internal/http/tenancy"
	"github.com/MrJamesThe3rd/rentledger/internal/importer"
	"github.com/MrJamesThe3rd/rentledger/internal/metrics"
	"github.com/MrJamesThe3rd/rentledger/internal/preset"
	"github.com/MrJamesThe3rd/rentledger/internal/store/memory"
	"github.com/MrJamesThe3rd/rentledger/internal/tenancy"
)

type server struct {
	handler  http.Handler
	registry *prometheus.Registry
}

func newServer(t *testing.T, rateLimit float64) *server {
	t.Helper()

	s := memory.New()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, metrics.Config{ServiceName: "rentledger", Environment: "test"})

	var (
		assets    = asset.NewService(s)
		presets   = preset.NewService(s, nil)
		bills     = bill.NewService(s, bill.WithNamer(presets), bill.WithMetrics(m))
		tenancies = tenancy.NewService(s, tenancy.WithMetrics(m))
	)

	handler := ledgerHTTP.New(ledgerHTTP.Handlers{
		Assets:    assetHTTP.NewHandler(assets),
		Tenancies: tenancyHTTP.NewHandler(tenancies),
		Bills:     billHTTP.NewHandler(bills),
		Presets:   presetHTTP.NewHandler(presets),
		Import:    importcsv.NewHandler(importer.NewService(bills, nil)),
		Export:    exportHTTP.NewHandler(export.NewService(bills, assets), nil),
	}, ledgerHTTP.Options{
		Metrics:   m,
		Gatherer:  reg,
		RateLimit: rateLimit,
		RateBurst: 1,
	})

	return &server{handler: handler, registry: reg}
}

func (s *server) do(t *testing.T, method, path, actor string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	r := httptest.NewRequest(method, path, &buf)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}

	if actor != "" {
		r.Header.Set(session.ActorHeader, actor)
	}

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, r)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

type billJSON struct {
	ID            string  `json:"id"`
	Total         int64   `json:"total"`
	PaidAmount    int64   `json:"paid_amount"`
	Due           int64   `json:"due"`
	Status        string  `json:"status"`
	ServiceCharge *int64  `json:"service_charge"`
	FuelCost      *int64  `json:"fuel_cost"`
	PaidDate      *string `json:"paid_date"`
	ExtraCharges  []struct {
		Name   string `json:"name"`
		Amount int64  `json:"amount"`
	} `json:"extra_charges"`
}

type tenancyCreated struct {
	Tenancy struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"tenancy"`
	Bill     billJSON `json:"bill"`
	Warnings []string `json:"warnings"`
}

func createFlat(t *testing.T, s *server) string {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/v1/assets", "owner-1", map[string]any{
		"kind":           "flat",
		"title":          "Banani 3BR",
		"rates":          []map[string]any{{"cycle": "monthly", "amount": 25000}},
		"service_charge": 3000,
		"water_bill":     500,
		"gas_bill":       800,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[struct {
		ID      string `json:"id"`
		OwnerID string `json:"owner_id"`
		Status  string `json:"status"`
	}](t, w)
	assert.Equal(t, "owner-1", created.OwnerID)
	assert.Equal(t, "active", created.Status)

	return created.ID
}

func TestRouter_LedgerFlow(t *testing.T) {
	s := newServer(t, 0)
	assetID := createFlat(t, s)

	w := s.do(t, http.MethodPost, "/api/v1/tenancies", "", map[string]any{
		"asset_id":   assetID,
		"renter_id":  "renter-1",
		"start_date": "2026-05-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[tenancyCreated](t, w)
	assert.Equal(t, "active", created.Tenancy.Status)
	assert.Equal(t, int64(29300), created.Bill.Total)
	assert.Equal(t, "unpaid", created.Bill.Status)
	require.NotNil(t, created.Bill.ServiceCharge)
	assert.Equal(t, int64(3000), *created.Bill.ServiceCharge)
	assert.Nil(t, created.Bill.FuelCost)
	assert.Empty(t, created.Warnings)

	billID := created.Bill.ID

	w = s.do(t, http.MethodPost, "/api/v1/tenancies", "", map[string]any{"asset_id": assetID, "renter_id": "renter-2"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/bills/"+billID+"/payments", "", map[string]any{"amount": 10000, "method": "mobile"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	paid := decode[billJSON](t, w)
	assert.Equal(t, "partial", paid.Status)
	assert.Equal(t, int64(19300), paid.Due)

	w = s.do(t, http.MethodPost, "/api/v1/presets", "", map[string]any{"raw_pattern": "late", "preferred_name": "Late Fee"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/bills/charges", "", map[string]any{
		"bill_ids": []string{billID},
		"charges": []map[string]any{
			{"name": "late payment", "amount": 500},
			{"name": "Parking", "amount": "12.5"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	bulk := decode[struct {
		Updated  []billJSON `json:"updated"`
		Rejected []struct {
			Index int `json:"index"`
		} `json:"rejected"`
		Skipped []any `json:"skipped"`
	}](t, w)
	require.Len(t, bulk.Updated, 1)
	assert.Equal(t, int64(29800), bulk.Updated[0].Total)
	assert.Equal(t, "Late Fee", bulk.Updated[0].ExtraCharges[0].Name)
	require.Len(t, bulk.Rejected, 1)
	assert.Equal(t, 1, bulk.Rejected[0].Index)
	assert.Empty(t, bulk.Skipped)

	w = s.do(t, http.MethodPost, "/api/v1/bills/"+billID+"/payments", "", map[string]any{"amount": 19800})
	require.Equal(t, http.StatusOK, w.Code)
	settled := decode[billJSON](t, w)
	assert.Equal(t, "paid", settled.Status)
	assert.NotNil(t, settled.PaidDate)

	w = s.do(t, http.MethodPatch, "/api/v1/bills/"+billID+"/status", "", map[string]any{"status": "partial", "percent": 50})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	overridden := decode[billJSON](t, w)
	assert.Equal(t, "partial", overridden.Status)
	assert.Equal(t, int64(14900), overridden.PaidAmount)

	w = s.do(t, http.MethodGet, "/api/v1/bills?scope=renter", "renter-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]billJSON](t, w), 1)

	w = s.do(t, http.MethodGet, "/api/v1/bills?scope=renter", "renter-2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]billJSON](t, w))

	w = s.do(t, http.MethodPost, "/api/v1/bills/reminders?renter_id=renter-1", "", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"sent":1}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/tenancies/"+created.Tenancy.ID+"/terminate", "", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/tenancies/"+created.Tenancy.ID+"/terminate", "", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/assets/"+assetID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"active"`)

	assert.Equal(t, float64(2), counterValue(t, s.registry, "rentledger_payments_total"))
}

// counterValue sums every series of a counter family.
func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	var total float64

	for _, f := range families {
		if f.GetName() != name {
			continue
		}

		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}

	return total
}

func TestRouter_ErrorMapping(t *testing.T) {
	s := newServer(t, 0)
	assetID := createFlat(t, s)

	type testCase struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
	}

	tests := []testCase{
		{name: "MalformedID", method: http.MethodGet, path: "/api/v1/bills/not-a-uuid", wantStatus: http.StatusBadRequest},
		{name: "UnknownBill", method: http.MethodGet, path: "/api/v1/bills/6f1c1e9c-0f0b-4a55-9c61-0f5f0c6b2a01", wantStatus: http.StatusNotFound},
		{name: "UnknownAsset", method: http.MethodPost, path: "/api/v1/tenancies", body: map[string]any{"asset_id": "6f1c1e9c-0f0b-4a55-9c61-0f5f0c6b2a01", "renter_id": "r"}, wantStatus: http.StatusNotFound},
		{name: "BadFilterDate", method: http.MethodGet, path: "/api/v1/bills?from=yesterday", wantStatus: http.StatusBadRequest},
		{name: "ScopeWithoutActor", method: http.MethodGet, path: "/api/v1/tenancies?scope=owner", wantStatus: http.StatusBadRequest},
		{name: "UtilitiesOfAnotherKind", method: http.MethodPost, path: "/api/v1/assets", body: map[string]any{"owner_id": "o", "kind": "vehicle", "service_charge": 10}, wantStatus: http.StatusUnprocessableEntity},
		{name: "InvalidRate", method: http.MethodPost, path: "/api/v1/assets", body: map[string]any{"owner_id": "o", "kind": "gadget", "rates": []map[string]any{{"cycle": "daily", "amount": 0}}}, wantStatus: http.StatusUnprocessableEntity},
		{name: "SetRentedDirectly", method: http.MethodPatch, path: "/api/v1/assets/" + assetID + "/status", body: map[string]any{"status": "rented"}, wantStatus: http.StatusConflict},
		{name: "InvalidCycle", method: http.MethodPost, path: "/api/v1/tenancies", body: map[string]any{"asset_id": assetID, "renter_id": "r", "billing_cycle": "fortnightly"}, wantStatus: http.StatusUnprocessableEntity},
		{name: "EmptyBulk", method: http.MethodPost, path: "/api/v1/bills/charges", body: map[string]any{}, wantStatus: http.StatusBadRequest},
		{name: "MissingSuggestQuery", method: http.MethodGet, path: "/api/v1/presets/suggest", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, "", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestRouter_NegativePayment(t *testing.T) {
	s := newServer(t, 0)
	assetID := createFlat(t, s)

	w := s.do(t, http.MethodPost, "/api/v1/tenancies", "", map[string]any{"asset_id": assetID, "renter_id": "renter-1"})
	require.Equal(t, http.StatusCreated, w.Code)
	billID := decode[tenancyCreated](t, w).Bill.ID

	w = s.do(t, http.MethodPost, "/api/v1/bills/"+billID+"/payments", "", map[string]any{"amount": -1})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRouter_ImportSheet(t *testing.T) {
	s := newServer(t, 0)
	assetID := createFlat(t, s)

	w := s.do(t, http.MethodPost, "/api/v1/tenancies", "", map[string]any{"asset_id": assetID, "renter_id": "renter-1"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[tenancyCreated](t, w)

	sheet := "tenancy_id;charge;amount;note\n" +
		created.Tenancy.ID + ";Generator;1200;May\n" +
		created.Tenancy.ID + ";Cleaning;-3;\n"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "charges.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(sheet))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/v1/import", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, r)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	report := decode[struct {
		Profile string     `json:"profile"`
		Rows    int        `json:"rows"`
		Updated []billJSON `json:"updated"`
		Errors  []struct {
			Line int `json:"line"`
		} `json:"errors"`
	}](t, rec)

	assert.Equal(t, "tenancy", report.Profile)
	assert.Equal(t, 2, report.Rows)
	require.Len(t, report.Updated, 1)
	assert.Equal(t, int64(29300+1200), report.Updated[0].Total)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 3, report.Errors[0].Line)
}

func TestRouter_Export(t *testing.T) {
	s := newServer(t, 0)
	assetID := createFlat(t, s)

	w := s.do(t, http.MethodPost, "/api/v1/tenancies", "", map[string]any{"asset_id": assetID, "renter_id": "renter-1", "start_date": "2026-05-01"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/export", "renter-1", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	meta := decode[struct {
		Items []struct {
			AssetTitle string `json:"asset_title"`
			File       string `json:"file"`
		} `json:"items"`
		Summary string `json:"summary"`
	}](t, w)
	require.Len(t, meta.Items, 1)
	assert.Equal(t, "Banani 3BR", meta.Items[0].AssetTitle)
	assert.True(t, strings.HasSuffix(meta.Items[0].File, ".pdf"))
	assert.Contains(t, meta.Summary, "total 29,300")

	w = s.do(t, http.MethodPost, "/api/v1/export/download", "", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestRouter_RateLimit(t *testing.T) {
	s := newServer(t, 0.001)

	w := s.do(t, http.MethodGet, "/api/v1/assets", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/assets", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rentledger_http_rate_limited_total")
}
