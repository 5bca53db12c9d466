package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brayaaan/Finbot/internal/backup"
	"github.com/Brayaaan/Finbot/internal/handlers"
	"github.com/Brayaaan/Finbot/internal/invoice"
	"github.com/Brayaaan/Finbot/internal/pdf"
	"github.com/Brayaaan/Finbot/internal/routes"
	"github.com/Brayaaan/Finbot/internal/store"
)

const generateBody = `{
	"system_instruction": "ignored by the pipeline",
	"invoice_data": {
		"numer_faktury": "FV/2024/001",
		"sprzedawca": {"nazwa": "Jan Kowalski"},
		"nabywca": {"nazwa": "ACME", "nip": "1234567890"},
		"pozycje": [{
			"nazwa": "Konsultacja",
			"ilosc": 1,
			"cena_netto": 100,
			"wartosc_netto": 100,
			"stawka_vat": 0,
			"kwota_vat": 0,
			"wartosc_brutto": 100
		}],
		"suma_netto": 100,
		"suma_vat": 0,
		"suma_brutto": 100
	}
}`

type testEnv struct {
	router *gin.Engine
	store  store.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }

	sink, err := backup.NewFileSinkWithClock(t.TempDir(), clock)
	require.NoError(t, err)

	invoices := store.NewMemoryStore()
	handler := handlers.NewInvoiceHandlerWithClock(
		invoice.NewNormalizerWithClock(clock),
		pdf.NewRenderer(pdf.LoadFonts("testdata-missing")),
		invoices,
		sink,
		clock,
	)

	r := gin.New()
	routes.RegisterRoutes(r, handler)
	return &testEnv{router: r, store: invoices}
}

func (e *testEnv) do(method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestGenerate_Success(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/invoice/generate", []byte(generateBody))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status        string `json:"status"`
		InvoiceNumber string `json:"invoice_number"`
		Totals        struct {
			Netto  float64 `json:"netto"`
			VAT    float64 `json:"vat"`
			Brutto float64 `json:"brutto"`
		} `json:"totals"`
		ItemsCount    int     `json:"items_count"`
		DownloadURL   string  `json:"download_url"`
		BackupCreated bool    `json:"backup_created"`
		BackupID      *string `json:"backup_id"`
		Timestamp     string  `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "FV/2024/001", resp.InvoiceNumber)
	assert.Equal(t, 100.0, resp.Totals.Netto)
	assert.Equal(t, 0.0, resp.Totals.VAT)
	assert.Equal(t, 100.0, resp.Totals.Brutto)
	assert.Equal(t, 1, resp.ItemsCount)
	assert.Equal(t, "/api/invoice/FV/2024/001/pdf", resp.DownloadURL)
	assert.True(t, resp.BackupCreated)
	require.NotNil(t, resp.BackupID)
	assert.Len(t, *resp.BackupID, 8)
	assert.Equal(t, "2024-03-15T10:00:00Z", resp.Timestamp)
}

func TestGenerate_InvalidPayload(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/invoice/generate", []byte("{nie json"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownload_RoundTrip(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusOK,
		env.do(http.MethodPost, "/api/invoice/generate", []byte(generateBody)).Code)

	stored, err := env.store.Get("FV/2024/001")
	require.NoError(t, err)

	// Number contains slashes; they are part of the path.
	w := env.do(http.MethodGet, "/api/invoice/FV/2024/001/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=rachunek_FV_2024_001.pdf",
		w.Header().Get("Content-Disposition"))

	// The cached bytes are returned, not a fresh render.
	assert.Equal(t, stored.PDF, w.Body.Bytes())
}

func TestDownload_PercentEncodedNumber(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusOK,
		env.do(http.MethodPost, "/api/invoice/generate", []byte(generateBody)).Code)

	// Clients that double-encode still reach the invoice thanks to the
	// decode-then-raw lookup fallback.
	w := env.do(http.MethodGet, "/api/invoice/FV%252F2024%252F001/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestDownload_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/invoice/nie-istnieje/pdf", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "nie-istnieje")
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusOK,
		env.do(http.MethodPost, "/api/invoice/generate", []byte(generateBody)).Code)

	w := env.do(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status        string `json:"status"`
		BackupsCount  int    `json:"backups_count"`
		DashboardData struct {
			GrossIncome  string `json:"przychód_brutto"`
			InvoiceCount int    `json:"liczba_wygenerowanych_rachunków"`
			Recent       []struct {
				Number string `json:"Numer"`
			} `json:"ostatnie_rachunki"`
		} `json:"dashboard_data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 1, resp.BackupsCount)
	assert.Equal(t, "100.00 zł", resp.DashboardData.GrossIncome)
	assert.Equal(t, 1, resp.DashboardData.InvoiceCount)
	require.Len(t, resp.DashboardData.Recent, 1)
	assert.Equal(t, "FV/2024/001", resp.DashboardData.Recent[0].Number)
}

func TestDashboard_EmptyStore(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"0.00 zł"`)
}

func TestPreflight(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodOptions, "/api/invoice/FV/2024/001/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"OK"}`, w.Body.String())
}

// failingSink simulates backup storage being unavailable.
type failingSink struct{}

func (failingSink) Write(string, []byte) (string, error) {
	return "", errors.New("disk full")
}

func (failingSink) Count() (int, error) {
	return 0, errors.New("disk full")
}

func TestGenerate_BackupFailureIsNotFatal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	clock := func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }

	handler := handlers.NewInvoiceHandlerWithClock(
		invoice.NewNormalizerWithClock(clock),
		pdf.NewRenderer(pdf.LoadFonts("testdata-missing")),
		store.NewMemoryStore(),
		failingSink{},
		clock,
	)
	r := gin.New()
	routes.RegisterRoutes(r, handler)

	req := httptest.NewRequest(http.MethodPost, "/api/invoice/generate", bytes.NewReader([]byte(generateBody)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		BackupCreated bool    `json:"backup_created"`
		BackupID      *string `json:"backup_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.BackupCreated)
	assert.Nil(t, resp.BackupID)
}
