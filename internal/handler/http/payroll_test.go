package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/sse"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/memory"
	payrollService "github.com/cmlabs-hris/payroll-engine/internal/service/payroll"
	reportService "github.com/cmlabs-hris/payroll-engine/internal/service/report"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newTestRouter(t *testing.T, ja *jwtauth.JWTAuth) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := payrollService.NewPayrollService(memory.NewStore(), logger)
	require.NoError(t, svc.Init(context.Background()))
	hub := sse.NewHub()
	svc.SetNotifier(hub)

	return NewRouter(
		RouterConfig{Logger: logger, AllowedOrigins: []string{"*"}, JWTAuth: ja},
		NewPayrollHandler(svc, reportService.NewReportService(svc, logger)),
		NewBackupHandler(svc),
		NewEventsHandler(hub),
	)
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func TestHealthz(t *testing.T) {
	rec, _ := doRequest(t, newTestRouter(t, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSettingsEndpoints(t *testing.T) {
	h := newTestRouter(t, nil)

	rec, env := doRequest(t, h, http.MethodPatch, "/api/v1/settings", `{"harian": 100000, "persen": {"overtime": 2}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var settings payroll.SettingsResponse
	require.NoError(t, json.Unmarshal(env.Data, &settings))
	assert.Equal(t, "5.000.000", settings.BasePayDisplay)
	assert.Equal(t, "2", settings.Multipliers[payroll.CategoryOvertime].String())
	assert.Equal(t, "1", settings.Multipliers[payroll.CategorySick].String())

	rec, env = doRequest(t, h, http.MethodPatch, "/api/v1/settings", `{"ksp": -5}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "ksp")

	rec, _ = doRequest(t, h, http.MethodPatch, "/api/v1/settings", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = doRequest(t, h, http.MethodGet, "/api/v1/settings", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &settings))
	assert.Equal(t, "100000", settings.DailyRate.String())
}

func TestRecordLifecycle(t *testing.T) {
	h := newTestRouter(t, nil)
	_, _ = doRequest(t, h, http.MethodPatch, "/api/v1/settings", `{"harian": 100000}`)

	rec, env := doRequest(t, h, http.MethodGet, "/api/v1/records/draft?periode=Maret%202025", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var draft payroll.DraftResponse
	require.NoError(t, json.Unmarshal(env.Data, &draft))
	assert.Equal(t, "Maret 2025", draft.Period)
	assert.Equal(t, "5.000.000", draft.NetTotalDisplay)

	rec, env = doRequest(t, h, http.MethodPost, "/api/v1/records/preview",
		`{"periode": "Maret 2025", "detailAbsensi": {"sakit": 2}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &draft))
	assert.Equal(t, "200000", draft.Corrections.Negative.String())

	rec, env = doRequest(t, h, http.MethodPost, "/api/v1/records", `{"periode": "Februari 2025"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var first payroll.RecordResponse
	require.NoError(t, json.Unmarshal(env.Data, &first))

	rec, env = doRequest(t, h, http.MethodPost, "/api/v1/records",
		`{"periode": "Maret 2025", "detailMasuk": {"transport": 150000}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var second payroll.RecordResponse
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.Equal(t, "150.000", second.NetDeltaDisplay)
	assert.Equal(t, payroll.TrendUp, second.Trend)

	rec, env = doRequest(t, h, http.MethodGet, "/api/v1/records", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []payroll.RecordSummaryResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	rec, env = doRequest(t, h, http.MethodPut, "/api/v1/records/"+first.ID, `{"detailPotong": {"cicilan_hutang": 100000}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated payroll.RecordResponse
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, "4.900.000", updated.NetTotalDisplay)

	rec, env = doRequest(t, h, http.MethodGet, "/api/v1/records/"+second.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got payroll.RecordResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "250.000", got.NetDeltaDisplay)
	assert.Equal(t, first.ID, got.PreviousID)

	rec, _ = doRequest(t, h, http.MethodGet, "/api/v1/records/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doRequest(t, h, http.MethodPost, "/api/v1/records", `{"detailMasuk": {"koreksi_plus": 1}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = doRequest(t, h, http.MethodGet, "/api/v1/records/draft?periode=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doRequest(t, h, http.MethodDelete, "/api/v1/records", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, env = doRequest(t, h, http.MethodGet, "/api/v1/records", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list)
}

func TestDocumentEndpoints(t *testing.T) {
	h := newTestRouter(t, nil)

	rec, env := doRequest(t, h, http.MethodPost, "/api/v1/records", `{"periode": "Maret 2025"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created payroll.RecordResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rec, _ = doRequest(t, h, http.MethodGet, "/api/v1/records/export.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec, _ = doRequest(t, h, http.MethodGet, "/api/v1/records/"+created.ID+"/payslip.pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec, _ = doRequest(t, h, http.MethodGet, "/api/v1/records/missing/payslip.pdf", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBackupEndpoints(t *testing.T) {
	source := newTestRouter(t, nil)
	_, _ = doRequest(t, source, http.MethodPatch, "/api/v1/settings", `{"harian": 90000}`)
	rec, _ := doRequest(t, source, http.MethodPost, "/api/v1/records", `{"periode": "Maret 2025"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = doRequest(t, source, http.MethodGet, "/api/v1/backup", "")
	require.Equal(t, http.StatusOK, rec.Code)
	exported := rec.Body.String()

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(exported), &top))
	assert.Contains(t, top, "listGaji")
	assert.Contains(t, top, "setelanGaji")

	target := newTestRouter(t, nil)
	rec, env := doRequest(t, target, http.MethodPost, "/api/v1/backup/import", exported)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var imported payroll.ImportBackupResponse
	require.NoError(t, json.Unmarshal(env.Data, &imported))
	assert.Equal(t, 1, imported.Records)

	rec, env = doRequest(t, target, http.MethodPost, "/api/v1/backup/import", `{"listGaji": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Backup format invalid", env.Error.Message)

	rec, env = doRequest(t, target, http.MethodGet, "/api/v1/records", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []payroll.RecordSummaryResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1, "failed import leaves history untouched")
}

func TestAuthRequired(t *testing.T) {
	tokens := jwt.NewJWTService(handlerTestSecret, "1h")
	h := newTestRouter(t, tokens.JWTAuth())

	rec, _ := doRequest(t, h, http.MethodGet, "/api/v1/settings", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doRequest(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	token, _, err := tokens.GenerateOwnerToken("owner")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	ok := httptest.NewRecorder()
	h.ServeHTTP(ok, req)
	assert.Equal(t, http.StatusOK, ok.Code)

	_, other, err := tokens.JWTAuth().Encode(map[string]interface{}{"sub": "x", "type": "access"})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	denied := httptest.NewRecorder()
	h.ServeHTTP(denied, req)
	assert.Equal(t, http.StatusUnauthorized, denied.Code)
}

func TestAuthRequired_ExpiredToken(t *testing.T) {
	tokens := jwt.NewJWTService(handlerTestSecret, "1h")
	h := newTestRouter(t, tokens.JWTAuth())

	_, expired, err := tokens.JWTAuth().Encode(map[string]interface{}{
		"sub":  "owner",
		"type": jwt.OwnerTokenType,
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings?jwt="+expired, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "Token expired", env.Error.Message)
}
