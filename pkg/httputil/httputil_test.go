package httputil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailku/order-admin/pkg/errors"
	"github.com/retailku/order-admin/pkg/i18n"
	"github.com/retailku/order-admin/pkg/logger"
)

func TestJSONWithMeta(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONWithMeta(rec, http.StatusOK, []string{"a"}, &Meta{Page: 1, PerPage: 5, Total: 0, TotalPages: 0})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(0), meta["total_pages"])
	assert.Equal(t, float64(5), meta["per_page"])
}

func TestError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.ViewLoading())

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "VIEW_LOADING", resp.Error.Code)
}

func TestError_UnknownError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}

func TestErrorLocalized(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(i18n.WithLocale(req.Context(), i18n.LocaleIndonesian))
	rec := httptest.NewRecorder()

	ErrorLocalized(rec, req, errors.NotFound("order"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Pesanan tidak ditemukan", resp.Error.Message)
}

type statusBody struct {
	Status string `json:"status" validate:"required,order_status"`
}

func TestDecodeAndValidate(t *testing.T) {
	require.NoError(t, RegisterCustomValidation("order_status", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "Telah sampai"
	}))

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"valid", `{"status":"Telah sampai"}`, ""},
		{"malformed", `{"status":`, "BAD_REQUEST"},
		{"missing", `{}`, "VALIDATION_ERROR"},
		{"unknown status", `{"status":"Hilang"}`, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(tt.body))
			var body statusBody
			err := DecodeAndValidate(req, &body)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			var appErr *errors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "fixed")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "fixed", seen)
}

func TestLogger_RecordsUserSetDownstream(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "test")

	authenticate := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), "admin-1", "admin")))
		})
	}
	h := RequestID(Logger(log)(authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/pesanan", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "admin-1", entry["user_id"])
	assert.Equal(t, "admin", entry["user_role"])
	assert.Equal(t, float64(http.StatusNoContent), entry["status"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestLogger_AnonymousRequest(t *testing.T) {
	var buf bytes.Buffer
	h := Logger(logger.NewWithWriter(&buf, "test"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "", entry["user_id"])
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
