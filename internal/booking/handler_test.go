package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanangwisana/sentracare-be-booking/pkg/logging"
)

// testRouter mounts the handler the way the API router does, with the
// caller injected per-request through a header-driven resolver stub.
func testRouter(svc *Service, callers map[string]*Caller) http.Handler {
	resolver := func(r *http.Request) *Caller {
		return callers[r.Header.Get("X-Test-Caller")]
	}
	h := NewHandler(svc, resolver, logging.Default())

	r := chi.NewRouter()
	r.Post("/booking", h.Create)
	r.Put("/booking/{id}/status", h.UpdateStatus)
	r.Get("/booking", h.List)
	return r
}

func defaultCallers() map[string]*Caller {
	return map[string]*Caller{
		"patient": {Email: "siti@example.com", Role: RolePatient},
		"other":   {Email: "other@example.com", Role: RolePatient},
		"staff":   {Email: "staff@example.com", Role: RoleStaff},
		"admin":   {Email: "admin@example.com", Role: RoleSuperAdmin},
	}
}

func doJSON(t *testing.T, router http.Handler, method, path, callerKey string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if callerKey != "" {
		req.Header.Set("X-Test-Caller", callerKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateBookingEndpoint(t *testing.T) {
	svc, _ := newTestService(nil)
	router := testRouter(svc, defaultCallers())

	w := doJSON(t, router, http.MethodPost, "/booking", "patient", validCreateRequest())
	require.Equal(t, http.StatusCreated, w.Code)

	var created Booking
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, StatusPending, created.Status)
	assert.Equal(t, "siti@example.com", created.Email)
}

func TestCreateBookingUnauthenticated(t *testing.T) {
	svc, repo := newTestService(nil)
	router := testRouter(svc, defaultCallers())

	w := doJSON(t, router, http.MethodPost, "/booking", "", validCreateRequest())
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")

	rows, _ := repo.List(context.Background(), ListFilter{})
	assert.Empty(t, rows)
}

func TestCreateBookingInvalidJSON(t *testing.T) {
	svc, _ := newTestService(nil)
	router := testRouter(svc, defaultCallers())

	req := httptest.NewRequest(http.MethodPost, "/booking", strings.NewReader("{"))
	req.Header.Set("X-Test-Caller", "patient")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestCreateBookingValidationError(t *testing.T) {
	svc, _ := newTestService(nil)
	router := testRouter(svc, defaultCallers())

	req := validCreateRequest()
	req.ServiceSubtype = "BLOOD_TEST" // belongs to LAB_TEST, not VACCINATION
	w := doJSON(t, router, http.MethodPost, "/booking", "patient", req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestUpdateStatusEndpoint(t *testing.T) {
	svc, _ := newTestService(nil)
	router := testRouter(svc, defaultCallers())
	created := mustCreate(t, svc)

	w := doJSON(t, router, http.MethodPut, "/booking/1/status", "staff", TransitionRequest{
		Status:     "CONFIRMED",
		DoctorName: "Dr. Ayu",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated Booking
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, StatusConfirmed, updated.Status)
	assert.Equal(t, "Dr. Ayu", updated.DoctorName)
}

func TestUpdateStatusErrors(t *testing.T) {
	svc, _ := newTestService(nil)
	router := testRouter(svc, defaultCallers())
	mustCreate(t, svc)

	tests := []struct {
		name     string
		path     string
		caller   string
		body     TransitionRequest
		wantCode int
		wantBody string
	}{
		{"unknown id", "/booking/99/status", "staff", TransitionRequest{Status: "CANCELLED"}, http.StatusNotFound, "NOT_FOUND"},
		{"invalid status", "/booking/1/status", "staff", TransitionRequest{Status: "DONE"}, http.StatusBadRequest, "INVALID_STATUS"},
		{"missing doctor", "/booking/1/status", "staff", TransitionRequest{Status: "CONFIRMED"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"patient forbidden", "/booking/1/status", "patient", TransitionRequest{Status: "CANCELLED"}, http.StatusForbidden, "FORBIDDEN"},
		{"anonymous", "/booking/1/status", "", TransitionRequest{Status: "CANCELLED"}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"non-numeric id", "/booking/abc/status", "staff", TransitionRequest{Status: "CANCELLED"}, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPut, tt.path, tt.caller, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestUpdateStatusConflictOnTerminalRow(t *testing.T) {
	svc, _ := newTestService(nil)
	router := testRouter(svc, defaultCallers())
	mustCreate(t, svc)

	w := doJSON(t, router, http.MethodPut, "/booking/1/status", "staff", TransitionRequest{Status: "CANCELLED"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPut, "/booking/1/status", "staff", TransitionRequest{Status: "CONFIRMED", DoctorName: "Dr. Ayu"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ALREADY_FINALIZED")
}

func TestListEndpointVisibility(t *testing.T) {
	svc, _ := newTestService(nil)
	callers := defaultCallers()
	router := testRouter(svc, callers)

	mustCreate(t, svc) // siti@example.com
	w := doJSON(t, router, http.MethodPost, "/booking", "other", validCreateRequest())
	require.Equal(t, http.StatusCreated, w.Code)

	assertListLen := func(caller string, want int) {
		t.Helper()
		w := doJSON(t, router, http.MethodGet, "/booking", caller, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var rows []Booking
		require.NoError(t, json.NewDecoder(w.Body).Decode(&rows))
		assert.Len(t, rows, want, "caller %q", caller)
	}

	assertListLen("admin", 2)
	assertListLen("patient", 1)
	assertListLen("", 0)
}
