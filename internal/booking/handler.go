package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lanangwisana/sentracare-be-booking/pkg/logging"
)

// CallerResolver extracts the verified caller from a request. The auth
// middleware provides the implementation; the handler only consumes it.
type CallerResolver func(r *http.Request) *Caller

// Handler handles HTTP requests for bookings
type Handler struct {
	svc           *Service
	resolveCaller CallerResolver
	logger        *logging.Logger
}

// NewHandler creates a new bookings handler
func NewHandler(svc *Service, resolver CallerResolver, logger *logging.Logger) *Handler {
	if resolver == nil {
		resolver = func(*http.Request) *Caller { return nil }
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, resolveCaller: resolver, logger: logger}
}

// Create handles POST /booking requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode booking request", "error", err)
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	created, err := h.svc.Create(r.Context(), &req, h.resolveCaller(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// UpdateStatus handles PUT /booking/{id}/status requests
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "booking not found")
		return
	}

	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode transition request", "error", err)
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	updated, err := h.svc.Transition(r.Context(), h.resolveCaller(r), id, &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// List handles GET /booking requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.svc.List(r.Context(), h.resolveCaller(r), r.URL.Query().Get("status"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookings)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "INVALID_STATUS", err.Error())
	case errors.Is(err, ErrAlreadyFinalized):
		writeError(w, http.StatusConflict, "ALREADY_FINALIZED", err.Error())
	case IsValidationError(err):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		h.logger.Error("booking request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
