package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"linkuup/internal/availability/service"
	httputil "linkuup/pkg/http"
	"linkuup/pkg/logger"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

// Check answers a single-slot availability probe. An unavailable slot is a
// 200 with available=false and a reason code, never an error status.
func (h *AvailabilityHandler) Check(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req service.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Check", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	result, err := h.service.Check(r.Context(), req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Check", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Check", "operation", "WriteSuccess", "error", err)
	}
}

// Plan returns the per-occurrence decisions for a recurring booking request
// without writing anything.
func (h *AvailabilityHandler) Plan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req service.RecurringBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Plan", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	plan, err := h.service.Plan(r.Context(), req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Plan", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, plan); err != nil {
		h.log.Error("failed to write success response", "handler", "Plan", "operation", "WriteSuccess", "error", err)
	}
}

// CommitRecurring plans and writes a recurring series. Occurrences lost to
// concurrent writers come back in the skipped list with reason race_conflict.
func (h *AvailabilityHandler) CommitRecurring(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req service.RecurringBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CommitRecurring", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	result, err := h.service.CommitRecurring(r.Context(), req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CommitRecurring", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "CommitRecurring", "operation", "WriteCreated", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/availability", h.Check)
	router.POST("/api/v1/bookings/recurring/plan", h.Plan)
	router.POST("/api/v1/bookings/recurring", h.CommitRecurring)
}
