package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/eventoshub/eventos-backend/internal/middleware"
	"github.com/eventoshub/eventos-backend/internal/services"
	"github.com/go-chi/chi/v5"
)

type GateHandler struct {
	gateService *services.GateService
}

func NewGateHandler(gateService *services.GateService) *GateHandler {
	return &GateHandler{
		gateService: gateService,
	}
}

// Scan records a gate check-in or check-out
func (h *GateHandler) Scan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	var req services.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.EnrollmentID == 0 || req.EventDayID == 0 {
		http.Error(w, "Enrollment and day IDs are required", http.StatusBadRequest)
		return
	}

	result, err := h.gateService.Scan(ctx, tenant, &req)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Attendance retrieves the recorded attendance for an enrollment on a day
func (h *GateHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	enrollmentID, err1 := strconv.ParseUint(chi.URLParam(r, "enrollment_id"), 10, 64)
	dayID, err2 := strconv.ParseUint(chi.URLParam(r, "day_id"), 10, 64)
	if err1 != nil || err2 != nil {
		http.Error(w, "Invalid enrollment or day ID", http.StatusBadRequest)
		return
	}

	att, err := h.gateService.Attendance(ctx, tenant, uint(enrollmentID), uint(dayID))
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, att)
}
