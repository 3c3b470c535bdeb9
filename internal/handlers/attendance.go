package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/eventoshub/eventos-backend/internal/middleware"
	"github.com/eventoshub/eventos-backend/internal/services"
)

// AttendanceHandler serves the manual attendance endpoints used by front
// desk staff when the gate is unavailable.
type AttendanceHandler struct {
	gateService *services.GateService
}

func NewAttendanceHandler(gateService *services.GateService) *AttendanceHandler {
	return &AttendanceHandler{
		gateService: gateService,
	}
}

type attendanceRequest struct {
	EnrollmentID uint   `json:"enrollment_id"`
	EventDayID   uint   `json:"event_day_id"`
	Origin       string `json:"origin,omitempty"`
}

// Checkin records a manual check-in for an enrollment on a day
func (h *AttendanceHandler) Checkin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	var req attendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.EnrollmentID == 0 || req.EventDayID == 0 {
		http.Error(w, "Enrollment and day IDs are required", http.StatusBadRequest)
		return
	}

	att, err := h.gateService.ManualCheckin(ctx, tenant, req.EnrollmentID, req.EventDayID, req.Origin)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, att)
}

// Checkout records a manual check-out for an enrollment on a day
func (h *AttendanceHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	var req attendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.EnrollmentID == 0 || req.EventDayID == 0 {
		http.Error(w, "Enrollment and day IDs are required", http.StatusBadRequest)
		return
	}

	att, err := h.gateService.ManualCheckout(ctx, tenant, req.EnrollmentID, req.EventDayID)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, att)
}
