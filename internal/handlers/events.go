package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/eventoshub/eventos-backend/internal/middleware"
	"github.com/eventoshub/eventos-backend/internal/models"
	"github.com/eventoshub/eventos-backend/internal/services"
	"github.com/go-chi/chi/v5"
)

type EventsHandler struct {
	eventService *services.EventService
}

func NewEventsHandler(eventService *services.EventService) *EventsHandler {
	return &EventsHandler{
		eventService: eventService,
	}
}

func eventID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// List retrieves the events of the tenant
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	events, err := h.eventService.ListEvents(ctx, tenant)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// Get retrieves one event with its days
func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	id, ok := eventID(r)
	if !ok {
		http.Error(w, "Invalid event ID", http.StatusBadRequest)
		return
	}

	event, err := h.eventService.GetEvent(ctx, tenant, id)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// Create creates an event under the tenant
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if event.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	if err := h.eventService.CreateEvent(ctx, tenant, &event); err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// Update applies changes to an event
func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	id, ok := eventID(r)
	if !ok {
		http.Error(w, "Invalid event ID", http.StatusBadRequest)
		return
	}

	var changes models.Event
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	event, err := h.eventService.UpdateEvent(ctx, tenant, id, &changes)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// Delete removes an event and its days
func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	id, ok := eventID(r)
	if !ok {
		http.Error(w, "Invalid event ID", http.StatusBadRequest)
		return
	}

	if err := h.eventService.DeleteEvent(ctx, tenant, id); err != nil {
		serviceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddDay appends a scheduled day to an event
func (h *EventsHandler) AddDay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	id, ok := eventID(r)
	if !ok {
		http.Error(w, "Invalid event ID", http.StatusBadRequest)
		return
	}

	var day models.EventDay
	if err := json.NewDecoder(r.Body).Decode(&day); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if day.StartTime == "" || day.EndTime == "" {
		http.Error(w, "Start and end times are required", http.StatusBadRequest)
		return
	}

	if err := h.eventService.AddDay(ctx, tenant, id, &day); err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, day)
}

// ListEnrollments retrieves the enrollments of an event
func (h *EventsHandler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	id, ok := eventID(r)
	if !ok {
		http.Error(w, "Invalid event ID", http.StatusBadRequest)
		return
	}

	enrollments, err := h.eventService.ListEnrollments(ctx, tenant, id)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, enrollments)
}

type enrollRequest struct {
	StudentID uint `json:"student_id"`
}

// Enroll links a student to an event
func (h *EventsHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	id, ok := eventID(r)
	if !ok {
		http.Error(w, "Invalid event ID", http.StatusBadRequest)
		return
	}

	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StudentID == 0 {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	enrollment, err := h.eventService.Enroll(ctx, tenant, id, req.StudentID)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, enrollment)
}

// CancelEnrollment marks an enrollment as cancelled
func (h *EventsHandler) CancelEnrollment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid enrollment ID", http.StatusBadRequest)
		return
	}

	enrollment, cancelErr := h.eventService.CancelEnrollment(ctx, tenant, uint(id))
	if cancelErr != nil {
		serviceError(w, cancelErr)
		return
	}

	writeJSON(w, http.StatusOK, enrollment)
}
