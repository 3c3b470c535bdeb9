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

type StudentsHandler struct {
	eventService *services.EventService
}

func NewStudentsHandler(eventService *services.EventService) *StudentsHandler {
	return &StudentsHandler{
		eventService: eventService,
	}
}

// List retrieves the students of the tenant
func (h *StudentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	students, err := h.eventService.ListStudents(ctx, tenant)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, students)
}

// Get retrieves one student
func (h *StudentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid student ID", http.StatusBadRequest)
		return
	}

	student, err := h.eventService.GetStudent(ctx, tenant, uint(id))
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, student)
}

// Create registers a student under the tenant
func (h *StudentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	var student models.Student
	if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if student.Name == "" || student.Email == "" {
		http.Error(w, "Name and email are required", http.StatusBadRequest)
		return
	}

	if err := h.eventService.CreateStudent(ctx, tenant, &student); err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, student)
}

// Update applies changes to a student
func (h *StudentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid student ID", http.StatusBadRequest)
		return
	}

	var changes models.Student
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	student, err := h.eventService.UpdateStudent(ctx, tenant, uint(id), &changes)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, student)
}

// Delete removes a student
func (h *StudentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid student ID", http.StatusBadRequest)
		return
	}

	if err := h.eventService.DeleteStudent(ctx, tenant, uint(id)); err != nil {
		serviceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
