package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/eventoshub/eventos-backend/internal/middleware"
	"github.com/eventoshub/eventos-backend/internal/repository"
	"github.com/rs/zerolog/log"
)

// ClientHandler exposes the tenant's own record for self-administration.
type ClientHandler struct {
	tenantRepo *repository.TenantRepository
}

func NewClientHandler(tenantRepo *repository.TenantRepository) *ClientHandler {
	return &ClientHandler{
		tenantRepo: tenantRepo,
	}
}

// Get retrieves the current tenant record
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, tenant)
}

type updateClientRequest struct {
	Name         string         `json:"name,omitempty"`
	LogoURL      string         `json:"logo_url,omitempty"`
	ContactEmail string         `json:"contact_email,omitempty"`
	ContactPhone string         `json:"contact_phone,omitempty"`
	Config       map[string]any `json:"config,omitempty"`
}

// Update applies changes to the current tenant record. Slug and CNPJ are
// immutable through this endpoint.
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	var req updateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name != "" {
		tenant.Name = req.Name
	}
	if req.LogoURL != "" {
		tenant.LogoURL = req.LogoURL
	}
	if req.ContactEmail != "" {
		tenant.ContactEmail = req.ContactEmail
	}
	if req.ContactPhone != "" {
		tenant.ContactPhone = req.ContactPhone
	}
	if req.Config != nil {
		tenant.Config = req.Config
	}

	if err := h.tenantRepo.Update(ctx, tenant); err != nil {
		log.Error().Err(err).Msg("Failed to update tenant")
		http.Error(w, "Failed to update tenant", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, tenant)
}
