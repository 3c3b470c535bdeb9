package handlers

import (
	"net/http"

	"github.com/eventoshub/eventos-backend/internal/repository"
	"github.com/rs/zerolog/log"
)

type RolesHandler struct {
	roleRepo *repository.RoleRepository
}

func NewRolesHandler(roleRepo *repository.RoleRepository) *RolesHandler {
	return &RolesHandler{
		roleRepo: roleRepo,
	}
}

// List retrieves the role vocabulary
func (h *RolesHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roleRepo.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list roles")
		http.Error(w, "Failed to list roles", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, roles)
}
