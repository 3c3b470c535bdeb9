package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/eventoshub/eventos-backend/internal/middleware"
	"github.com/eventoshub/eventos-backend/internal/models"
	"github.com/eventoshub/eventos-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	*services.TokenPair
	User *models.User `json:"user"`
}

// Login authenticates a user of the tenant and issues a token pair
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	pair, user, err := h.authService.Login(ctx, tenant, req.Email, req.Password)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{TokenPair: pair, User: user})
}

type refreshRequest struct {
	Token string `json:"token"`
}

// refreshToken accepts the token in the body or, for older clients, as a
// query parameter.
func refreshToken(r *http.Request) string {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Token != "" {
		return req.Token
	}
	return r.URL.Query().Get("token")
}

// Refresh rotates a refresh token and issues a new pair
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	token := refreshToken(r)
	if token == "" {
		http.Error(w, "Missing refresh token", http.StatusBadRequest)
		return
	}

	pair, err := h.authService.Refresh(ctx, tenant, token)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

// Logout revokes the presented refresh token. Revoking an unknown or already
// revoked token is not an error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	if token := refreshToken(r); token != "" {
		h.authService.Logout(ctx, tenant, token)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type signupRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles,omitempty"`
}

// Signup creates a user account under the tenant
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.authService.Signup(ctx, tenant, req.Name, req.Email, req.Password, req.Roles)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}
