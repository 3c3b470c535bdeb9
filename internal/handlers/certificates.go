package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/eventoshub/eventos-backend/internal/middleware"
	"github.com/eventoshub/eventos-backend/internal/services"
	"github.com/go-chi/chi/v5"
)

type CertificatesHandler struct {
	certService *services.CertificateService
}

func NewCertificatesHandler(certService *services.CertificateService) *CertificatesHandler {
	return &CertificatesHandler{
		certService: certService,
	}
}

type issueCertificateRequest struct {
	EnrollmentID uint `json:"enrollment_id"`
}

// Issue creates a certificate record for an enrollment
func (h *CertificatesHandler) Issue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	var req issueCertificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EnrollmentID == 0 {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cert, err := h.certService.Issue(ctx, tenant, req.EnrollmentID)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, cert)
}

// Verify resolves a certificate by its public verify code
func (h *CertificatesHandler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant, ok := middleware.GetTenant(ctx)
	if !ok {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	code := chi.URLParam(r, "code")
	if code == "" {
		http.Error(w, "Missing verify code", http.StatusBadRequest)
		return
	}

	cert, err := h.certService.Verify(ctx, tenant, code)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cert)
}
