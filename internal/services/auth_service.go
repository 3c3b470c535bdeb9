package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/eventoshub/eventos-backend/internal/models"
	"github.com/eventoshub/eventos-backend/internal/password"
	"github.com/eventoshub/eventos-backend/internal/repository"
	"github.com/eventoshub/eventos-backend/internal/tokens"
	"github.com/rs/zerolog/log"
)

// Scope carried by tokens minted through the login flows.
const defaultScope = "user"

// TokenPair is the login/refresh response payload
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService implements the login, refresh, logout and signup flows.
type AuthService struct {
	users         *repository.UserRepository
	roles         *repository.RoleRepository
	refreshTokens *repository.RefreshTokenRepository
	audit         *repository.AuditRepository
	codec         *tokens.Codec
	hasher        *password.Hasher
}

// NewAuthService creates a new auth service
func NewAuthService(
	users *repository.UserRepository,
	roles *repository.RoleRepository,
	refreshTokens *repository.RefreshTokenRepository,
	audit *repository.AuditRepository,
	codec *tokens.Codec,
	hasher *password.Hasher,
) *AuthService {
	return &AuthService{
		users:         users,
		roles:         roles,
		refreshTokens: refreshTokens,
		audit:         audit,
		codec:         codec,
		hasher:        hasher,
	}
}

// Login authenticates a user within the tenant and issues a token pair. All
// failure modes return ErrInvalidCredentials so callers cannot distinguish a
// wrong password from an unknown or inactive account.
func (s *AuthService) Login(ctx context.Context, tenant *models.Tenant, email, plain string) (*TokenPair, *models.User, error) {
	pair, user, err := s.login(ctx, tenant, email, plain)
	if err != nil {
		loginAttempts.WithLabelValues("failure").Inc()
		return nil, nil, err
	}
	loginAttempts.WithLabelValues("success").Inc()
	return pair, user, nil
}

func (s *AuthService) login(ctx context.Context, tenant *models.Tenant, email, plain string) (*TokenPair, *models.User, error) {
	email = normalizeEmail(email)
	if email == "" || plain == "" {
		return nil, nil, ErrInvalidCredentials
	}
	if err := checkPasswordPolicy(plain); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByTenantAndEmail(ctx, tenant.ID, email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, nil, ErrInvalidCredentials
	}

	ok, newHash := s.hasher.VerifyAndUpgrade(plain, user.HashedPassword)
	if !ok {
		return nil, nil, ErrInvalidCredentials
	}

	if newHash != "" {
		// Upgrade-on-verify. A failed write does not block the login.
		if err := s.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
			log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to persist upgraded password hash")
		} else {
			user.HashedPassword = newHash
		}
	}

	pair, err := s.issuePair(ctx, user, tenant)
	if err != nil {
		return nil, nil, err
	}

	s.appendAudit(ctx, tenant.ID, user.ID, "login")
	return pair, user, nil
}

// Refresh validates a refresh token against the tenant and the revocation
// store, then rotates it: the presented token is revoked and a fresh pair is
// issued in the same transaction. Presenting a revoked token again fails with
// ErrTokenRevoked.
func (s *AuthService) Refresh(ctx context.Context, tenant *models.Tenant, rawToken string) (*TokenPair, error) {
	pair, err := s.refresh(ctx, tenant, rawToken)
	switch {
	case err == nil:
		tokenRefreshes.WithLabelValues("success").Inc()
	case err == ErrTokenRevoked:
		tokenRefreshes.WithLabelValues("revoked").Inc()
	default:
		tokenRefreshes.WithLabelValues("failure").Inc()
	}
	return pair, err
}

func (s *AuthService) refresh(ctx context.Context, tenant *models.Tenant, rawToken string) (*TokenPair, error) {
	claims, err := s.codec.DecodeRefresh(rawToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if claims.Tenant != tenant.Slug {
		return nil, ErrInvalidCredentials
	}

	valid, err := s.refreshTokens.IsValid(ctx, claims.ID, tenant.Slug)
	if err != nil {
		return nil, err
	}
	if !valid {
		record, findErr := s.refreshTokens.Find(ctx, claims.ID)
		if findErr == nil && record != nil && record.RevokedAt != nil {
			return nil, ErrTokenRevoked
		}
		return nil, ErrInvalidCredentials
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.FindByTenantAndID(ctx, tenant.ID, uint(userID))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, ErrInvalidCredentials
	}

	sub := strconv.FormatUint(uint64(user.ID), 10)
	access, _, err := s.codec.IssueAccess(sub, tenant.Slug, defaultScope)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.codec.IssueRefresh(sub, tenant.Slug, defaultScope)
	if err != nil {
		return nil, err
	}
	newClaims, err := s.codec.DecodeRefresh(refresh)
	if err != nil {
		return nil, err
	}

	successor := &models.RefreshToken{
		JTI:        newClaims.ID,
		UserID:     user.ID,
		TenantSlug: tenant.Slug,
		ExpiresAt:  refreshExp,
	}
	if err := s.refreshTokens.Rotate(ctx, claims.ID, successor); err != nil {
		if err == repository.ErrTokenRotated {
			return nil, ErrTokenRevoked
		}
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// Logout revokes the presented refresh token. Invalid or already-revoked
// tokens are ignored; logout never fails for the client.
func (s *AuthService) Logout(ctx context.Context, tenant *models.Tenant, rawToken string) {
	claims, err := s.codec.DecodeRefresh(rawToken)
	if err != nil || claims.Tenant != tenant.Slug {
		return
	}
	if err := s.refreshTokens.Revoke(ctx, claims.ID); err != nil {
		log.Error().Err(err).Str("jti", claims.ID).Msg("Failed to revoke refresh token")
	}
}

// Signup registers a new user in the tenant with optional roles.
func (s *AuthService) Signup(ctx context.Context, tenant *models.Tenant, name, email, plain string, roleNames []string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	if err := checkPasswordPolicy(plain); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByTenantAndEmail(ctx, tenant.ID, email); err == nil {
		return nil, ErrEmailTaken
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	hashed, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, err
	}

	roles, err := resolveRoles(ctx, s.roles, roleNames)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		TenantID:       tenant.ID,
		Name:           name,
		Email:          email,
		HashedPassword: hashed,
		Status:         models.UserStatusActive,
		Roles:          roles,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	signupsTotal.Inc()
	s.appendAudit(ctx, tenant.ID, user.ID, "signup")
	return user, nil
}

func (s *AuthService) issuePair(ctx context.Context, user *models.User, tenant *models.Tenant) (*TokenPair, error) {
	sub := strconv.FormatUint(uint64(user.ID), 10)

	access, _, err := s.codec.IssueAccess(sub, tenant.Slug, defaultScope)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.codec.IssueRefresh(sub, tenant.Slug, defaultScope)
	if err != nil {
		return nil, err
	}
	claims, err := s.codec.DecodeRefresh(refresh)
	if err != nil {
		return nil, err
	}

	record := &models.RefreshToken{
		JTI:        claims.ID,
		UserID:     user.ID,
		TenantSlug: tenant.Slug,
		ExpiresAt:  refreshExp,
	}
	if err := s.refreshTokens.Record(ctx, record); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func (s *AuthService) appendAudit(ctx context.Context, tenantID, userID uint, action string) {
	entry := &models.AuditLog{
		TenantID: tenantID,
		UserID:   userID,
		Entity:   "user",
		EntityID: userID,
		Action:   action,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("Failed to append audit log")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkPasswordPolicy(plain string) error {
	if len(plain) < 8 || len(plain) > 128 {
		return ErrPasswordPolicy
	}
	return nil
}

func resolveRoles(ctx context.Context, repo *repository.RoleRepository, names []string) ([]models.Role, error) {
	if len(names) == 0 {
		return nil, nil
	}
	for _, n := range names {
		if _, ok := models.ParseRole(n); !ok {
			return nil, ErrUnknownRoles
		}
	}
	return repo.FindOrCreate(ctx, names)
}
