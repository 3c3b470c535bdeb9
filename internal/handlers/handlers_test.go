package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/eventoshub/eventos-backend/internal/cache"
	"github.com/eventoshub/eventos-backend/internal/database"
	"github.com/eventoshub/eventos-backend/internal/middleware"
	"github.com/eventoshub/eventos-backend/internal/models"
	"github.com/eventoshub/eventos-backend/internal/password"
	"github.com/eventoshub/eventos-backend/internal/repository"
	"github.com/eventoshub/eventos-backend/internal/services"
	"github.com/eventoshub/eventos-backend/internal/tokens"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// newTestServer wires the full tenant-scoped API the way cmd/server does and
// returns the router plus the repositories needed for fixtures.
func newTestServer(t *testing.T) *chi.Mux {
	t.Helper()
	err := database.Connect(database.Config{
		Driver:   "sqlite",
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	tenantRepo := repository.NewTenantRepository()
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	refreshRepo := repository.NewRefreshTokenRepository()
	auditRepo := repository.NewAuditRepository()
	studentRepo := repository.NewStudentRepository()
	eventRepo := repository.NewEventRepository()
	enrollmentRepo := repository.NewEnrollmentRepository()
	certRepo := repository.NewCertificateRepository()

	codec := tokens.NewCodec(tokens.Config{
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		AccessTTL:     30 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		Issuer:        "eventos",
	})
	hasher := password.NewHasher(password.Params{Time: 1, Memory: 1024, Threads: 1, SaltLen: 8, KeyLen: 16})
	location, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	authService := services.NewAuthService(userRepo, roleRepo, refreshRepo, auditRepo, codec, hasher)
	userService := services.NewUserService(userRepo, roleRepo, auditRepo, hasher)
	eventService := services.NewEventService(studentRepo, eventRepo, enrollmentRepo)
	gateService := services.NewGateService(enrollmentRepo, eventRepo, location, 15, 30)
	certService := services.NewCertificateService(certRepo, enrollmentRepo, eventRepo)

	authHandler := NewAuthHandler(authService)
	usersHandler := NewUsersHandler(userService)
	rolesHandler := NewRolesHandler(roleRepo)
	clientHandler := NewClientHandler(tenantRepo)
	studentsHandler := NewStudentsHandler(eventService)
	eventsHandler := NewEventsHandler(eventService)
	gateHandler := NewGateHandler(gateService)
	attendanceHandler := NewAttendanceHandler(gateService)
	certsHandler := NewCertificatesHandler(certService)

	r := chi.NewRouter()
	r.Route("/{tenant}", func(r chi.Router) {
		r.Use(middleware.TenantResolver(tenantRepo, nil))
		r.Use(middleware.Idempotency(cache.NewMemoryCache()))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
			r.Post("/signup", authHandler.Signup)
		})

		r.Get("/certificates/verify/{code}", certsHandler.Verify)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(codec, userRepo))

			r.Get("/roles", rolesHandler.List)

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAnyRole(models.RoleAdmin))
				r.Get("/", usersHandler.List)
				r.Post("/", usersHandler.Create)
				r.Put("/{id}/roles", usersHandler.SetRoles)
			})

			r.Route("/client", func(r chi.Router) {
				r.Get("/", clientHandler.Get)
				r.With(middleware.RequireAnyRole(models.RoleAdmin)).Put("/", clientHandler.Update)
			})

			r.Route("/students", func(r chi.Router) {
				r.Use(middleware.RequireMinRole(models.RoleOrganizer))
				r.Get("/", studentsHandler.List)
				r.Post("/", studentsHandler.Create)
				r.Get("/{id}", studentsHandler.Get)
				r.Put("/{id}", studentsHandler.Update)
				r.Delete("/{id}", studentsHandler.Delete)
			})

			r.Route("/events", func(r chi.Router) {
				r.With(middleware.RequireMinRole(models.RolePortaria)).Get("/", eventsHandler.List)
				r.With(middleware.RequireMinRole(models.RolePortaria)).Get("/{id}", eventsHandler.Get)
				r.With(middleware.RequireMinRole(models.RolePortaria)).Get("/{id}/enrollments", eventsHandler.ListEnrollments)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireMinRole(models.RoleOrganizer))
					r.Post("/", eventsHandler.Create)
					r.Put("/{id}", eventsHandler.Update)
					r.Delete("/{id}", eventsHandler.Delete)
					r.Post("/{id}/days", eventsHandler.AddDay)
					r.Post("/{id}/enrollments", eventsHandler.Enroll)
				})
			})

			r.With(middleware.RequireMinRole(models.RoleOrganizer)).
				Put("/enrollments/{id}/cancel", eventsHandler.CancelEnrollment)

			r.Route("/attendance", func(r chi.Router) {
				r.Use(middleware.RequireMinRole(models.RolePortaria))
				r.Post("/checkin", attendanceHandler.Checkin)
				r.Post("/checkout", attendanceHandler.Checkout)
			})

			r.With(middleware.RequireMinRole(models.RolePortaria)).
				Post("/gate/scan", gateHandler.Scan)
			r.With(middleware.RequireMinRole(models.RolePortaria)).
				Get("/gate/attendance/{enrollment_id}/{day_id}", gateHandler.Attendance)

			r.With(middleware.RequireMinRole(models.RoleOrganizer)).
				Post("/certificates", certsHandler.Issue)
		})
	})
	return r
}

func createTenant(t *testing.T, slug string) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{Name: slug, Slug: slug}
	require.NoError(t, repository.NewTenantRepository().Create(context.Background(), tenant))
	return tenant
}

func do(router http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

type tokenPairBody struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	User         struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// signupAndLogin provisions a user through the public endpoints and returns
// the issued pair.
func signupAndLogin(t *testing.T, router http.Handler, slug, email, pw string, roles ...string) tokenPairBody {
	t.Helper()
	rec := do(router, http.MethodPost, "/"+slug+"/auth/signup", "", map[string]any{
		"name": email, "email": email, "password": pw, "roles": roles,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "signup: %s", rec.Body.String())

	rec = do(router, http.MethodPost, "/"+slug+"/auth/login", "", map[string]any{
		"email": email, "password": pw,
	})
	require.Equal(t, http.StatusOK, rec.Code, "login: %s", rec.Body.String())
	return decode[tokenPairBody](t, rec)
}
