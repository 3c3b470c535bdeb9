package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventoshub/eventos-backend/internal/cache"
	"github.com/eventoshub/eventos-backend/internal/config"
	"github.com/eventoshub/eventos-backend/internal/database"
	"github.com/eventoshub/eventos-backend/internal/handlers"
	"github.com/eventoshub/eventos-backend/internal/middleware"
	"github.com/eventoshub/eventos-backend/internal/models"
	"github.com/eventoshub/eventos-backend/internal/password"
	"github.com/eventoshub/eventos-backend/internal/repository"
	"github.com/eventoshub/eventos-backend/internal/services"
	"github.com/eventoshub/eventos-backend/internal/tokens"
	"github.com/eventoshub/eventos-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting eventos backend")

	// Connect to database
	dbConfig := database.Config{
		Driver:   cfg.Database.Driver,
		Path:     cfg.Database.Path,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		LogLevel: cfg.Database.LogLevel,
	}

	if err := database.Connect(dbConfig); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	// Initialize cache
	var cacheImpl cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Type == "redis" {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		cacheImpl, err = cache.NewRedisCache(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Msg("Redis cache initialized")
	} else {
		cacheImpl = cache.NewMemoryCache()
		log.Info().Msg("Memory cache initialized")
	}

	// Initialize repositories
	tenantRepo := repository.NewTenantRepository()
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	refreshRepo := repository.NewRefreshTokenRepository()
	auditRepo := repository.NewAuditRepository()
	studentRepo := repository.NewStudentRepository()
	eventRepo := repository.NewEventRepository()
	enrollmentRepo := repository.NewEnrollmentRepository()
	certRepo := repository.NewCertificateRepository()

	// Token codec and password hasher
	codec := tokens.NewCodec(tokens.Config{
		AccessSecret:  []byte(cfg.Token.AccessSecret),
		RefreshSecret: []byte(cfg.Token.RefreshSecret),
		AccessTTL:     time.Duration(cfg.Token.AccessExpireMin) * time.Minute,
		RefreshTTL:    time.Duration(cfg.Token.RefreshExpireDays) * 24 * time.Hour,
		Issuer:        cfg.Token.Issuer,
	})
	hasher := password.NewHasher(password.DefaultParams())

	// Gate window timezone, validated by cfg.Validate
	location, err := time.LoadLocation(cfg.Gate.Timezone)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load timezone")
	}

	// Initialize services
	authService := services.NewAuthService(userRepo, roleRepo, refreshRepo, auditRepo, codec, hasher)
	userService := services.NewUserService(userRepo, roleRepo, auditRepo, hasher)
	eventService := services.NewEventService(studentRepo, eventRepo, enrollmentRepo)
	gateService := services.NewGateService(enrollmentRepo, eventRepo, location, cfg.Gate.EarlyMin, cfg.Gate.LateMin)
	certService := services.NewCertificateService(certRepo, enrollmentRepo, eventRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cacheImpl)
	authHandler := handlers.NewAuthHandler(authService)
	usersHandler := handlers.NewUsersHandler(userService)
	rolesHandler := handlers.NewRolesHandler(roleRepo)
	clientHandler := handlers.NewClientHandler(tenantRepo)
	studentsHandler := handlers.NewStudentsHandler(eventService)
	eventsHandler := handlers.NewEventsHandler(eventService)
	gateHandler := handlers.NewGateHandler(gateService)
	attendanceHandler := handlers.NewAttendanceHandler(gateService)
	certsHandler := handlers.NewCertificatesHandler(certService)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints (no authentication required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Tenant-scoped API
	r.Route("/{tenant}", func(r chi.Router) {
		r.Use(middleware.TenantResolver(tenantRepo, cacheImpl))
		r.Use(middleware.Idempotency(cacheImpl))

		// Authentication endpoints
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
			r.Post("/signup", authHandler.Signup)
		})

		// Certificate verification is public within the tenant
		r.Get("/certificates/verify/{code}", certsHandler.Verify)

		// Everything below requires a valid access token
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

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
