// Package server provides the HTTP server implementation for the Tunegie
// authentication backend. It handles routing, middleware configuration, and
// server lifecycle management.
//
// The server package follows a structured initialization approach with
// dependency injection and proper lifecycle management. It handles graceful
// shutdown and periodic maintenance tasks, with appropriate error handling
// and recovery mechanisms.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rudoxe/Tunegie-sub001/internal/auth"
	"github.com/rudoxe/Tunegie-sub001/internal/config"
	"github.com/rudoxe/Tunegie-sub001/internal/constants"
	"github.com/rudoxe/Tunegie-sub001/internal/database"
	"github.com/rudoxe/Tunegie-sub001/internal/handlers"
	"github.com/rudoxe/Tunegie-sub001/internal/repository"
	"github.com/rudoxe/Tunegie-sub001/internal/service"
	"github.com/rudoxe/Tunegie-sub001/internal/utils"
	"github.com/rudoxe/Tunegie-sub001/migrations"
	"github.com/rudoxe/Tunegie-sub001/scripts"
)

// Handlers contains all HTTP handlers for the application.
// It centralizes handler management for consistent request processing
// and simplifies dependency injection throughout the application.
type Handlers struct {
	// AuthHandler manages registration, login, and token endpoints
	AuthHandler *handlers.AuthHandler

	// UserHandler manages user profile and account endpoints
	UserHandler *handlers.UserHandler

	// PasswordResetHandler manages the forgot/reset password endpoints
	PasswordResetHandler *handlers.PasswordResetHandler
}

// AuthProviders contains all authentication providers for the application.
// This structure encapsulates authentication-related dependencies
// to simplify initialization and testing.
type AuthProviders struct {
	// JWTService handles JWT token generation and validation
	JWTService *auth.JWTService

	// Hasher handles password hashing and verification
	Hasher *auth.PasswordHasher
}

// Server represents the API server for the Tunegie authentication backend.
// It encapsulates all server components and handles server lifecycle
// management, including initialization, startup, and graceful shutdown.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access
	Db *database.Pool

	// router handles HTTP routing
	router chi.Router

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	// authProviders contains authentication services
	authProviders *AuthProviders

	// httpServer is the underlying HTTP server
	httpServer *http.Server
}

// NewServer creates a new server instance with all required components.
// It initializes the database, authentication providers, repositories,
// services, and handlers, then sets up the HTTP routes.
//
// The server initialization follows a specific order to ensure proper
// dependency management: database → auth providers → repositories →
// services → handlers → routes.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	// Create server instance
	s := &Server{
		Config: cfg,
	}

	// Initialize components
	if err := s.setupDatabase(); err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	if err := s.setupAuthProviders(); err != nil {
		return nil, fmt.Errorf("failed to set up auth providers: %w", err)
	}

	if err := s.setupRepositories(); err != nil {
		return nil, fmt.Errorf("failed to set up repositories: %w", err)
	}

	if err := s.setupServices(); err != nil {
		return nil, fmt.Errorf("failed to set up services: %w", err)
	}

	if err := s.setupHandlers(); err != nil {
		return nil, fmt.Errorf("failed to set up handlers: %w", err)
	}

	// Set up routes
	s.SetupRoutes()

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupDatabase initializes the database connection and runs migrations.
// It ensures the database schema is up-to-date and seeds the bootstrap
// admin account if one is configured.
func (s *Server) setupDatabase() error {
	// Connect to the database
	db, err := database.Connect(s.Config)
	if err != nil {
		return err
	}

	s.Db = db

	// Run migrations to create tables if they don't exist
	migrator := migrations.NewMigrator(db)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Seed initial data
	seeder := scripts.NewSeeder(db, s.Config)
	if err := seeder.SeedDatabase(context.Background()); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	return nil
}

// setupAuthProviders initializes authentication providers.
// It creates services for JWT token management and password handling,
// and installs the active password policy.
func (s *Server) setupAuthProviders() error {
	// Create JWT service
	jwtService := auth.NewJWTService(&s.Config.JWT)

	// Create password hasher
	hasher := auth.HasherFromAppConfig(s.Config)

	// The policy applies everywhere a password enters the system:
	// registration, reset, and validation tags alike.
	utils.SetPasswordPolicy(utils.DefaultPasswordPolicy())

	// Store providers
	s.authProviders = &AuthProviders{
		JWTService: jwtService,
		Hasher:     hasher,
	}

	return nil
}

// repositories holds all repositories used by the server.
// These provide data access abstraction for different domain entities.
var repositories struct {
	userRepo  repository.UserRepository
	resetRepo repository.PasswordResetRepository
}

// setupRepositories initializes all data repositories.
// It creates repository instances for each domain entity using the
// database connection.
func (s *Server) setupRepositories() error {
	// Initialize repositories
	repositories.userRepo = repository.NewUserRepository(s.Db)
	repositories.resetRepo = repository.NewPasswordResetRepository(s.Db)

	return nil
}

// services holds all services used by the server.
// These provide business logic implementations for the application.
var services struct {
	authService *service.AuthService
	userService *service.UserService
}

// setupServices initializes all business services.
// It creates service instances using the previously initialized
// repositories.
func (s *Server) setupServices() error {
	// Initialize services with explicit error handling
	if s.authProviders == nil || s.authProviders.JWTService == nil {
		return fmt.Errorf("JWT service not initialized")
	}
	if s.authProviders.Hasher == nil {
		return fmt.Errorf("password hasher not initialized")
	}

	resetTokenService := service.NewResetTokenService(
		repositories.resetRepo,
		s.Config.ResetToken.Expiry,
	)

	emailSender, err := s.setupEmailSender()
	if err != nil {
		return err
	}

	services.authService = service.NewAuthService(
		repositories.userRepo,
		resetTokenService,
		emailSender,
		s.authProviders.JWTService,
		s.authProviders.Hasher,
	)

	services.userService = service.NewUserService(repositories.userRepo)

	return nil
}

// setupEmailSender picks the outbound email implementation.
// Production requires a configured SendGrid account. Other environments
// fall back to a log-only sender so the reset flow stays usable without
// credentials.
func (s *Server) setupEmailSender() (service.EmailSender, error) {
	emailService, err := service.NewEmailService(&s.Config.Email)
	if err != nil {
		if s.Config.App.IsProduction() {
			return nil, fmt.Errorf("email service not configured: %w", err)
		}
		log.Warn().Err(err).Msg("Email service not configured, reset tokens will be logged instead")
		return &service.LogOnlyEmailSender{}, nil
	}
	return emailService, nil
}

// setupHandlers initializes all HTTP request handlers.
// It creates handler instances using the previously initialized services.
func (s *Server) setupHandlers() error {
	// Initialize handlers with proper dependency injection
	s.Handlers = &Handlers{
		AuthHandler:          handlers.NewAuthHandler(services.authService, s.authProviders.JWTService),
		UserHandler:          handlers.NewUserHandler(services.userService),
		PasswordResetHandler: handlers.NewPasswordResetHandler(services.authService),
	}

	// Validate that services are properly initialized
	if s.Handlers.AuthHandler == nil {
		return fmt.Errorf("failed to initialize AuthHandler")
	}

	return nil
}

// Start starts the HTTP server and sets up signal handling for graceful
// shutdown. It runs in a blocking mode, waiting for either server errors
// or shutdown signals.
//
// This method performs the following operations:
// 1. Starts the HTTP server in a separate goroutine
// 2. Sets up signal handling for graceful shutdown (SIGINT, SIGTERM)
// 3. Initializes periodic maintenance tasks
// 4. Blocks until an error occurs or a shutdown signal is received
// 5. Performs graceful shutdown when requested
func (s *Server) Start() error {
	// Create a channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start the server in a separate goroutine
	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	// Create a channel to listen for OS signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Set up maintenance tasks
	s.SetupMaintenanceTasks()

	// Block until an OS signal or an error is received
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		// Create a context with a timeout for graceful shutdown
		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		// Shutdown the server
		if err := s.Shutdown(ctx); err != nil {
			// Shutdown the server immediately if graceful shutdown fails
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the server, closing all connections
// properly. It ensures in-flight requests are completed before shutting
// down, then closes the database connection.
func (s *Server) Shutdown(ctx context.Context) error {
	// Shutdown the HTTP server
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	// Close the database connection
	if err := s.Db.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close database connection")
	} else {
		log.Info().Msg("Database connection closed")
	}

	return nil
}

// SetupMaintenanceTasks sets up periodic maintenance tasks for the server.
// It creates a background goroutine that deletes expired password reset
// tokens at regular intervals to prevent database bloat.
//
// The tasks run on a fixed schedule defined by constants.DBMaintenanceInterval.
// Each iteration has its own timeout to prevent long-running operations from
// piling up.
func (s *Server) SetupMaintenanceTasks() {
	// Set up a ticker for maintenance tasks
	ticker := time.NewTicker(constants.DBMaintenanceInterval)
	go func() {
		for range ticker.C {
			// Create a context with a timeout
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)

			// Cleanup expired password reset tokens
			if count, err := services.authService.CleanupExpiredResetTokens(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to cleanup expired password reset tokens")
			} else if count > 0 {
				log.Info().Int64("count", count).Msg("Cleaned up expired password reset tokens")
			}

			// Call cancel at the end of each iteration to avoid resource leak
			cancel()
		}
	}()
}
