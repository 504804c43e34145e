// Package server provides the HTTP server implementation for the Tunegie
// authentication backend. It handles routing, middleware configuration, and
// server lifecycle management.
//
// The package follows a structured approach to route organization, with clear
// grouping based on functionality (auth, users, admin) and proper security
// measures for protected routes. CORS and other security headers are carefully
// configured to provide secure access while enabling legitimate API usage.
package server

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/rudoxe/Tunegie-sub001/internal/constants"
	"github.com/rudoxe/Tunegie-sub001/internal/middleware"
	"github.com/rudoxe/Tunegie-sub001/internal/utils"
)

// SetupRoutes configures the routes for the application.
// It creates a router hierarchy with middleware and grouped routes
// according to functionality for organized API structure.
//
// The configured routes include:
// - Health check and version endpoints (unprotected)
// - Authentication endpoints (signup, login, logout, verify)
// - Password reset endpoints (forgot-password, reset-password)
// - User management endpoints (profile, availability checks)
// - Admin endpoints for account management (admin role only)
//
// Route protection is handled through middleware for authenticated endpoints.
func (s *Server) SetupRoutes() {
	// Create router
	r := chi.NewRouter()

	// Get allowed origins from environment, config, or default values
	allowedOrigins := s.getAllowedOrigins()

	// Custom CORS middleware that applies to all routes
	// This ensures CORS headers are applied properly and consistently
	r.Use(corsMiddleware(allowedOrigins))

	// Base middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders())

	if s.Config.Logging.RequestLog {
		r.Use(requestLogging())
	}

	// JWT middleware with a live account check, so deactivated or deleted
	// accounts lose access before their tokens expire.
	requireAuth := middleware.JWTAuth(s.authProviders.JWTService, repositories.userRepo)

	// Health check and version routes (unprotected)
	r.Group(func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			// Check database connection
			err := s.Db.HealthCheck(r.Context())
			if err != nil {
				log.Error().Err(err).Msg("Health check failed")
				utils.Error(w, http.StatusServiceUnavailable, "service_unavailable", "Service is not healthy", nil)
				return
			}

			utils.JSON(w, http.StatusOK, map[string]string{
				"status":  "healthy",
				"version": s.Config.App.Version,
			})
		})

		r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
			utils.JSON(w, http.StatusOK, map[string]string{
				"version":     s.Config.App.Version,
				"environment": s.Config.App.Environment,
			})
		})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Authentication routes
		r.Route("/auth", func(r chi.Router) {
			// Public auth endpoints
			r.Group(func(r chi.Router) {
				r.Post("/signup", s.Handlers.AuthHandler.Register)
				r.Post("/login", s.Handlers.AuthHandler.Login)

				r.Post("/forgot-password", s.Handlers.PasswordResetHandler.ForgotPassword)
				r.Post("/reset-password", s.Handlers.PasswordResetHandler.ResetPassword)

				// Explicitly handle OPTIONS preflight request for /verify endpoint
				r.Options("/verify", handlePreflight(allowedOrigins))
			})

			// Protected auth endpoints
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/verify", s.Handlers.AuthHandler.VerifyToken)
				r.Post("/logout", s.Handlers.AuthHandler.Logout)
			})
		})

		// User routes
		r.Route("/users", func(r chi.Router) {
			// Public user endpoints
			r.Group(func(r chi.Router) {
				r.Use(chimiddleware.NoCache)
				// Availability answers reveal whether an account exists,
				// so bound how fast they can be probed in bulk
				r.Use(chimiddleware.Throttle(constants.AvailabilityCheckConcurrency))
				// Checks if a specific username is available (not already taken)
				r.Get("/check/username", s.Handlers.UserHandler.CheckUsername)
				// Checks if a specific email address is available (not already registered)
				r.Get("/check/email", s.Handlers.UserHandler.CheckEmail)
			})

			// Protected user endpoints
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)

				// /me allows the authenticated user to read, update, and
				// delete their own account
				r.Route("/me", func(r chi.Router) {
					r.Get("/", s.Handlers.UserHandler.GetProfile)
					r.Put("/", s.Handlers.UserHandler.UpdateProfile)
					r.Delete("/", s.Handlers.UserHandler.DeleteAccount)
				})
			})
		})

		// Admin routes (admin role required)
		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(middleware.RequireRole(constants.RoleAdmin))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", s.Handlers.UserHandler.ListUsers)
				r.Get("/{userID}", s.Handlers.UserHandler.GetUser)
				r.Put("/{userID}/role", s.Handlers.UserHandler.SetUserRole)
				r.Put("/{userID}/active", s.Handlers.UserHandler.SetUserActive)
				r.Delete("/{userID}", s.Handlers.UserHandler.DeleteUser)
			})
		})
	})

	// Consistent JSON errors for unknown routes and wrong methods
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.NotFound(w, "The requested resource was not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.Error(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed for this resource", nil)
	})

	// Set the router
	s.router = r
}

// GetRouter returns the configured router.
//
// This method is primarily used for testing and for
// integrating the router with other components.
func (s *Server) GetRouter() chi.Router {
	return s.router
}

// requestLogging logs every request with its status code and latency.
func requestLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			utils.LogHTTPRequest(
				chimiddleware.GetReqID(r.Context()),
				r.Method,
				r.URL.Path,
				r.RemoteAddr,
				r.UserAgent(),
				ww.Status(),
				time.Since(start),
			)
		})
	}
}

// handlePreflight is an explicit handler for OPTIONS preflight requests.
// It properly configures CORS headers for preflight requests to ensure
// cross-origin requests can proceed if the origin is allowed.
//
// The handler responds with a 204 No Content status, along with appropriate
// CORS headers to allow the specified origins, methods, and headers.
func handlePreflight(allowedOrigins []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Check if the origin is allowed
		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Max-Age", "300")
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// corsMiddleware creates a custom CORS middleware with the specified allowed
// origins. It handles Cross-Origin Resource Sharing to allow browsers to
// safely access the API from different domains while protecting against
// unauthorized cross-origin requests.
//
// The middleware checks incoming requests against the allowed origins list,
// adds appropriate CORS headers to responses, and handles OPTIONS preflight
// requests. It supports credentials mode for authenticated cross-origin
// requests.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Check if the request's origin is in our allowed list
			for _, allowedOrigin := range allowedOrigins {
				if allowedOrigin == "*" || allowedOrigin == origin {
					// Set CORS headers for all responses, not just OPTIONS
					w.Header().Set("Access-Control-Allow-Origin", origin)

					// These headers are essential for credentials mode
					w.Header().Set("Access-Control-Allow-Credentials", "true")

					// For non-OPTIONS requests, just set these headers and continue
					if r.Method != "OPTIONS" {
						next.ServeHTTP(w, r)
						return
					}

					// Handle OPTIONS preflight requests
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")
					w.Header().Set("Access-Control-Max-Age", "300")

					// Respond to preflight request
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}

			// If origin is not allowed, continue without setting CORS headers
			next.ServeHTTP(w, r)
		})
	}
}

// getAllowedOrigins reads allowed CORS origins from the environment, then the
// application config, falling back to localhost development origins. This
// provides flexibility to configure allowed origins without recompiling the
// application.
func (s *Server) getAllowedOrigins() []string {
	// Check if ALLOWED_ORIGINS is set in environment
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")

	// If ALLOWED_ORIGINS is set, use it
	if allowedOriginsEnv != "" {
		// Split by comma and trim spaces
		origins := strings.Split(allowedOriginsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		log.Info().Strs("allowed_origins", origins).Msg("Using CORS allowed origins from environment")
		return origins
	}

	if len(s.Config.CORS.AllowedOrigins) > 0 {
		log.Info().Strs("allowed_origins", s.Config.CORS.AllowedOrigins).Msg("Using CORS allowed origins from config")
		return s.Config.CORS.AllowedOrigins
	}

	// Default hardcoded values if nothing is configured
	// Include both HTTP and HTTPS for localhost to be safe
	defaultOrigins := []string{"http://localhost:5173", "https://localhost:5173", "http://localhost:3000"}
	log.Info().Strs("allowed_origins", defaultOrigins).Msg("Using default CORS allowed origins")
	return defaultOrigins
}
