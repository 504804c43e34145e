package middleware

import (
	"net/http"

	"github.com/rudoxe/Tunegie-sub001/internal/auth"
	"github.com/rudoxe/Tunegie-sub001/internal/constants"
	"github.com/rudoxe/Tunegie-sub001/internal/utils"
)

// JWTAuth is a middleware that requires a valid JWT token for a live account
func JWTAuth(jwtService auth.JWTValidator, users auth.UserAccountLookup) func(http.Handler) http.Handler {
	provider := auth.NewJWTAuthProvider(jwtService, users)
	return auth.RequireAuth(provider)
}

// RequireRole is a middleware that requires the authenticated user to
// hold a specific role. It must run after JWTAuth, which puts the live
// account's role in the context.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Get user ID from context
			_, ok := auth.GetUserID(r)
			if !ok {
				utils.Unauthorized(w, constants.MsgAuthRequired)
				return
			}

			userRole, ok := auth.GetRole(r)
			if !ok || userRole != role {
				utils.Forbidden(w, constants.MsgAccessDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders adds security-related HTTP headers to responses
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Add security headers
			w.Header().Set(constants.HeaderXContentTypeOptions, constants.ContentTypeOptionsNoSniff)
			w.Header().Set(constants.HeaderXFrameOptions, constants.FrameOptionsDeny)
			w.Header().Set(constants.HeaderXXSSProtection, constants.XSSProtectionModeBlock)
			w.Header().Set(constants.HeaderReferrerPolicy, constants.ReferrerPolicyStrictOrigin)
			w.Header().Set(constants.HeaderContentSecurityPolicy, constants.CSPDefaultSrc)

			next.ServeHTTP(w, r)
		})
	}
}
