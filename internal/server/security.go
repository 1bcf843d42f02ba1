package server

import (
	"net/http"
	"slices"
	"strings"
)

// SecurityConfig configures response hardening and request limits.
type SecurityConfig struct {
	// EnableCORS adds Access-Control-* headers for allowed origins.
	EnableCORS bool
	// AllowedOrigins lists accepted Origin values; "*" accepts any.
	AllowedOrigins []string
	AllowedMethods []string
	// MaxNValue is the largest index accepted by /fib and /range.
	MaxNValue uint64
	// MaxUnboundedNValue is the largest index accepted for arbitrary-precision
	// backends, whose cost grows with n instead of staying constant.
	MaxUnboundedNValue uint64
}

// DefaultSecurityConfig allows read-only cross-origin access, indices up to
// one billion and arbitrary-precision indices up to ten million.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		MaxNValue:      1_000_000_000,

		MaxUnboundedNValue: 10_000_000,
	}
}

// SecurityMiddleware sets security headers on every response, applies CORS
// and answers preflight requests with 204.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if config.EnableCORS {
			if origin, ok := allowedOrigin(config.AllowedOrigins, r.Header.Get("Origin")); ok {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
				h.Set("Access-Control-Max-Age", "86400")
				if origin != "*" {
					h.Add("Vary", "Origin")
				}
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

// allowedOrigin returns the value for Access-Control-Allow-Origin.
func allowedOrigin(allowed []string, origin string) (string, bool) {
	if slices.Contains(allowed, "*") {
		return "*", true
	}
	if origin != "" && slices.Contains(allowed, origin) {
		return origin, true
	}
	return "", false
}
