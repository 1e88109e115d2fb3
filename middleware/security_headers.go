package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	apiCSP  = "default-src 'none'; frame-ancestors 'none'"
	pageCSP = "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self'; form-action 'self'; frame-ancestors 'none'"
)

// SecurityHeadersConfig controls the response headers added to every request.
type SecurityHeadersConfig struct {
	// HSTS enables Strict-Transport-Security. Only useful behind TLS.
	HSTS bool
	// APIPrefix selects the strict API policy. Everything else is a page.
	APIPrefix string
}

// SecurityHeaders adds security-related HTTP headers to all responses.
func SecurityHeaders(cfg SecurityHeadersConfig) echo.MiddlewareFunc {
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			if cfg.HSTS {
				h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
			}
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			if strings.HasPrefix(c.Request().URL.Path, cfg.APIPrefix) {
				h.Set("Content-Security-Policy", apiCSP)
			} else {
				h.Set("Content-Security-Policy", pageCSP)
			}
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			h.Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
			return next(c)
		}
	}
}
