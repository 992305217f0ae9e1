package middleware

import (
	"net/http"
)

// APIContentSecurityPolicy forbids everything; JSON responses load nothing.
const APIContentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'"

// PageContentSecurityPolicy allows the inline styles of the rendered pages
// and nothing from other origins.
const PageContentSecurityPolicy = "default-src 'none'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; frame-ancestors 'none'; form-action 'self'"

// SecurityHeaders returns a middleware that sets common security response headers.
// When hsts is true (e.g. when serving HTTPS), adds Strict-Transport-Security.
// An empty csp uses APIContentSecurityPolicy.
func SecurityHeaders(hsts bool, csp string) func(http.Handler) http.Handler {
	if csp == "" {
		csp = APIContentSecurityPolicy
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "same-origin")
			w.Header().Set("Content-Security-Policy", csp)
			if hsts {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
