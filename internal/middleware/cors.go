package middleware

import (
	"net/http"
	"strings"
)

// DefaultCORSAllowedMethods is the set of methods allowed for CORS. Every
// route is read-only.
var DefaultCORSAllowedMethods = []string{"GET", "HEAD", "OPTIONS"}

// DefaultCORSAllowedHeaders is the default set of request headers allowed for CORS.
var DefaultCORSAllowedHeaders = []string{"Accept", "Content-Type", "X-Request-Id"}

// CORSExposedHeaders lets browser clients read the request id and the rate
// limiter's back-off hint.
var CORSExposedHeaders = []string{"Retry-After", "X-Request-Id"}

// AnyOrigin in the origin list allows every origin. The API only serves
// public data, so this is safe to configure.
const AnyOrigin = "*"

// CORS returns a middleware that sets CORS response headers and handles OPTIONS preflight
// when origins is non-nil. When origins is nil or empty, the middleware is a no-op.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	originSet := make(map[string]bool, len(origins))
	for _, o := range origins {
		originSet[strings.TrimRight(o, "/")] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case origin == "":
			case originSet[AnyOrigin]:
				w.Header().Set("Access-Control-Allow-Origin", AnyOrigin)
				setCORSHeaders(w.Header())
			case originSet[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				setCORSHeaders(w.Header())
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func setCORSHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Methods", strings.Join(DefaultCORSAllowedMethods, ", "))
	h.Set("Access-Control-Allow-Headers", strings.Join(DefaultCORSAllowedHeaders, ", "))
	h.Set("Access-Control-Expose-Headers", strings.Join(CORSExposedHeaders, ", "))
	h.Set("Access-Control-Max-Age", "86400")
}
