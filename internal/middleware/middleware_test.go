package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crucial707/changelog-browser/internal/logging"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
})

func TestCORS_Disabled(t *testing.T) {
	h := CORS(nil)(okHandler)
	req := httptest.NewRequest("GET", "/countries", nil)
	req.Header.Set("Origin", "https://example.com")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin: got %q, want empty", got)
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	h := CORS([]string{"https://example.com/"})(okHandler)
	req := httptest.NewRequest("GET", "/countries", nil)
	req.Header.Set("Origin", "https://example.com")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Errorf("Allow-Origin: got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); got != "GET, HEAD, OPTIONS" {
		t.Errorf("Allow-Methods: got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Expose-Headers"); got != "Retry-After, X-Request-Id" {
		t.Errorf("Expose-Headers: got %q", got)
	}
	if got := rr.Header().Get("Vary"); got != "Origin" {
		t.Errorf("Vary: got %q", got)
	}
}

func TestCORS_AnyOrigin(t *testing.T) {
	h := CORS([]string{AnyOrigin})(okHandler)
	req := httptest.NewRequest("GET", "/countries", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin: got %q, want *", got)
	}
	if got := rr.Header().Get("Vary"); got != "" {
		t.Errorf("wildcard responses do not vary by origin, got Vary %q", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS([]string{"https://example.com"})(okHandler)
	req := httptest.NewRequest("OPTIONS", "/countries", nil)
	req.Header.Set("Origin", "https://other.example")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("preflight status: got %d, want 204", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unknown origin should not be allowed, got %q", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(true, PageContentSecurityPolicy)(okHandler)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if got := rr.Header().Get("Content-Security-Policy"); got != PageContentSecurityPolicy {
		t.Errorf("CSP: got %q", got)
	}
	if rr.Header().Get("Strict-Transport-Security") == "" {
		t.Error("expected HSTS header")
	}

	h = SecurityHeaders(false, "")(okHandler)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if got := rr.Header().Get("Content-Security-Policy"); got != APIContentSecurityPolicy {
		t.Errorf("default CSP: got %q", got)
	}
	if rr.Header().Get("Strict-Transport-Security") != "" {
		t.Error("unexpected HSTS header")
	}
}

func TestRateLimiter(t *testing.T) {
	h := PerMinute(60, 2).Middleware(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes: got %v, want [200 200 429]", codes)
	}

	// A different client has its own bucket.
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("second client: got %d, want 200", rr.Code)
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	h := PerMinute(0, 0).Middleware(okHandler)
	for i := 0; i < 50; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: got %d", i, rr.Code)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	if got := clientIP(req); got != "192.0.2.1" {
		t.Errorf("RemoteAddr: got %q", got)
	}
	req.Header.Set("X-Real-IP", "198.51.100.2")
	if got := clientIP(req); got != "198.51.100.2" {
		t.Errorf("X-Real-IP: got %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.5" {
		t.Errorf("X-Forwarded-For: got %q", got)
	}
}

func TestRecoverer(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithWriter(&buf, "json", "info")
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := chimw.RequestID(Recoverer(log)(panicky))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/countries/US", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "internal server error" {
		t.Errorf("body: got %v", body)
	}
	if !strings.Contains(buf.String(), "panic recovered") || !strings.Contains(buf.String(), `"request_id"`) {
		t.Errorf("log output missing fields: %s", buf.String())
	}
}

func TestRequestLog(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithWriter(&buf, "json", "info")
	h := RequestLog(log)(okHandler)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/global", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if entry["path"] != "/global" || entry["method"] != "GET" {
		t.Errorf("entry: %v", entry)
	}
	if entry["status"] != float64(200) || entry["size"] != float64(2) {
		t.Errorf("status/size: %v", entry)
	}
	if entry["level"] != "info" {
		t.Errorf("level: got %v", entry["level"])
	}
}

func TestPrometheus_RoutePatternLabel(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Prometheus)
	r.Get("/items/{id}", okHandler)
	r.Handle("/metrics", promhttp.Handler())

	for _, path := range []string{"/items/first-item", "/items/second-item", "/nowhere/US"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	body := rr.Body.String()
	if !strings.Contains(body, `http_requests_total{method="GET",path="/items/{id}",status="200"} 2`) {
		t.Errorf("expected both item requests under the route pattern:\n%s", body)
	}
	if strings.Contains(body, "first-item") {
		t.Errorf("raw path leaked into labels")
	}
	if !strings.Contains(body, `path="/nowhere/{code}",status="404"`) {
		t.Errorf("unmatched path should be normalized")
	}
}
