package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func testCfg() SecConfig {
	return SecConfig{
		AllowedOrigins: []string{"*"},
		RPS:            1000,
		Burst:          1000,
		BackendKeys:    map[string]struct{}{"bk": {}},
		FrontendKeys:   map[string]struct{}{"fk": {}},
		AdminKeys:      map[string]struct{}{"ak": {}},
	}
}

func do(t *testing.T, cfg SecConfig, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	h := AuthenticateRequestMiddleware(cfg)(okHandler())
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "192.0.2.1:1234"
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestNoKeyRejected(t *testing.T) {
	rr := do(t, testCfg(), http.MethodGet, "/v1/top", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestBackendKeyAccepted(t *testing.T) {
	for _, hdr := range []map[string]string{
		{"X-API-Key": "bk"},
		{"Authorization": "Bearer bk"},
	} {
		rr := do(t, testCfg(), http.MethodPost, "/v1/answers", hdr)
		if rr.Code != http.StatusOK {
			t.Fatalf("header %v: status = %d, want 200", hdr, rr.Code)
		}
	}
}

func TestUnknownKeyRejected(t *testing.T) {
	rr := do(t, testCfg(), http.MethodGet, "/v1/top", map[string]string{"X-API-Key": "nope"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestFrontendScope(t *testing.T) {
	cfg := testCfg()
	hdr := map[string]string{"X-API-Key": "fk"}

	if rr := do(t, cfg, http.MethodGet, "/v1/answers", hdr); rr.Code != http.StatusOK {
		t.Fatalf("frontend GET: %d", rr.Code)
	}
	if rr := do(t, cfg, http.MethodPost, "/v1/query", hdr); rr.Code != http.StatusOK {
		t.Fatalf("frontend query: %d", rr.Code)
	}
	if rr := do(t, cfg, http.MethodPost, "/v1/answers", hdr); rr.Code != http.StatusForbidden {
		t.Fatalf("frontend edit allowed: %d", rr.Code)
	}
	if rr := do(t, cfg, http.MethodPost, "/v1/sessions/s1/import", hdr); rr.Code != http.StatusForbidden {
		t.Fatalf("frontend import allowed: %d", rr.Code)
	}
}

func TestHealthBypass(t *testing.T) {
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, testCfg(), http.MethodGet, path, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s without key: %d, want 200", path, rr.Code)
		}
	}
}

func TestAllowUnauth(t *testing.T) {
	cfg := testCfg()
	cfg.AllowUnauth = true
	rr := do(t, cfg, http.MethodPost, "/v1/answers", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("allow_unauth request: %d, want 200", rr.Code)
	}
}

func TestIPWhitelist(t *testing.T) {
	cfg := testCfg()
	cfg.IPWhitelist = []string{"203.0.113.9"}
	rr := do(t, cfg, http.MethodGet, "/v1/top", map[string]string{"X-API-Key": "bk"})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("non-whitelisted ip: %d, want 403", rr.Code)
	}

	cfg.IPWhitelist = []string{"192.0.2.1"}
	rr = do(t, cfg, http.MethodGet, "/v1/top", map[string]string{"X-API-Key": "bk"})
	if rr.Code != http.StatusOK {
		t.Fatalf("whitelisted ip: %d, want 200", rr.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	rr := do(t, testCfg(), http.MethodOptions, "/v1/query", map[string]string{"Origin": "https://app.example.com"})
	if rr.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("allow-origin = %q", got)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testCfg()
	cfg.RPS = 1
	cfg.Burst = 2

	limited := false
	for i := 0; i < 5; i++ {
		rr := do(t, cfg, http.MethodGet, "/v1/top", map[string]string{"X-API-Key": "bk"})
		if rr.Code == http.StatusTooManyRequests {
			limited = true
		}
	}
	if limited {
		t.Fatalf("limiter state leaked across middleware instances")
	}

	// a single middleware instance shares its limiter pool
	h := AuthenticateRequestMiddleware(cfg)(okHandler())
	limited = false
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/top", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		req.Header.Set("X-API-Key", "bk")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code == http.StatusTooManyRequests {
			limited = true
		}
	}
	if !limited {
		t.Fatalf("burst of 5 requests was never rate limited at burst 2")
	}
}
