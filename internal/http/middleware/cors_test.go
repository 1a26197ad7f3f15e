package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORSOriginHandling(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		origin     string
		wantEchoed bool
	}{
		{"listed origin", []string{"https://widget.example"}, "https://widget.example", true},
		{"unknown origin", []string{"https://widget.example"}, "https://unknown.example", false},
		{"wildcard", []string{"*"}, "https://random.example", true},
		{"no origin header", []string{"*"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tt.allowed)(handler).ServeHTTP(rec, req)

			got := rec.Header().Get("Access-Control-Allow-Origin")
			if tt.wantEchoed && got != tt.origin {
				t.Fatalf("expected origin %q to be echoed, got %q", tt.origin, got)
			}
			if !tt.wantEchoed && got != "" {
				t.Fatalf("expected no allow-origin header, got %q", got)
			}
			if tt.wantEchoed && rec.Header().Get("Access-Control-Allow-Methods") == "" {
				t.Fatalf("expected allow-methods header alongside allow-origin")
			}
		})
	}
}

func TestCORSShortCircuitsPreflight(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodOptions, "/chat/message", nil)
	req.Header.Set("Origin", "https://widget.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	CORS([]string{"https://widget.example"})(handler).ServeHTTP(rec, req)

	if called {
		t.Fatalf("preflight must not reach the handler")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected %d for preflight, got %d", http.StatusNoContent, rec.Code)
	}
}
