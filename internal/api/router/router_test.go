package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/serenetouch/booking-assistant/internal/appointments"
	"github.com/serenetouch/booking-assistant/internal/chat"
	"github.com/serenetouch/booking-assistant/internal/dialogue"
	"github.com/serenetouch/booking-assistant/internal/intent"
	"github.com/serenetouch/booking-assistant/internal/memorystore"
	"github.com/serenetouch/booking-assistant/internal/pricing"
	"github.com/serenetouch/booking-assistant/internal/timeparse"
	"github.com/serenetouch/booking-assistant/pkg/logging"
)

func newTestRouter(t *testing.T, cfg *Config) http.Handler {
	t.Helper()

	now := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	extractor := timeparse.NewRuleBasedAt(func() time.Time { return now })
	resolver := intent.NewResolver(intent.NewStaticClassifier(), extractor, nil, nil)
	engine := dialogue.NewEngine(resolver, appointments.NewInMemoryRepository(), pricing.NewService(), extractor, nil, nil)

	cfg.Logger = logging.New("error")
	cfg.ChatHandler = chat.NewHandler(engine, memorystore.NewInMemoryStore(), cfg.Logger)
	return New(cfg)
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, &Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterChatMessage(t *testing.T) {
	router := newTestRouter(t, &Config{})

	body, _ := json.Marshal(map[string]string{"user_id": "u1", "message": "hello"})
	req := httptest.NewRequest(http.MethodPost, "/chat/message", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode chat response: %v", err)
	}
	if resp["intent"] != "greeting" {
		t.Errorf("expected greeting intent, got %v", resp["intent"])
	}
}

func TestRouterRateLimitsChat(t *testing.T) {
	router := newTestRouter(t, &Config{RateLimitRPS: 0.001, RateLimitBurst: 1})

	body, _ := json.Marshal(map[string]string{"user_id": "u1", "message": "hello"})

	req := httptest.NewRequest(http.MethodPost, "/chat/message", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/chat/message", bytes.NewReader(body))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be limited, got %d", rr.Code)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t, &Config{AllowedOrigins: []string{"https://widget.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/chat/message", nil)
	req.Header.Set("Origin", "https://widget.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected preflight %d, got %d", http.StatusNoContent, rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://widget.example" {
		t.Fatalf("expected allow origin header, got %q", got)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	router := newTestRouter(t, &Config{
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}
