package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenetouch/booking-assistant/internal/appointments"
	"github.com/serenetouch/booking-assistant/internal/booking"
	"github.com/serenetouch/booking-assistant/internal/dialogue"
	"github.com/serenetouch/booking-assistant/internal/intent"
	"github.com/serenetouch/booking-assistant/internal/memorystore"
	"github.com/serenetouch/booking-assistant/internal/pricing"
	"github.com/serenetouch/booking-assistant/internal/timeparse"
)

func newTestHandler(t *testing.T, repo appointments.Repository, store MemoryStore) *Handler {
	t.Helper()
	now := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	extractor := timeparse.NewRuleBasedAt(func() time.Time { return now })
	resolver := intent.NewResolver(intent.NewStaticClassifier(), extractor, nil, nil)
	engine := dialogue.NewEngine(resolver, repo, pricing.NewService(), extractor, nil, nil)
	return NewHandler(engine, store, nil)
}

func postMessage(t *testing.T, h *Handler, userID, message string) (*httptest.ResponseRecorder, MessageResponse) {
	t.Helper()
	body, err := json.Marshal(MessageRequest{UserID: userID, Message: message})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/chat/message", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Message(rec, req)

	var resp MessageResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	}
	return rec, resp
}

func TestMessageRejectsBadRequests(t *testing.T) {
	h := newTestHandler(t, appointments.NewInMemoryRepository(), memorystore.NewInMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Message(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = postMessage(t, h, "", "hello")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = postMessage(t, h, "u1", "   ")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMessageCarriesMemoryAcrossTurns(t *testing.T) {
	repo := appointments.NewInMemoryRepository()
	store := memorystore.NewInMemoryStore()
	h := newTestHandler(t, repo, store)

	rec, resp := postMessage(t, h, "u1", "I'd like a hot stone massage")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "book_service", resp.Intent)
	assert.Contains(t, resp.Response, "Please provide the date and time")

	mem, err := store.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Hot Stone Massage", mem.PendingService())

	rec, resp = postMessage(t, h, "u1", "tomorrow at 3:00 PM")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		fmt.Sprintf("Great! Appointment %s booked successfully for Hot Stone Massage on 2025-06-16 15:00.", booking.FormatReference(1)),
		resp.Response)

	mem, err = store.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, mem.PendingService())
}

type failingRepo struct{ appointments.Repository }

func (failingRepo) Create(ctx context.Context, userID, service, when string) (appointments.Appointment, error) {
	return appointments.Appointment{}, errors.New("db down")
}

type countingStore struct {
	MemoryStore
	saves int
}

func (s *countingStore) Save(ctx context.Context, userID string, mem dialogue.Memory) error {
	s.saves++
	return s.MemoryStore.Save(ctx, userID, mem)
}

func TestMessageSkipsSaveOnErrorTurns(t *testing.T) {
	store := &countingStore{MemoryStore: memorystore.NewInMemoryStore()}
	h := newTestHandler(t, failingRepo{appointments.NewInMemoryRepository()}, store)

	rec, resp := postMessage(t, h, "u1", "book a massage for tomorrow at 3 pm")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "error", resp.Intent)
	assert.Zero(t, resp.Confidence)
	assert.Zero(t, store.saves, "a failed turn must not overwrite memory")
}

type brokenLoadStore struct{ MemoryStore }

func (brokenLoadStore) Load(ctx context.Context, userID string) (dialogue.Memory, error) {
	return nil, errors.New("redis down")
}

func TestMessageStartsFreshWhenLoadFails(t *testing.T) {
	h := newTestHandler(t, appointments.NewInMemoryRepository(), brokenLoadStore{memorystore.NewInMemoryStore()})

	rec, resp := postMessage(t, h, "u1", "hello there")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "greeting", resp.Intent)
	assert.Equal(t, "Hello! How can I help with your booking?", resp.Response)
}

func TestHealthCheck(t *testing.T) {
	h := newTestHandler(t, appointments.NewInMemoryRepository(), memorystore.NewInMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
