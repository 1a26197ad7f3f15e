// Package chat exposes the dialogue engine over HTTP.
package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/serenetouch/booking-assistant/internal/dialogue"
	"github.com/serenetouch/booking-assistant/internal/intent"
	"github.com/serenetouch/booking-assistant/pkg/logging"
)

// MemoryStore loads and saves per-user conversation memory.
type MemoryStore interface {
	Load(ctx context.Context, userID string) (dialogue.Memory, error)
	Save(ctx context.Context, userID string, mem dialogue.Memory) error
}

// Handler wires HTTP requests to the dialogue engine.
type Handler struct {
	engine   *dialogue.Engine
	memories MemoryStore
	logger   *logging.Logger
}

// NewHandler creates a chat handler.
func NewHandler(engine *dialogue.Engine, memories MemoryStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		engine:   engine,
		memories: memories,
		logger:   logger,
	}
}

// MessageRequest is one inbound chat message.
type MessageRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// MessageResponse is the engine's reply for one turn.
type MessageResponse struct {
	Response   string    `json:"response"`
	Intent     string    `json:"intent"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// Message handles POST /chat/message.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode message request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Message) == "" {
		http.Error(w, "user_id and message are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	mem, err := h.memories.Load(ctx, req.UserID)
	if err != nil {
		// A lost memory downgrades to a fresh conversation, not a failure.
		h.logger.Warn("failed to load conversation memory", "user_id", req.UserID, "error", err)
		mem = dialogue.Memory{}
	}
	mem.SetUserID(req.UserID)

	result := h.engine.HandleTurn(ctx, req.Message, mem)

	if result.Intent != intent.LabelError {
		if err := h.memories.Save(ctx, req.UserID, result.Memory); err != nil {
			h.logger.Error("failed to save conversation memory", "user_id", req.UserID, "error", err)
		}
	}

	h.writeJSON(w, http.StatusOK, MessageResponse{
		Response:   result.Response,
		Intent:     string(result.Intent),
		Confidence: result.Confidence,
		Timestamp:  time.Now().UTC(),
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
