package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"gemini-chat/internal/middleware"
	"gemini-chat/internal/models"
	"gemini-chat/internal/session"
)

const (
	maxChatBodyBytes = 1 << 20

	upstreamFailureDetail = "Failed to get a response from the AI model. Check server logs for details."
)

type chatService interface {
	Send(ctx context.Context, sessionID, message string) (string, error)
	History(sessionID string) ([]session.Turn, error)
	Reset(sessionID string) error
	NewSessionID() string
}

type ChatHandler struct {
	chat   chatService
	logger *zap.Logger
}

func NewChatHandler(chat chatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		logger: logger,
	}
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid request body"))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("Message is required"))
		return
	}

	sessionID := sessionIDOrDefault(req.SessionID)
	reply, err := h.chat.Send(r.Context(), sessionID, req.Message)
	if err != nil {
		h.handleChatError(w, r, sessionID, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply, SessionID: sessionID})
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDOrDefault(r.URL.Query().Get("session_id"))

	turns, err := h.chat.History(sessionID)
	if err != nil {
		h.handleChatError(w, r, sessionID, err)
		return
	}

	writeJSON(w, http.StatusOK, models.HistoryResponse{SessionID: sessionID, Turns: turns})
}

func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDOrDefault(r.URL.Query().Get("session_id"))

	if err := h.chat.Reset(sessionID); err != nil {
		h.handleChatError(w, r, sessionID, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "History cleared"})
}

// NewSession hands out a fresh session id so a client can hold a
// conversation apart from the shared one.
func (h *ChatHandler) NewSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, models.SessionResponse{SessionID: h.chat.NewSessionID()})
}

// handleChatError keeps upstream detail in the server log only.
func (h *ChatHandler) handleChatError(w http.ResponseWriter, r *http.Request, sessionID string, err error) {
	switch {
	case errors.Is(err, session.ErrEmptyMessage):
		writeJSON(w, http.StatusBadRequest, errorResp("Message is required"))
	case errors.Is(err, session.ErrInvalidSessionID):
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid session ID"))
	default:
		h.logger.Error("chat request failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResp(upstreamFailureDetail))
	}
}

func sessionIDOrDefault(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return session.DefaultSessionID
	}
	return id
}
