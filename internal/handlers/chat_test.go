package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"gemini-chat/internal/models"
	"gemini-chat/internal/session"
)

type stubChat struct {
	reply     string
	err       error
	lastID    string
	lastMsg   string
	sendCalls int
	turns     []session.Turn
	resetID   string
	nextID    string
}

func (s *stubChat) Send(ctx context.Context, sessionID, message string) (string, error) {
	s.sendCalls++
	s.lastID = sessionID
	s.lastMsg = message
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubChat) History(sessionID string) ([]session.Turn, error) {
	s.lastID = sessionID
	if s.err != nil {
		return nil, s.err
	}
	return s.turns, nil
}

func (s *stubChat) Reset(sessionID string) error {
	s.resetID = sessionID
	return s.err
}

func (s *stubChat) NewSessionID() string {
	return s.nextID
}

func postChat(h *ChatHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Send(rr, req)
	return rr
}

func TestChatHandler_Send_ReturnsReply(t *testing.T) {
	chat := &stubChat{reply: "hi there"}
	h := NewChatHandler(chat, zap.NewNop())

	rr := postChat(h, `{"message":"hello"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}

	var resp models.ChatResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Reply != "hi there" {
		t.Errorf("expected reply %q, got %q", "hi there", resp.Reply)
	}
	if resp.SessionID != session.DefaultSessionID {
		t.Errorf("expected default session id, got %q", resp.SessionID)
	}
	if chat.lastMsg != "hello" {
		t.Errorf("expected message to be forwarded, got %q", chat.lastMsg)
	}
}

func TestChatHandler_Send_UsesGivenSession(t *testing.T) {
	chat := &stubChat{reply: "ok"}
	h := NewChatHandler(chat, zap.NewNop())

	rr := postChat(h, `{"message":"hello","session_id":"abc"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if chat.lastID != "abc" {
		t.Errorf("expected session abc, got %q", chat.lastID)
	}
}

func TestChatHandler_Send_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		detail string
	}{
		{"malformed json", `{"message":`, "Invalid request body"},
		{"missing message", `{}`, "Message is required"},
		{"blank message", `{"message":"   "}`, "Message is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chat := &stubChat{reply: "unused"}
			h := NewChatHandler(chat, zap.NewNop())

			rr := postChat(h, tc.body)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
			}
			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Detail != tc.detail {
				t.Errorf("expected detail %q, got %q", tc.detail, resp.Detail)
			}
			if chat.sendCalls != 0 {
				t.Errorf("chat service should not be called for a bad request")
			}
		})
	}
}

func TestChatHandler_Send_UpstreamFailureIsGeneric(t *testing.T) {
	secret := "API key not valid: AIza-secret"
	chat := &stubChat{err: errors.Join(session.ErrUpstreamUnavailable, errors.New(secret))}
	h := NewChatHandler(chat, zap.NewNop())

	rr := postChat(h, `{"message":"hello"}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	body := rr.Body.String()
	if strings.Contains(body, secret) {
		t.Fatalf("response leaked upstream detail: %s", body)
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Detail != upstreamFailureDetail {
		t.Errorf("expected generic detail, got %q", resp.Detail)
	}
}

func TestChatHandler_Send_InvalidSession(t *testing.T) {
	chat := &stubChat{err: session.ErrInvalidSessionID}
	h := NewChatHandler(chat, zap.NewNop())

	rr := postChat(h, `{"message":"hello","session_id":"x"}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestChatHandler_History(t *testing.T) {
	chat := &stubChat{turns: []session.Turn{
		{Role: session.RoleUser, Text: "hello"},
		{Role: session.RoleModel, Text: "hi there"},
	}}
	h := NewChatHandler(chat, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/chat/history?session_id=abc", nil)
	rr := httptest.NewRecorder()
	h.History(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp models.HistoryResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.SessionID != "abc" || len(resp.Turns) != 2 {
		t.Fatalf("unexpected history response: %+v", resp)
	}
	if resp.Turns[1].Role != session.RoleModel || resp.Turns[1].Text != "hi there" {
		t.Errorf("unexpected second turn: %+v", resp.Turns[1])
	}
}

func TestChatHandler_Reset(t *testing.T) {
	chat := &stubChat{}
	h := NewChatHandler(chat, zap.NewNop())

	req := httptest.NewRequest(http.MethodDelete, "/api/chat/history", nil)
	rr := httptest.NewRecorder()
	h.Reset(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if chat.resetID != session.DefaultSessionID {
		t.Errorf("expected default session to be reset, got %q", chat.resetID)
	}
}

func TestChatHandler_NewSession(t *testing.T) {
	chat := &stubChat{nextID: "fresh-id"}
	h := NewChatHandler(chat, zap.NewNop())

	rr := httptest.NewRecorder()
	h.NewSession(rr, httptest.NewRequest(http.MethodPost, "/api/chat/sessions", nil))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rr.Code)
	}
	var resp models.SessionResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.SessionID != "fresh-id" {
		t.Errorf("expected session id %q, got %q", "fresh-id", resp.SessionID)
	}
}
