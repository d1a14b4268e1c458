package models

import "gemini-chat/internal/session"

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the reply from the AI chat.
type ChatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
}

type HistoryResponse struct {
	SessionID string         `json:"session_id"`
	Turns     []session.Turn `json:"turns"`
}

// ErrorResponse carries a client-safe description of a failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
