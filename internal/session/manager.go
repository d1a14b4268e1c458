package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSessionID names the conversation shared by every caller that does
// not supply its own session id.
const DefaultSessionID = "default"

const maxSessionIDLen = 128

// Manager owns the conversations of the process, keyed by session id.
type Manager struct {
	model    Model
	maxTurns int
	logger   *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a manager. maxTurns caps each history; zero or less
// keeps every turn.
func NewManager(model Model, maxTurns int, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		model:    model,
		maxTurns: maxTurns,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) NewSessionID() string {
	return uuid.NewString()
}

// Send appends message to the session's conversation and returns the reply.
// An empty id selects the shared default session.
func (m *Manager) Send(ctx context.Context, id, message string) (string, error) {
	s, err := m.Session(id)
	if err != nil {
		return "", err
	}

	reply, err := s.Send(ctx, m.model, message)
	if err != nil {
		return "", err
	}

	m.logger.Debug("received reply",
		zap.String("session_id", s.ID),
		zap.Int("message_len", len(message)),
		zap.Int("reply_len", len(reply)),
		zap.Int("history_turns", s.Len()),
	)
	return reply, nil
}

// Session returns the session for id, creating it on first use.
func (m *Manager) Session(id string) (*Session, error) {
	id, err := normalizeID(id)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	s = newSession(id, m.maxTurns)
	m.sessions[id] = s
	m.logger.Info("session created", zap.String("session_id", id))
	return s, nil
}

// History returns the turns of session id. Unknown sessions have no turns.
func (m *Manager) History(id string) ([]Turn, error) {
	id, err := normalizeID(id)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return []Turn{}, nil
	}
	return s.History(), nil
}

func (m *Manager) Reset(id string) error {
	id, err := normalizeID(id)
	if err != nil {
		return err
	}

	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		s.Reset()
		m.logger.Info("session reset", zap.String("session_id", id))
	}
	return nil
}

func normalizeID(id string) (string, error) {
	if id == "" {
		return DefaultSessionID, nil
	}
	if len(id) > maxSessionIDLen {
		return "", ErrInvalidSessionID
	}
	return id, nil
}
