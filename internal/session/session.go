package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Model is the generative-language collaborator. It receives the ordered
// turns that precede message and returns the generated reply.
type Model interface {
	Generate(ctx context.Context, history []Turn, message string) (string, error)
}

// Session holds one conversation. Sends on the same session are serialized
// so its history always matches call order; reads never wait on a send.
type Session struct {
	ID string

	sendSlot chan struct{}

	mu       sync.Mutex
	turns    []Turn
	maxTurns int
	now      func() time.Time
}

func newSession(id string, maxTurns int) *Session {
	s := &Session{
		ID:       id,
		sendSlot: make(chan struct{}, 1),
		maxTurns: pairCap(maxTurns),
		now:      time.Now,
	}
	s.sendSlot <- struct{}{}
	return s
}

// pairCap rounds a positive cap up to a whole number of user/model pairs.
func pairCap(maxTurns int) int {
	if maxTurns <= 0 {
		return 0
	}
	if maxTurns%2 != 0 {
		maxTurns++
	}
	return maxTurns
}

// Send passes message and the accumulated history to model. On success the
// user turn and the model turn are appended together; on failure the history
// is left untouched.
func (s *Session) Send(ctx context.Context, model Model, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}

	select {
	case <-s.sendSlot:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { s.sendSlot <- struct{}{} }()

	history := s.History()

	sentAt := s.now()
	reply, err := model.Generate(ctx, history, message)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", fmt.Errorf("%w: model returned an empty reply", ErrUpstreamUnavailable)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns,
		Turn{Role: RoleUser, Text: message, CreatedAt: sentAt},
		Turn{Role: RoleModel, Text: reply, CreatedAt: s.now()},
	)
	s.trim()

	return reply, nil
}

// trim drops the oldest user/model pairs once the history exceeds maxTurns.
// Callers hold s.mu.
func (s *Session) trim() {
	if s.maxTurns <= 0 || len(s.turns) <= s.maxTurns {
		return
	}
	excess := len(s.turns) - s.maxTurns
	s.turns = append([]Turn(nil), s.turns[excess:]...)
}

// History returns a copy of the turns in call order.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}
