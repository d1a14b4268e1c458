package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"gemini-chat/internal/session"
)

type GeminiConfig struct {
	APIKey       string
	Model        string
	Temperature  float64
	SystemPrompt string
}

// GeminiService answers chat messages with a Gemini model. It keeps no
// conversation state; the caller supplies the history on every call.
type GeminiService struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *zap.Logger
}

func NewGeminiService(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(float32(cfg.Temperature))
	model.SetTopP(0.95)
	if cfg.SystemPrompt != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(cfg.SystemPrompt))
	}

	return &GeminiService{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// Generate implements session.Model.
func (s *GeminiService) Generate(ctx context.Context, history []session.Turn, message string) (string, error) {
	cs := s.model.StartChat()
	cs.History = toContents(history)

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			s.logger.Warn("Gemini stopped early",
				zap.Int("candidate", i),
				zap.String("finish_reason", cand.FinishReason.String()),
			)
		}
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("Gemini blocked prompt: %s", resp.PromptFeedback.BlockReason)
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", errors.New("Gemini returned empty text")
	}
	return text, nil
}

// UnavailableModel stands in for Gemini when the client could not be
// created at startup. Every call fails with Reason.
type UnavailableModel struct {
	Reason error
}

func (m UnavailableModel) Generate(ctx context.Context, history []session.Turn, message string) (string, error) {
	if m.Reason == nil {
		return "", errors.New("model is not configured")
	}
	return "", m.Reason
}

// Helper functions

func toContents(history []session.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		contents = append(contents, &genai.Content{
			Role:  geminiRole(turn.Role),
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}
	return contents
}

func geminiRole(role session.Role) string {
	if role == session.RoleModel {
		return "model"
	}
	return "user"
}

// extractText returns the text of the first candidate only.
func extractText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String()
}
