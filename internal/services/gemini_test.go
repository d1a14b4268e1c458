package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"gemini-chat/internal/session"
)

func TestToContents_PreservesOrderAndRoles(t *testing.T) {
	history := []session.Turn{
		{Role: session.RoleUser, Text: "hello"},
		{Role: session.RoleModel, Text: "hi there"},
		{Role: session.RoleUser, Text: "how are you?"},
	}

	contents := toContents(history)

	if len(contents) != len(history) {
		t.Fatalf("expected %d contents, got %d", len(history), len(contents))
	}
	wantRoles := []string{"user", "model", "user"}
	for i, c := range contents {
		if c.Role != wantRoles[i] {
			t.Errorf("content %d: expected role %q, got %q", i, wantRoles[i], c.Role)
		}
		if len(c.Parts) != 1 {
			t.Fatalf("content %d: expected 1 part, got %d", i, len(c.Parts))
		}
		if text, ok := c.Parts[0].(genai.Text); !ok || string(text) != history[i].Text {
			t.Errorf("content %d: expected text %q, got %v", i, history[i].Text, c.Parts[0])
		}
	}
}

func TestToContents_Empty(t *testing.T) {
	contents := toContents(nil)
	if contents == nil || len(contents) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", contents)
	}
}

func TestExtractText_JoinsTextPartsOfFirstCandidate(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("hi "), genai.Blob{MIMEType: "image/png"}, genai.Text("there")}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("alternate reply")}}},
		},
	}

	if got := extractText(resp); got != "hi there" {
		t.Fatalf("expected %q, got %q", "hi there", got)
	}
}

func TestExtractText_NoUsableCandidate(t *testing.T) {
	tests := []*genai.GenerateContentResponse{
		{},
		{Candidates: []*genai.Candidate{{Content: nil}}},
	}
	for i, resp := range tests {
		if got := extractText(resp); got != "" {
			t.Errorf("case %d: expected empty text, got %q", i, got)
		}
	}
}

func TestUnavailableModel(t *testing.T) {
	cause := errors.New("no client")

	_, err := UnavailableModel{Reason: cause}.Generate(context.Background(), nil, "hello")
	if !errors.Is(err, cause) {
		t.Fatalf("expected %v, got %v", cause, err)
	}

	_, err = UnavailableModel{}.Generate(context.Background(), nil, "hello")
	if err == nil {
		t.Fatal("expected an error from an unconfigured model")
	}
}
