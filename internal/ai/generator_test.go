package ai

import (
	"errors"
	"testing"
)

func TestLastUserMessage(t *testing.T) {
	messages := []Message{
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "reply"},
		{Role: RoleUser, Content: "second"},
		{Role: RoleAssistant, Content: "another reply"},
	}

	msg, ok := LastUserMessage(messages)
	if !ok {
		t.Fatalf("expected a user message")
	}
	if msg.Content != "second" {
		t.Fatalf("unexpected message: %q", msg.Content)
	}

	if _, ok := LastUserMessage([]Message{{Role: RoleAssistant, Content: "x"}}); ok {
		t.Fatalf("did not expect a user message")
	}

	if _, ok := LastUserMessage(nil); ok {
		t.Fatalf("did not expect a user message for nil input")
	}
}

func TestGenerationErrorUnwrap(t *testing.T) {
	base := errors.New("quota exceeded")
	err := &GenerationError{Provider: "openai", Err: base}

	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to match")
	}
	if err.Error() != "openai: quota exceeded" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
