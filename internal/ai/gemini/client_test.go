package gemini

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/talentscout/internal/ai"
)

type fakeChatCreator struct {
	mu    sync.Mutex
	calls []chatCallRecord
	queue []fakeChatResponse
}

type chatCallRecord struct {
	model   string
	config  *genai.GenerateContentConfig
	history []*genai.Content
	chat    *fakeChat
}

type fakeChatResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeChat struct {
	mu       sync.Mutex
	response fakeChatResponse
	messages []string
}

func (f *fakeChat) SendMessage(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, part := range parts {
		f.messages = append(f.messages, part.Text)
	}
	return f.response.resp, f.response.err
}

func (f *fakeChatCreator) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeChatResponse{resp: resp, err: err})
}

func (f *fakeChatCreator) Create(_ context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	chat := &fakeChat{response: res}
	f.calls = append(f.calls, chatCallRecord{model: model, config: config, history: history, chat: chat})
	return chat, nil
}

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, 0, len(texts))
	for _, text := range texts {
		parts = append(parts, &genai.Part{Text: text})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func newTestGenerator(chats chatCreator) *Generator {
	return &Generator{
		chats:     chats,
		model:     "gemini-pro",
		maxLogLen: defaultMaxLogLength,
		logger:    zap.NewNop(),
	}
}

func TestGeneratorSendsLastUserMessage(t *testing.T) {
	chats := &fakeChatCreator{}
	chats.enqueue(textResponse("**Go Questions**", " 1. Explain goroutines. "), nil)

	g := newTestGenerator(chats)

	output, err := g.Generate(context.Background(), "system", []ai.Message{
		{Role: ai.RoleUser, Content: "hello"},
		{Role: ai.RoleAssistant, Content: "hi there"},
		{Role: ai.RoleUser, Content: "Given the following tech stack: Go"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "**Go Questions**\n1. Explain goroutines." {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(chats.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(chats.calls))
	}

	call := chats.calls[0]
	if call.model != "gemini-pro" {
		t.Fatalf("unexpected model: %q", call.model)
	}

	if call.config == nil || call.config.SystemInstruction == nil {
		t.Fatalf("expected system instruction to be set")
	}
	if got := call.config.SystemInstruction.Parts[0].Text; got != "system" {
		t.Fatalf("unexpected system instruction: %q", got)
	}

	if len(call.history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(call.history))
	}
	if call.history[0].Role != "user" || call.history[1].Role != "model" {
		t.Fatalf("unexpected history roles: %q, %q", call.history[0].Role, call.history[1].Role)
	}

	if len(call.chat.messages) != 1 || call.chat.messages[0] != "Given the following tech stack: Go" {
		t.Fatalf("unexpected chat message: %+v", call.chat.messages)
	}
}

func TestGeneratorWithoutSystemPrompt(t *testing.T) {
	chats := &fakeChatCreator{}
	chats.enqueue(textResponse("ok"), nil)

	g := newTestGenerator(chats)

	if _, err := g.Generate(context.Background(), "  ", []ai.Message{{Role: ai.RoleUser, Content: "hi"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if chats.calls[0].config.SystemInstruction != nil {
		t.Fatalf("did not expect a system instruction")
	}
}

func TestGeneratorDoesNotRetry(t *testing.T) {
	chats := &fakeChatCreator{}
	chats.enqueue(nil, errors.New("internal error"))
	chats.enqueue(textResponse("never reached"), nil)

	g := newTestGenerator(chats)

	_, err := g.Generate(context.Background(), "sys", []ai.Message{{Role: ai.RoleUser, Content: "msg"}})
	if err == nil {
		t.Fatal("expected error")
	}

	var genErr *ai.GenerationError
	if !errors.As(err, &genErr) || genErr.Provider != Provider {
		t.Fatalf("expected generation error from gemini, got %v", err)
	}

	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
}

func TestGeneratorEmptyResponse(t *testing.T) {
	chats := &fakeChatCreator{}
	chats.enqueue(textResponse("   "), nil)

	g := newTestGenerator(chats)

	_, err := g.Generate(context.Background(), "sys", []ai.Message{{Role: ai.RoleUser, Content: "msg"}})
	if err == nil || !strings.Contains(err.Error(), "empty response") {
		t.Fatalf("expected empty response error, got %v", err)
	}
}

func TestGeneratorRejectsInvalidConversation(t *testing.T) {
	tests := []struct {
		name     string
		messages []ai.Message
	}{
		{name: "no messages"},
		{name: "last message from assistant", messages: []ai.Message{{Role: ai.RoleAssistant, Content: "hi"}}},
		{name: "blank user message", messages: []ai.Message{{Role: ai.RoleUser, Content: "  "}}},
		{name: "system role in history", messages: []ai.Message{
			{Role: ai.RoleSystem, Content: "sys"},
			{Role: ai.RoleUser, Content: "hi"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chats := &fakeChatCreator{}
			g := newTestGenerator(chats)

			if _, err := g.Generate(context.Background(), "sys", tt.messages); err == nil {
				t.Fatalf("expected error")
			}
			if len(chats.calls) != 0 {
				t.Fatalf("expected no chat to be created")
			}
		})
	}
}

func TestNewGeneratorRequiresKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), "  ", "", 0, nil); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
