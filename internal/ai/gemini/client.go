package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/utils"
)

const (
	// Provider is the provider name reported in logs and errors.
	Provider = "gemini"

	defaultModel        = "gemini-2.5-flash"
	defaultMaxLogLength = 200
)

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (c genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	chat, err := c.chats.Create(ctx, model, config, history)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// Generator answers conversations through a Gemini chat session.
type Generator struct {
	chats     chatCreator
	model     string
	maxLogLen int
	logger    *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, maxLogLength int, log *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Generator{
		chats:     genaiChats{chats: client.Chats},
		model:     model,
		maxLogLen: maxLogLength,
		logger:    logger.WithCommonFields(log, Provider, model),
	}, nil
}

// Generate replays all but the last message as chat history and sends the
// last one, which must come from the user.
func (g *Generator) Generate(ctx context.Context, systemPrompt string, messages []ai.Message) (string, error) {
	if g == nil || g.chats == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	if len(messages) == 0 {
		return "", errors.New("at least one message is required")
	}

	last := messages[len(messages)-1]
	if last.Role != ai.RoleUser || strings.TrimSpace(last.Content) == "" {
		return "", errors.New("last message must be a non-empty user message")
	}

	history, err := toHistory(messages[:len(messages)-1])
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{}
	if systemPrompt = strings.TrimSpace(systemPrompt); systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	g.logger.Debug("gemini generate content request",
		zap.Int("history_length", len(history)),
		zap.Int("prompt_length", utf8.RuneCountInString(last.Content)),
		zap.String("prompt_preview", utils.Preview(last.Content, g.maxLogLen)),
	)

	chat, err := g.chats.Create(ctx, g.model, config, history)
	if err != nil {
		return "", &ai.GenerationError{Provider: Provider, Err: fmt.Errorf("create chat: %w", err)}
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: last.Content})
	if err != nil {
		return "", &ai.GenerationError{Provider: Provider, Err: fmt.Errorf("send message: %w", err)}
	}

	output := responseText(resp)
	if output == "" {
		return "", &ai.GenerationError{Provider: Provider, Err: errors.New("empty response")}
	}

	g.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", utils.Preview(output, g.maxLogLen)),
	)

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func toHistory(messages []ai.Message) ([]*genai.Content, error) {
	history := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		var role string
		switch msg.Role {
		case ai.RoleUser:
			role = string(genai.RoleUser)
		case ai.RoleAssistant:
			role = string(genai.RoleModel)
		default:
			return nil, fmt.Errorf("unsupported message role in history: %s", msg.Role)
		}

		if strings.TrimSpace(msg.Content) == "" {
			continue
		}

		history = append(history, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}
	return history, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}
