// Package openaiapi provides a question generator backed by OpenAI chat
// completions.
package openaiapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/utils"
)

const (
	// Provider is the provider name reported in logs and errors.
	Provider = "openai"

	DefaultModel        = "gpt-4"
	DefaultTemperature  = 0.2
	DefaultMaxTokens    = 800
	defaultMaxLogLength = 200
)

type completer interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Config holds the generation parameters.
type Config struct {
	APIKey       string
	Model        string
	Temperature  float64
	MaxTokens    int
	MaxLogLength int
}

// Generator sends conversations to the OpenAI chat completions API.
type Generator struct {
	completions completer
	model       string
	temperature float64
	maxTokens   int
	maxLogLen   int
	logger      *zap.Logger
}

func NewGenerator(cfg Config, log *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	return newGenerator(&client.Chat.Completions, cfg, log), nil
}

func newGenerator(completions completer, cfg Config, log *zap.Logger) *Generator {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	return &Generator{
		completions: completions,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		maxLogLen:   maxLogLen,
		logger:      logger.WithCommonFields(log, Provider, model),
	}
}

func (g *Generator) Generate(ctx context.Context, systemPrompt string, messages []ai.Message) (string, error) {
	if g == nil || g.completions == nil {
		return "", errors.New("openai generator is not initialized")
	}

	if len(messages) == 0 {
		return "", errors.New("at least one message is required")
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(g.model),
		Messages:    make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1),
		Temperature: openai.Float(g.temperature),
		MaxTokens:   openai.Int(int64(g.maxTokens)),
	}

	if systemPrompt = strings.TrimSpace(systemPrompt); systemPrompt != "" {
		params.Messages = append(params.Messages, openai.SystemMessage(systemPrompt))
	}

	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case ai.RoleUser:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		case ai.RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		default:
			return "", fmt.Errorf("unsupported message role: %s", msg.Role)
		}
	}

	if last, ok := ai.LastUserMessage(messages); ok {
		g.logger.Debug("openai chat completion request",
			zap.Int("messages", len(params.Messages)),
			zap.Int("prompt_length", utf8.RuneCountInString(last.Content)),
			zap.String("prompt_preview", utils.Preview(last.Content, g.maxLogLen)),
		)
	}

	resp, err := g.completions.New(ctx, params)
	if err != nil {
		return "", &ai.GenerationError{Provider: Provider, Err: fmt.Errorf("chat completion: %w", err)}
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", &ai.GenerationError{Provider: Provider, Err: errors.New("empty response")}
	}

	output := strings.TrimSpace(resp.Choices[0].Message.Content)
	if output == "" {
		return "", &ai.GenerationError{Provider: Provider, Err: errors.New("empty response")}
	}

	g.logger.Debug("openai chat completion response",
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", utils.Preview(output, g.maxLogLen)),
		zap.Int64("total_tokens", resp.Usage.TotalTokens),
	)

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}
