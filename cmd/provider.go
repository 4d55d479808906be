package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/ai/gemini"
	"github.com/spigell/talentscout/internal/ai/mock"
	"github.com/spigell/talentscout/internal/ai/openaiapi"
	"github.com/spigell/talentscout/internal/secrets"
)

const (
	providerAuto   = "auto"
	providerMock   = mock.Provider
	providerOpenAI = openaiapi.Provider
	providerGemini = gemini.Provider
)

var modes = map[string]string{
	providerMock:   "MOCK",
	providerOpenAI: "LIVE (OpenAI)",
	providerGemini: "LIVE (Gemini)",
}

// newGenerator builds the generator for the configured provider and returns
// it together with the mode label shown to the candidate.
func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Generator, string, error) {
	provider, err := resolveProvider(cfg)
	if err != nil {
		return nil, "", err
	}

	logger.Debug("resolved ai provider", zap.String("ai_provider", provider))

	switch provider {
	case providerOpenAI:
		apiKey, err := secrets.Load(openAIKeySource(cfg.OpenAI))
		if err != nil {
			return nil, "", fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY)", err)
		}

		generator, err := openaiapi.NewGenerator(openaiapi.Config{
			APIKey:       apiKey,
			Model:        cfg.OpenAI.Model,
			Temperature:  cfg.OpenAI.Temperature,
			MaxTokens:    cfg.OpenAI.MaxTokens,
			MaxLogLength: cfg.MaxLogLength,
		}, logger)
		if err != nil {
			return nil, "", err
		}
		return generator, modes[provider], nil
	case providerGemini:
		apiKey, err := secrets.Load(geminiKeySource(cfg.Gemini))
		if err != nil {
			return nil, "", fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
		}

		generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.MaxLogLength, logger)
		if err != nil {
			return nil, "", err
		}
		return generator, modes[provider], nil
	default:
		return mock.New(logger), modes[providerMock], nil
	}
}

// resolveProvider picks the concrete provider. Auto prefers OpenAI, then
// Gemini, and falls back to the mock responder when no key is configured.
func resolveProvider(cfg *AIConfig) (string, error) {
	if cfg == nil {
		cfg = &AIConfig{}
	}
	if cfg.OpenAI == nil {
		cfg.OpenAI = &OpenAIConfig{}
	}
	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case "", providerAuto:
		if keyConfigured(openAIKeySource(cfg.OpenAI)) {
			return providerOpenAI, nil
		}
		if keyConfigured(geminiKeySource(cfg.Gemini)) {
			return providerGemini, nil
		}
		return providerMock, nil
	case providerMock, providerOpenAI, providerGemini:
		return provider, nil
	default:
		return "", fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func openAIKeySource(cfg *OpenAIConfig) secrets.Source {
	return secrets.Source{
		Name:  "openai api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "OPENAI_API_KEY",
	}
}

func geminiKeySource(cfg *GeminiConfig) secrets.Source {
	return secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	}
}

func keyConfigured(src secrets.Source) bool {
	if strings.TrimSpace(src.File) != "" || strings.TrimSpace(src.Value) != "" {
		return true
	}
	return src.Env != "" && strings.TrimSpace(os.Getenv(src.Env)) != ""
}
