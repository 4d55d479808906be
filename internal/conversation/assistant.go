package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/prompts"
	"github.com/spigell/talentscout/internal/utils"
)

const (
	Farewell       = "Thanks for your time! Our recruiters will review your submission and contact you soon. Goodbye."
	Greeting       = "Hello! I'm TalentScout's Hiring Assistant. I will collect a few details and ask technical questions based on your tech stack. Let's begin."
	FollowUpOffer  = "I generated questions above. Do you want to answer them now, request a different difficulty, or finish the session?"
	AnswersPrompt  = "Great — please paste your answers and I will append them to your submission."
	AnswersSaved   = "Thanks, your answers were added to your submission. Type 'done' when you want to finish."
	Fallback       = "Sorry, I didn't understand that. Please rephrase or provide the requested information. If you want to exit, type 'exit' or 'bye'."
	generatingNote = "Thanks — generating technical questions based on your tech stack..."

	// WarningMarker prefixes replies that report a generator failure.
	WarningMarker = "⚠️ [LLM error]"

	previewLength = 120
)

var exitKeywords = []string{"exit", "quit", "bye", "stop", "done", "thank you", "thanks"}

var (
	regenerateWords = []string{"regenerate", "different", "new"}
	answerWords     = []string{"answer", "i will answer", "i want to answer"}
)

// ExitKeywords returns the words that end a conversation from any stage.
func ExitKeywords() []string {
	keywords := make([]string, len(exitKeywords))
	copy(keywords, exitKeywords)
	return keywords
}

// IsExitKeyword reports whether text, trimmed and lowercased, is exactly one
// of the exit keywords.
func IsExitKeyword(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	for _, keyword := range exitKeywords {
		if text == keyword {
			return true
		}
	}
	return false
}

// Assistant is the conversation state machine. It holds no session state of
// its own and can serve any number of sequential sessions.
type Assistant struct {
	generator ai.Generator
	logger    *zap.Logger
}

func New(generator ai.Generator, log *zap.Logger) *Assistant {
	return &Assistant{
		generator: generator,
		logger:    logger.WithFields(log),
	}
}

// HandleMessage consumes one candidate message, updates the session in place
// and returns the assistant reply. finished is true once the candidate has
// ended the conversation.
func (a *Assistant) HandleMessage(ctx context.Context, s *Session, userText string) (string, bool) {
	if s.Collected == nil {
		s.Collected = make(map[string]string)
	}

	text := strings.TrimSpace(userText)
	log := a.logger.With(logger.SessionFields(s.ID, s.Stage.String())...)

	if IsExitKeyword(text) {
		s.append(ai.RoleUser, userText)
		s.append(ai.RoleAssistant, Farewell)
		s.Stage = StageFinished
		log.Info("conversation finished by candidate")
		return Farewell, true
	}

	s.append(ai.RoleUser, userText)

	switch s.Stage {
	case StageGreeting:
		return a.greet(ctx, s, log), false
	case StageCollecting:
		return a.collect(ctx, s, text, log), false
	case StageTechQuestions:
		return a.techQuestions(ctx, s, text, log), false
	case StageFinished:
		return a.reply(s, Fallback), false
	default:
		log.Warn("unknown conversation stage")
		return a.reply(s, Fallback), false
	}
}

func (a *Assistant) greet(ctx context.Context, s *Session, log *zap.Logger) string {
	s.append(ai.RoleAssistant, Greeting)
	s.Stage = StageCollecting
	log.Debug("stage changed", zap.Stringer("to", s.Stage))
	return a.advance(ctx, s, Greeting, log)
}

func (a *Assistant) collect(ctx context.Context, s *Session, text string, log *zap.Logger) string {
	ack := ""
	if field := s.AwaitingField; field != "" {
		value := text
		if def, ok := candidate.Lookup(field); ok {
			normalized, err := def.Normalize(text)
			if err != nil {
				log.Info("field rejected", zap.String("field", field), zap.Error(err))
				return a.reply(s, validationMessage(err))
			}
			value = normalized
		}

		s.Collected[field] = value
		ack = fmt.Sprintf("Saved %s.", candidate.Label(field))
		s.append(ai.RoleAssistant, ack)
		log.Debug("field collected", zap.String("field", field))
	}

	return a.advance(ctx, s, ack, log)
}

// advance prompts for the next missing field or, when every field is
// collected, moves on to question generation.
func (a *Assistant) advance(ctx context.Context, s *Session, prefix string, log *zap.Logger) string {
	next, ok := candidate.NextMissing(s.Collected)
	if !ok {
		return a.startQuestions(ctx, s, log)
	}

	prompt := candidate.Prompt(next)
	s.append(ai.RoleAssistant, prompt)
	s.AwaitingField = next

	if prefix == "" {
		return prompt
	}
	return prefix + " " + prompt
}

func (a *Assistant) startQuestions(ctx context.Context, s *Session, log *zap.Logger) string {
	s.AwaitingField = ""
	s.append(ai.RoleAssistant, generatingNote)

	techs := candidate.ParseTechStack(s.Collected[candidate.TechStack])
	output, err := a.generate(ctx, prompts.Questions(techs, false), log)
	if err != nil {
		// The stage stays at collecting with nothing awaited, so the next
		// message retries generation.
		return a.reply(s, warning(err))
	}

	s.Stage = StageTechQuestions
	s.LastGeneratedQuestions = GeneratedQuestions{ByTech: techs, Raw: output}
	s.append(ai.RoleAssistant, output)
	s.append(ai.RoleAssistant, FollowUpOffer)
	log.Info("technical questions generated", zap.Strings("techs", techs))

	return output + "\n\n" + FollowUpOffer
}

func (a *Assistant) techQuestions(ctx context.Context, s *Session, text string, log *zap.Logger) string {
	if s.AwaitingField == candidate.Answers {
		s.Collected[candidate.Answers] = text
		s.AwaitingField = ""
		log.Info("candidate answers collected")
		return a.reply(s, AnswersSaved)
	}

	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, regenerateWords):
		techs := candidate.ParseTechStack(s.Collected[candidate.TechStack])
		output, err := a.generate(ctx, prompts.Questions(techs, true), log)
		if err != nil {
			return a.reply(s, warning(err))
		}
		s.LastGeneratedQuestions = GeneratedQuestions{ByTech: techs, Raw: output}
		log.Info("technical questions regenerated", zap.Strings("techs", techs))
		return a.reply(s, output)
	case containsAny(lower, answerWords):
		s.AwaitingField = candidate.Answers
		return a.reply(s, AnswersPrompt)
	default:
		output, err := a.generate(ctx, prompts.FollowUp(text), log)
		if err != nil {
			return a.reply(s, warning(err))
		}
		return a.reply(s, output)
	}
}

func (a *Assistant) generate(ctx context.Context, prompt string, log *zap.Logger) (string, error) {
	if a.generator == nil {
		return "", errors.New("question generator is not configured")
	}

	output, err := a.generator.Generate(ctx, prompts.System(), []ai.Message{
		{Role: ai.RoleUser, Content: prompt},
	})
	if err != nil {
		log.Warn("generation failed",
			zap.String("prompt_preview", utils.Preview(prompt, previewLength)),
			zap.Error(err),
		)
		return "", err
	}

	return output, nil
}

func (a *Assistant) reply(s *Session, text string) string {
	s.append(ai.RoleAssistant, text)
	return text
}

func warning(err error) string {
	return WarningMarker + " " + err.Error()
}

func validationMessage(err error) string {
	var verr *candidate.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
