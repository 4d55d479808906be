// Package mock provides an offline, rule-based question generator used when no
// live model credentials are configured.
package mock

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/prompts"
)

const (
	// Provider is the provider name reported in logs.
	Provider = "mock"

	introReply    = "Hello! I am TalentScout's hiring assistant."
	startReply    = "Hello! I will collect your basic details (name, email, phone, experience, desired positions, location, tech stack). Let's start: What is your full name?"
	followUpReply = "Thanks for your message. You can answer the questions above, ask for different questions, or type 'done' to finish the session."
	fallbackReply = "I didn't fully understand that. Could you please rephrase or provide the requested info?"
)

var (
	greetingWords = []string{"hello", "hi", "hey"}
	stackKeywords = []string{"python", "django"}

	baseQuestions = []string{
		"Explain the core concept of %s.",
		"Give a common interview question about %s.",
		"Describe a performance consideration for %s.",
	}
	alternateQuestions = []string{
		"How would you debug a production issue involving %s?",
		"What are the most common pitfalls when working with %s?",
		"How would you test code that depends on %s?",
	}
)

// Responder answers with canned text keyed on the latest user message.
type Responder struct {
	logger *zap.Logger
	title  cases.Caser
}

func New(log *zap.Logger) *Responder {
	return &Responder{
		logger: logger.WithCommonFields(log, Provider, ""),
		title:  cases.Title(language.English),
	}
}

func (r *Responder) Generate(_ context.Context, _ string, messages []ai.Message) (string, error) {
	last, ok := ai.LastUserMessage(messages)
	if !ok {
		return introReply, nil
	}

	content := last.Content
	lower := strings.ToLower(content)

	switch {
	case strings.HasPrefix(strings.TrimSpace(content), prompts.TechStackMarker):
		techs, regenerate := techsFromPrompt(content)
		r.logger.Debug("mock question generation", zap.Strings("techs", techs), zap.Bool("regenerate", regenerate))
		if regenerate {
			return questions(techs, alternateQuestions), nil
		}
		return questions(techs, baseQuestions), nil
	case strings.HasPrefix(strings.TrimSpace(content), prompts.FollowUpMarker):
		return followUpReply, nil
	case strings.Contains(lower, "/start") || containsWord(lower, greetingWords):
		return startReply, nil
	case containsAny(lower, stackKeywords):
		techs := candidate.ParseTechStack(lower)
		for i, tech := range techs {
			techs[i] = r.title.String(tech)
		}
		return questions(techs, baseQuestions), nil
	default:
		return fallbackReply, nil
	}
}

// techsFromPrompt extracts the technology list from the first line of a
// question generation prompt.
func techsFromPrompt(prompt string) ([]string, bool) {
	line, _, _ := strings.Cut(strings.TrimSpace(prompt), "\n")
	line = strings.TrimSpace(strings.TrimPrefix(line, prompts.TechStackMarker))

	regenerate := false
	if trimmed, found := strings.CutSuffix(line, strings.TrimSpace(prompts.RegenerateSuffix)); found {
		line = trimmed
		regenerate = true
	}

	return candidate.ParseTechStack(line), regenerate
}

func questions(techs []string, templates []string) string {
	var builder strings.Builder
	for _, tech := range techs {
		fmt.Fprintf(&builder, "**%s Questions**\n", tech)
		for i, tmpl := range templates {
			fmt.Fprintf(&builder, "%d. %s\n", i+1, fmt.Sprintf(tmpl, tech))
		}
		builder.WriteString("\n")
	}
	return strings.TrimSpace(builder.String())
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func containsWord(s string, words []string) bool {
	for _, field := range strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z')
	}) {
		for _, w := range words {
			if field == w {
				return true
			}
		}
	}
	return false
}
