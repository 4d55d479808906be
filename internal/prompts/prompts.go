// Package prompts renders the instructions sent to the question generator.
package prompts

import (
	"strings"

	_ "embed"
)

const (
	techsPlaceholder = "{{TECHS}}"
	inputPlaceholder = "{{INPUT}}"

	// TechStackMarker starts the first line of every question generation prompt.
	TechStackMarker = "Given the following tech stack:"
	// FollowUpMarker starts every follow-up prompt.
	FollowUpMarker = "Candidate said:"
	// RegenerateSuffix is appended to the tech list when fresh questions are requested.
	RegenerateSuffix = " (please provide different/difficulty-adjusted questions)"
)

var (
	//go:embed system.md
	systemTemplate string
	//go:embed questions.md
	questionsTemplate string
	//go:embed followup.md
	followUpTemplate string
)

// System returns the system prompt shared by every generation call.
func System() string {
	return strings.TrimSpace(systemTemplate)
}

// Questions renders the question generation prompt for the given technologies.
func Questions(techs []string, regenerate bool) string {
	list := strings.Join(techs, ", ")
	if regenerate {
		list += RegenerateSuffix
	}

	return strings.TrimSpace(strings.ReplaceAll(questionsTemplate, techsPlaceholder, list))
}

// FollowUp renders the prompt for a free-form candidate message.
func FollowUp(input string) string {
	return strings.TrimSpace(strings.ReplaceAll(followUpTemplate, inputPlaceholder, input))
}
