package candidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredOrder(t *testing.T) {
	assert.Equal(t, []string{
		"full_name", "email", "phone", "years_experience",
		"desired_positions", "current_location", "tech_stack",
	}, Required())
}

func TestFieldsReturnsCopy(t *testing.T) {
	fields := Fields()
	fields[0].Prompt = "changed"

	assert.Equal(t, "Please share your full name.", Prompt(FullName))
}

func TestPromptUnknownField(t *testing.T) {
	assert.Equal(t, defaultPrompt, Prompt("shoe_size"))
	assert.Equal(t, defaultPrompt, Prompt(Answers))
}

func TestNextMissing(t *testing.T) {
	collected := map[string]string{}

	for _, name := range Required() {
		next, ok := NextMissing(collected)
		assert.True(t, ok)
		assert.Equal(t, name, next)
		assert.False(t, Complete(collected))
		collected[name] = "value"
	}

	_, ok := NextMissing(collected)
	assert.False(t, ok)
	assert.True(t, Complete(collected))
}

func TestNextMissingIgnoresInsertionOrder(t *testing.T) {
	collected := map[string]string{
		TechStack: "Go",
		Email:     "a@b.com",
		FullName:  "Jane",
	}

	next, ok := NextMissing(collected)
	assert.True(t, ok)
	assert.Equal(t, Phone, next)
}

func TestLabel(t *testing.T) {
	f, _ := Lookup(YearsExperience)
	assert.Equal(t, "years experience", f.Label())
}
