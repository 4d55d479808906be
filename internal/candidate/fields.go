// Package candidate holds the fixed set of candidate fields collected during a
// screening conversation together with their prompts and validation rules.
package candidate

import "strings"

// Required field names in canonical order.
const (
	FullName         = "full_name"
	Email            = "email"
	Phone            = "phone"
	YearsExperience  = "years_experience"
	DesiredPositions = "desired_positions"
	CurrentLocation  = "current_location"
	TechStack        = "tech_stack"
)

// Answers is the sentinel field used for free-form answers to the generated
// questions. It is never required.
const Answers = "candidate_answers"

const defaultPrompt = "Please provide the information."

// Field describes one collected candidate attribute.
type Field struct {
	Name   string
	Prompt string
	// normalize validates the raw input and returns the value to store.
	// Nil means the trimmed input is stored as is.
	normalize func(string) (string, error)
}

var registry = []Field{
	{
		Name:   FullName,
		Prompt: "Please share your full name.",
	},
	{
		Name:      Email,
		Prompt:    "Please provide your email address.",
		normalize: normalizeEmail,
	},
	{
		Name:      Phone,
		Prompt:    "Please provide your phone number (include country code if outside India).",
		normalize: normalizePhone,
	},
	{
		Name:      YearsExperience,
		Prompt:    "How many years of professional experience do you have? (e.g., 2, 5.5)",
		normalize: normalizeYears,
	},
	{
		Name:   DesiredPositions,
		Prompt: "Which position(s) are you applying for or interested in?",
	},
	{
		Name:   CurrentLocation,
		Prompt: "What is your current location (city, country)?",
	},
	{
		Name:      TechStack,
		Prompt:    "Please list your tech stack (comma-separated): programming languages, frameworks, databases, tools.",
		normalize: normalizeTechStack,
	},
}

// Normalize validates raw and returns the value that should be stored for the
// field. A *ValidationError is returned when the value is rejected.
func (f Field) Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if f.normalize == nil {
		return raw, nil
	}
	return f.normalize(raw)
}

// Label returns the human readable field name, e.g. "years experience".
func (f Field) Label() string {
	return Label(f.Name)
}

// Label turns a field name into words.
func Label(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

// Fields returns the required fields in canonical order.
func Fields() []Field {
	fields := make([]Field, len(registry))
	copy(fields, registry)
	return fields
}

// Required returns the required field names in canonical order.
func Required() []string {
	names := make([]string, 0, len(registry))
	for _, f := range registry {
		names = append(names, f.Name)
	}
	return names
}

func Lookup(name string) (Field, bool) {
	for _, f := range registry {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Prompt returns the question asked for the named field.
func Prompt(name string) string {
	if f, ok := Lookup(name); ok {
		return f.Prompt
	}
	return defaultPrompt
}

// NextMissing returns the first required field absent from collected.
func NextMissing(collected map[string]string) (string, bool) {
	for _, f := range registry {
		if _, ok := collected[f.Name]; !ok {
			return f.Name, true
		}
	}
	return "", false
}

// Complete reports whether every required field has been collected.
func Complete(collected map[string]string) bool {
	_, missing := NextMissing(collected)
	return !missing
}
