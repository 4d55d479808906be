package candidate

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15

	// Years outside this decimal exponent range are written in exponent
	// notation, the way Python prints floats.
	minPlainExponent = -4
	maxPlainExponent = 16
)

const (
	msgInvalidEmail = "That doesn't look like a valid email. Please provide a correct email address."
	msgInvalidPhone = "That doesn't look like a valid phone number. Please provide digits with country code or try another format."
	msgInvalidYears = "Please provide years of experience as a number (e.g., 2 or 3.5)."
	msgEmptyStack   = "Please provide at least one technology in your tech stack."
)

var (
	// Word characters include every Unicode letter and digit.
	emailPattern    = regexp.MustCompile(`^[\p{L}\p{N}_.-]+@[\p{L}\p{N}_.-]+\.[\p{L}\p{N}_]+$`)
	phoneSeparators = regexp.MustCompile(`[\s\-()]`)
)

// ValidationError describes a rejected field value. Message is meant to be
// shown to the candidate as the re-prompt.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// ValidPhone reports whether s holds 7 to 15 digits once spaces, hyphens,
// parentheses and a leading plus are removed.
func ValidPhone(s string) bool {
	cleaned := phoneSeparators.ReplaceAllString(s, "")
	cleaned = strings.TrimLeft(cleaned, "+")

	if len(cleaned) < minPhoneDigits || len(cleaned) > maxPhoneDigits {
		return false
	}

	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// ParseYears parses a non-negative amount of years and returns it in float
// notation, so "2" becomes "2.0" and "3.5" stays "3.5". Very large or very
// small amounts use exponent notation such as "1e+16" or "1e-05".
func ParseYears(s string) (string, bool) {
	years, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(years) || math.IsInf(years, 0) || years < 0 {
		return "", false
	}

	return formatYears(years), true
}

func formatYears(years float64) string {
	scientific := strconv.FormatFloat(years, 'e', -1, 64)
	exponent, err := strconv.Atoi(scientific[strings.IndexByte(scientific, 'e')+1:])
	if err == nil && (exponent < minPlainExponent || exponent >= maxPlainExponent) {
		return scientific
	}

	formatted := strconv.FormatFloat(years, 'f', -1, 64)
	if !strings.Contains(formatted, ".") {
		formatted += ".0"
	}
	return formatted
}

func normalizeEmail(raw string) (string, error) {
	if !ValidEmail(raw) {
		return "", &ValidationError{Field: Email, Message: msgInvalidEmail}
	}
	return strings.TrimSpace(raw), nil
}

func normalizePhone(raw string) (string, error) {
	if !ValidPhone(raw) {
		return "", &ValidationError{Field: Phone, Message: msgInvalidPhone}
	}
	return raw, nil
}

func normalizeYears(raw string) (string, error) {
	years, ok := ParseYears(raw)
	if !ok {
		return "", &ValidationError{Field: YearsExperience, Message: msgInvalidYears}
	}
	return years, nil
}

func normalizeTechStack(raw string) (string, error) {
	techs := ParseTechStack(raw)
	if len(techs) == 0 {
		return "", &ValidationError{Field: TechStack, Message: msgEmptyStack}
	}
	return strings.Join(techs, ", "), nil
}
