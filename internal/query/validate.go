package query

import (
	"fmt"
	"regexp"
	"strings"
)

var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var allowedOperators = map[string]bool{
	"=":        true,
	"!=":       true,
	"<>":       true,
	"<":        true,
	">":        true,
	"<=":       true,
	">=":       true,
	"LIKE":     true,
	"NOT LIKE": true,
	"IN":       true,
	"NOT IN":   true,
	"IS":       true,
	"IS NOT":   true,
}

// ValidateIdentifier returns name unchanged when it is safe to interpolate as a
// table or column name. Nothing is quoted or escaped; anything else is rejected.
func ValidateIdentifier(name string) (string, error) {
	if !identifierRegex.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return name, nil
}

// ValidateOperator trims and upper-cases op and returns the canonical form.
func ValidateOperator(op string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(op))
	if !allowedOperators[normalized] {
		return "", fmt.Errorf("%w: %q", ErrInvalidOperator, op)
	}
	return normalized, nil
}

// normalizeDirection maps anything other than "desc" (any casing) to ASC.
func normalizeDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "desc") {
		return "DESC"
	}
	return "ASC"
}
