package core

import (
	"regexp"

	"github.com/gofrs/uuid"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// IsValidSlug reports whether s is lowercase alphanumeric words joined by single dashes.
func IsValidSlug(s string) bool {
	return len(s) > 0 && len(s) <= 100 && slugRegex.MatchString(s)
}

// IsUUID reports whether s is a canonical UUID string.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.FromString(s)
	return err == nil
}
