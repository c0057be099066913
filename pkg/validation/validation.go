package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// IdentifierRegex validates user, content and client identifiers
	IdentifierRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	// PermissionRegex validates permission names
	PermissionRegex = regexp.MustCompile(`^[a-z]+$`)
)

// ValidateUserID validates a user identifier
func ValidateUserID(id string) error {
	return validateIdentifier("user id", id, 64)
}

// ValidateContentID validates a content identifier
func ValidateContentID(id string) error {
	return validateIdentifier("content id", id, 64)
}

// ValidateClientID validates a caller-supplied playback client identifier
func ValidateClientID(id string) error {
	return validateIdentifier("client id", id, 128)
}

func validateIdentifier(name, id string, maxLen int) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%s is required", name)
	}
	if len(id) > maxLen {
		return fmt.Errorf("%s is too long (max %d characters)", name, maxLen)
	}
	if !IdentifierRegex.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters", name)
	}
	return nil
}

// ValidatePermissions validates a requested permission list
func ValidatePermissions(perms []string) error {
	if len(perms) == 0 {
		return fmt.Errorf("at least one permission is required")
	}
	for _, p := range perms {
		if !PermissionRegex.MatchString(p) {
			return fmt.Errorf("invalid permission name: %q", p)
		}
	}
	return nil
}
