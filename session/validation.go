package session

import (
	"regexp"
	"strings"

	"github.com/anschmieg/quartier/internal/apperrors"
)

// Capability patterns must name at least owner and repository, with each
// segment restricted to the characters a content provider allows in repo
// and file names. A single trailing "/*" marks a subtree grant.
var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidatePaths checks a capability pattern set at session creation.
func ValidatePaths(paths []string) error {
	if len(paths) == 0 {
		return apperrors.Validation("at least one path required")
	}
	for _, p := range paths {
		if err := validatePattern(p); err != nil {
			return err
		}
	}
	return nil
}

func validatePattern(pattern string) error {
	trimmed := strings.TrimSuffix(pattern, "/*")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 {
		return apperrors.Validation("invalid path format: %s (must be owner/repo or owner/repo/path)", pattern)
	}
	for _, part := range parts {
		// "." and ".." pass the charset but would defeat prefix
		// comparisons downstream.
		if part == "." || part == ".." || !segmentPattern.MatchString(part) {
			return apperrors.Validation("invalid path format: %s (must be owner/repo or owner/repo/path)", pattern)
		}
	}
	return nil
}
