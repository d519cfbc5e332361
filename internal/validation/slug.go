package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var profileSlugRegex = regexp.MustCompile(`^[a-z0-9-]{3,30}$`)

var reservedProfileSlugs = map[string]struct{}{
	"admin":        {},
	"api":          {},
	"auth":         {},
	"feed":         {},
	"posts":        {},
	"comments":     {},
	"profiles":     {},
	"accounts":     {},
	"transactions": {},
	"categories":   {},
	"targets":      {},
	"budgets":      {},
	"finance":      {},
	"settings":     {},
	"metrics":      {},
	"login":        {},
	"signup":       {},
	"me":           {},
}

// ValidateProfileSlug validates profile slug format and reserved names.
func ValidateProfileSlug(slug string) error {
	if !profileSlugRegex.MatchString(slug) {
		return fmt.Errorf("slug must be 3-30 characters and contain only lowercase letters, numbers, and hyphens")
	}

	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return fmt.Errorf("slug cannot start or end with a hyphen")
	}

	if _, exists := reservedProfileSlugs[slug]; exists {
		return fmt.Errorf("slug is reserved")
	}

	return nil
}
