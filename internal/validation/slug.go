// Package validation provides input validation helpers for the forum engine.
package validation

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

var (
	nonWordRunes  = regexp.MustCompile(`[^\w ]+`)
	spaceRuns     = regexp.MustCompile(` +`)
	slugPattern   = regexp.MustCompile(`^[a-z0-9_-]{1,320}$`)
	reservedSlugs = map[string]struct{}{
		"admin":      {},
		"api":        {},
		"categories": {},
		"forum":      {},
		"metrics":    {},
		"search":     {},
		"stats":      {},
		"threads":    {},
	}
)

// Slugify derives a URL-safe slug from a title: lowercase, non-word
// characters stripped, whitespace runs collapsed to hyphens, and a random
// numeric suffix appended so uniqueness holds without a lookup round-trip.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonWordRunes.ReplaceAllString(s, "")
	s = spaceRuns.ReplaceAllString(s, "-")
	return fmt.Sprintf("%s-%d", s, rand.Intn(1000))
}

// ValidateCategorySlug validates an admin-supplied category slug.
func ValidateCategorySlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("slug must contain only lowercase letters, numbers, hyphens, and underscores")
	}
	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return fmt.Errorf("slug cannot start or end with a hyphen")
	}
	if _, exists := reservedSlugs[slug]; exists {
		return fmt.Errorf("slug is reserved")
	}
	return nil
}
