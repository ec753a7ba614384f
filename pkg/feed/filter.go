package feed

import (
	"strings"

	"github.com/ceponatia/copilot-changelog/pkg/domain"
)

// Relevant reports whether the entry is about the target product. Feeds are
// inconsistent about where categorization lives, so tag term/label, the
// category string and the title are all checked, case-insensitively with
// substring semantics.
func Relevant(e domain.Entry, keyword string) bool {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	if needle == "" {
		return false
	}

	for _, t := range e.Tags {
		if containsFold(t.Term, needle) || containsFold(t.Label, needle) {
			return true
		}
	}
	if containsFold(e.Category, needle) {
		return true
	}
	return containsFold(e.Title, needle)
}

// Fingerprint returns a stable deduplication identifier for the entry,
// preferring the feed-assigned id, then the link, then the title. An empty
// result means the entry cannot be deduplicated safely and must be dropped.
func Fingerprint(e domain.Entry) string {
	switch {
	case e.ID != "":
		return e.ID
	case e.Link != "":
		return e.Link
	default:
		return e.Title
	}
}

func containsFold(s, lowerNeedle string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), lowerNeedle)
}
