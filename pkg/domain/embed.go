package domain

// Embed is a rendered notification card derived from one entry. It is
// constructed right before delivery and never persisted.
type Embed struct {
	Title       string
	URL         string
	Description string
	Timestamp   string // ISO-8601, UTC
}
