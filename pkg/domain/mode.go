package domain

import (
	"fmt"
	"strings"
)

// PostMode selects how rendered embeds are grouped into webhook calls and
// whether a forum thread title is derived per item or once for the batch.
type PostMode string

// recognized posting modes
const (
	ModePerItem PostMode = "per-item" // one post per embed, each with its own thread title
	ModeSingle  PostMode = "single"   // one batched post with a single derived title
	ModeAuto    PostMode = "auto"     // batched post first, per-item fallback on failure
	ModeOff     PostMode = "off"      // one batched post, no thread title
)

// ParsePostMode normalizes a user-supplied mode string. Empty input selects
// ModeAuto.
func ParsePostMode(s string) (PostMode, error) {
	switch m := PostMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModePerItem, ModeSingle, ModeAuto, ModeOff:
		return m, nil
	case "":
		return ModeAuto, nil
	default:
		return "", fmt.Errorf("unknown post mode %q", s)
	}
}
