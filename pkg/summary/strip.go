package summary

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var (
	strict       = bluemonday.StrictPolicy()
	trailingJunk = regexp.MustCompile(`[\s\-–—:.,;!?#]+$`)
	spaceRun     = regexp.MustCompile(`\s+`)
)

// StripHTML flattens an HTML fragment to plain text. Text nodes are joined
// with single spaces so adjacent blocks don't run together, script and style
// bodies are dropped, entities are decoded and whitespace collapsed.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	tz := html.NewTokenizer(strings.NewReader(s))
	var parts []string
	skip := 0 // depth inside script/style
	for {
		switch tz.Next() {
		case html.ErrorToken:
			return collapseSpace(strings.Join(parts, " "))
		case html.StartTagToken:
			if name, _ := tz.TagName(); isRawTag(string(name)) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := tz.TagName(); isRawTag(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			if t := strings.TrimSpace(string(tz.Text())); t != "" {
				parts = append(parts, t)
			}
		}
	}
}

func isRawTag(name string) bool {
	return name == "script" || name == "style"
}

func collapseSpace(s string) string {
	return spaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Truncate hard-cuts s to at most maxLen characters, replacing the tail with
// an ellipsis when something was cut. Short input is returned verbatim.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return strings.TrimRight(string(r[:maxLen-1]), " \t\n") + "…"
}

// CleanTitle normalizes a raw title into something usable as a forum thread
// name: markup stripped, whitespace collapsed, surrounding quotes and
// trailing punctuation/separator runs removed, hard-capped at maxLen.
func CleanTitle(raw string, maxLen int) string {
	s := StripHTML(raw)
	s = strings.Trim(s, `'" `)
	s = trailingJunk.ReplaceAllString(s, "")
	if r := []rune(s); len(r) > maxLen {
		s = strings.TrimRight(string(r[:maxLen]), " ")
	}
	return s
}

// scrub removes any markup a generation service may have produced before the
// text goes into an outgoing embed
func scrub(s string) string {
	return html.UnescapeString(strict.Sanitize(s))
}
