package sanitizer

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once
)

var (
	// javascript: scheme, tolerating whitespace around the colon.
	schemeRe = regexp.MustCompile(`(?i)javascript\s*:`)
	// Inline event-handler fragments like onclick= or onerror =.
	handlerRe = regexp.MustCompile(`(?i)\bon\w+\s*=`)
	angleRepl = strings.NewReplacer("<", "", ">", "")
)

func initPolicies() {
	initOnce.Do(func() {
		// StrictPolicy strips ALL HTML, returns plain text
		strictPolicy = bluemonday.StrictPolicy()
	})
}

// Sanitize neutralizes untrusted free-text input so it can never be
// interpreted as markup when later embedded in a generated message body.
// It trims surrounding whitespace, strips every HTML element (script
// bodies included), removes stray angle brackets, and drops javascript:
// scheme prefixes and inline event-handler fragments.
//
// The whole pass is repeated until the output stops changing, so
// Sanitize(Sanitize(s)) == Sanitize(s) even for inputs that smuggle
// payloads through nested entity encoding ("&amp;lt;script&amp;gt;").
//
// Sanitize never truncates; length limits are a validation concern.
func Sanitize(s string) string {
	initPolicies()

	s = strings.TrimSpace(s)
	for {
		next := neutralize(s)
		if next == s {
			return s
		}
		s = next
	}
}

// neutralize performs one strip pass. Each step only removes or collapses
// characters, so repeated application converges.
func neutralize(s string) string {
	// bluemonday drops elements (and script/style content) but
	// entity-escapes the remaining text; unescape so the angle-bracket
	// removal below sees literal characters.
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	s = angleRepl.Replace(s)
	s = schemeRe.ReplaceAllString(s, "")
	s = handlerRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
