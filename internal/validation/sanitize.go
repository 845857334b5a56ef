package validation

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// PlainText removes markup from a free-text value and returns the text that
// is actually submitted. Applying it twice gives the same result.
func PlainText(value string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	// the policy escapes entities in text nodes; submit the plain text
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(value)))
}
