// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips dangerous markup from user-supplied rich text
// before it is stored. Project and task descriptions pass through here.
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

// policy allows basic formatting tags but removes scripts, event handlers,
// and javascript: URLs.
var policy = bluemonday.UGCPolicy()

// Sanitize returns the input with disallowed HTML removed. Plain text passes
// through unchanged.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
