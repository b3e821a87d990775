// Package sanitize makes note text safe to embed in generated HTML pages.
// Notes themselves are stored exactly as typed.
package sanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

// ugc is a cached bluemonday policy for user generated content.
// It's safe for concurrent use as bluemonday.Policy is read-only after build.
// WARNING: Never call mutating helpers (e.g. AddAttr, AllowElements) on this policy
// after initialization as it would create a data race.
var ugc = bluemonday.UGCPolicy()

// HTML returns s as HTML that can be embedded in a page. Scripts, event
// handlers and unknown tags are removed; inline formatting such as <b> and
// <i> is kept and plain text is escaped. Whitespace is left untouched.
//
// Examples:
//   - "<b>Groceries</b>" -> "<b>Groceries</b>"
//   - "<script>alert(1)</script>hi" -> "hi"
//   - "a < b" -> "a &lt; b"
func HTML(s string) string {
	return ugc.Sanitize(s)
}
