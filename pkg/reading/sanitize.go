package reading

import "regexp"

// markdownStripRegex matches every character that is structurally
// significant to the renderer: emphasis, heading, list and escape
// markers. Generated text is untrusted, so these are removed rather
// than escaped.
var markdownStripRegex = regexp.MustCompile("[`*_{}\\[\\]()#+\\-!]")

// Sanitize removes markdown control characters from generated text.
// Everything else, including non-ASCII scripts, passes through.
func Sanitize(text string) string {
	return markdownStripRegex.ReplaceAllString(text, "")
}
