// Package mongouri extracts and sanitizes MongoDB connection strings
// found in free-form user text.
package mongouri

import "regexp"

var (
	uriPattern  = regexp.MustCompile(`mongodb(?:\+srv)?://[a-zA-Z0-9\-._~:/?#\[\]@!$&'()*+,;=]+`)
	credPattern = regexp.MustCompile(`^(mongodb(?:\+srv)?://[^:/@]+):([^@]+)@`)
)

// Extract returns the first MongoDB connection string found in text.
// The second return value is false when text contains none.
func Extract(text string) (string, bool) {
	m := uriPattern.FindString(text)
	if m == "" {
		return "", false
	}
	return m, true
}

// Mask replaces the password segment of a connection string with "***"
// so the URI can be echoed back to a chat without leaking credentials.
// A URI without a credentials segment is returned unchanged.
func Mask(uri string) string {
	return credPattern.ReplaceAllString(uri, "$1:***@")
}
