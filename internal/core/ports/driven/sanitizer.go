package driven

// Sanitizer cleans user-supplied cell values before they are written.
type Sanitizer interface {
	// Sanitize returns the value with markup removed.
	Sanitize(value string) string
}
