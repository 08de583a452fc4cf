package domain

// Identity is the authenticated caller of a write operation.
type Identity struct {
	// Subject is the stable user identifier from the token.
	Subject string

	// Email is the user's email address, if known.
	Email string

	// Name is the display name, if known.
	Name string

	// Provider names the token issuer: "session", "google" or "cli".
	Provider string
}

// Actor returns the label recorded in the activity log.
func (i Identity) Actor() string {
	switch {
	case i.Email != "":
		return i.Email
	case i.Name != "":
		return i.Name
	default:
		return i.Subject
	}
}
