package driving

// Classifier decides whether a lead name denotes an educational institution.
type Classifier interface {
	// IsSchool returns true for school-like names. It never fails; an empty
	// name is not a school.
	IsSchool(name string) bool
}
