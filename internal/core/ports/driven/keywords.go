package driven

// KeywordSource supplies the classifier's keyword dictionary.
type KeywordSource interface {
	// Keywords returns the dictionary. Order and duplicates are irrelevant.
	Keywords() ([]string, error)
}
