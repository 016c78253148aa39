package driven

// TokenCounter measures text in model tokens.
type TokenCounter interface {
	// Count returns the number of tokens in text.
	Count(text string) int

	// Truncate returns the longest prefix of text that fits in max tokens.
	Truncate(text string, max int) string
}
