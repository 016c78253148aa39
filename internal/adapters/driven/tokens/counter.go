// Package tokens counts prompt tokens with pkoukk/tiktoken-go. When the
// encoding cannot be loaded it estimates one token per four characters.
package tokens

import (
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/verdict/internal/core/ports/driven"
	"github.com/custodia-labs/verdict/internal/logger"
)

// Ensure Counter implements the interface.
var _ driven.TokenCounter = (*Counter)(nil)

// DefaultEncoding is the BPE encoding used for budget accounting.
const DefaultEncoding = "cl100k_base"

// runesPerToken is the estimate used without an encoding.
const runesPerToken = 4

// Counter implements driven.TokenCounter.
type Counter struct {
	encodingName string
	tke          *tiktoken.Tiktoken
}

// New loads the named encoding, falling back to the rune estimate when it
// is unavailable (for example offline, with no cached BPE file).
func New(encoding string) *Counter {
	if encoding == "" {
		encoding = DefaultEncoding
	}

	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		logger.Warn("tiktoken: encoding %s unavailable, estimating tokens: %v", encoding, err)
		return NewEstimator()
	}
	return &Counter{encodingName: encoding, tke: tke}
}

// NewEstimator returns a counter that only uses the ceil(runes/4) estimate.
func NewEstimator() *Counter {
	return &Counter{}
}

// Encoding returns the encoding name, or "" for the estimator.
func (c *Counter) Encoding() string {
	return c.encodingName
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c.tke == nil {
		return (utf8.RuneCountInString(text) + runesPerToken - 1) / runesPerToken
	}
	return len(c.tke.Encode(text, nil, nil))
}

// Truncate returns the longest prefix of text that fits in max tokens.
func (c *Counter) Truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if c.tke == nil {
		runes := []rune(text)
		if limit := max * runesPerToken; len(runes) > limit {
			return string(runes[:limit])
		}
		return text
	}

	tokens := c.tke.Encode(text, nil, nil)
	if len(tokens) <= max {
		return text
	}
	// A token boundary can split a multi-byte rune; drop the partial tail.
	prefix := c.tke.Decode(tokens[:max])
	for len(prefix) > 0 && !utf8.ValidString(prefix) {
		prefix = prefix[:len(prefix)-1]
	}
	return prefix
}
