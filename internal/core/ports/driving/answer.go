package driving

import (
	"context"

	"github.com/custodia-labs/verdict/internal/core/domain"
)

// AnswerService answers a legal question from the indexed corpus.
type AnswerService interface {
	// Ask retrieves topK chunks, composes a prompt, and generates an answer.
	Ask(ctx context.Context, query string, topK int) (*domain.Answer, error)
}
