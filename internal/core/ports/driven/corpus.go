package driven

import (
	"context"

	"github.com/custodia-labs/verdict/internal/core/domain"
)

// CorpusSource reads the structured legal corpus for an index build.
// Implementations validate the schema and return domain.ErrSchema on
// violations, naming the offending field.
type CorpusSource interface {
	Load(ctx context.Context) (*domain.Corpus, error)
}
