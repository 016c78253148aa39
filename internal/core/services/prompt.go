package services

import (
	"strings"

	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driven"
	"github.com/custodia-labs/verdict/internal/logger"
)

// truncationMarker is appended to a chunk cut to fit the context budget.
const truncationMarker = " …"

// PromptComposer renders retrieved chunks and a question into a prompt.
// Rendering is deterministic and never truncates; FitContext does that.
type PromptComposer struct {
	prompts driven.PromptStore
}

// NewPromptComposer creates a composer. A nil store uses the built-in preamble.
func NewPromptComposer(prompts driven.PromptStore) *PromptComposer {
	return &PromptComposer{prompts: prompts}
}

// Preamble returns the instruction placed before the legal texts.
func (c *PromptComposer) Preamble() string {
	if c.prompts == nil {
		return driven.DefaultAnswerPrompt
	}
	p, err := c.prompts.Load(driven.PromptAnswer)
	if err != nil || strings.TrimSpace(p) == "" {
		logger.Debug("prompt: using built-in answer preamble: %v", err)
		return driven.DefaultAnswerPrompt
	}
	return p
}

// RenderChunk formats one chunk as "<Section|Footnote> from <Act>:\n<Content>".
func RenderChunk(chunk domain.Chunk) string {
	return chunk.Type.Label() + " from " + chunk.ActTitle + ":\n" + chunk.Content
}

// Compose renders the full prompt: preamble, the chunks separated by blank
// lines, then the question and an answer cue.
func (c *PromptComposer) Compose(query string, chunks []domain.Chunk) string {
	return compose(c.Preamble(), query, chunks)
}

func compose(preamble, query string, chunks []domain.Chunk) string {
	rendered := make([]string, len(chunks))
	for i, ch := range chunks {
		rendered[i] = RenderChunk(ch)
	}

	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(rendered, "\n\n"))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(query)
	b.WriteString("\nAnswer:")
	return b.String()
}

// FitContext keeps chunks in rank order while the composed prompt stays
// within budget tokens, stopping at the first chunk that would overflow.
// The first chunk is always kept; if it alone is too large its content is
// cut and suffixed with " …". A budget of 0 disables fitting.
func (c *PromptComposer) FitContext(
	query string,
	chunks []domain.RetrievedChunk,
	budget int,
	counter driven.TokenCounter,
) []domain.RetrievedChunk {
	if budget <= 0 || counter == nil || len(chunks) == 0 {
		return chunks
	}

	preamble := c.Preamble()
	plain := make([]domain.Chunk, 0, len(chunks))
	for i, rc := range chunks {
		candidate := append(plain, rc.Chunk)
		if counter.Count(compose(preamble, query, candidate)) > budget {
			if i == 0 {
				return []domain.RetrievedChunk{truncateFirst(preamble, query, rc, budget, counter)}
			}
			logger.Debug("prompt: context budget %d tokens keeps %d of %d chunks", budget, i, len(chunks))
			return chunks[:i]
		}
		plain = candidate
	}
	return chunks
}

// truncateFirst cuts the top-ranked chunk so the prompt fits the budget.
func truncateFirst(
	preamble, query string,
	rc domain.RetrievedChunk,
	budget int,
	counter driven.TokenCounter,
) domain.RetrievedChunk {
	empty := rc.Chunk
	empty.Content = truncationMarker
	allowed := budget - counter.Count(compose(preamble, query, []domain.Chunk{empty}))

	cut := rc
	cut.Chunk.Content = strings.TrimRightFunc(counter.Truncate(rc.Chunk.Content, allowed), isSpace) + truncationMarker
	logger.Debug("prompt: truncated %s to fit %d tokens", rc.Chunk.ID, budget)
	return cut
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
