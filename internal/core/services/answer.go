package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driven"
	"github.com/custodia-labs/verdict/internal/core/ports/driving"
	"github.com/custodia-labs/verdict/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

const defaultRetryBaseDelay = 500 * time.Millisecond

// AnswerService answers a question from the retrieved legal texts.
type AnswerService struct {
	runtime   *Runtime
	retrieval *RetrievalService
	composer  *PromptComposer
	counter   driven.TokenCounter
}

// NewAnswerService creates an answer service. A nil counter disables
// context fitting.
func NewAnswerService(
	runtime *Runtime,
	retrieval *RetrievalService,
	composer *PromptComposer,
	counter driven.TokenCounter,
) *AnswerService {
	if composer == nil {
		composer = NewPromptComposer(nil)
	}
	return &AnswerService{
		runtime:   runtime,
		retrieval: retrieval,
		composer:  composer,
		counter:   counter,
	}
}

// Ask retrieves topK chunks, composes a prompt from those that fit the
// context budget and asks the generation service.
func (s *AnswerService) Ask(ctx context.Context, query string, topK int) (*domain.Answer, error) {
	logger.Section("Answer")

	sources, err := s.retrieval.Retrieve(ctx, query, topK)
	if err != nil {
		return nil, err
	}
	llm, err := s.runtime.Generator(ctx)
	if err != nil {
		return nil, err
	}

	g := s.runtime.Settings().Generation
	query = strings.TrimSpace(query)
	fitted := s.composer.FitContext(query, sources, g.MaxContextTokens, s.counter)
	if len(fitted) < len(sources) {
		logger.Info("Context budget kept %d of %d chunks", len(fitted), len(sources))
	}

	chunks := make([]domain.Chunk, len(fitted))
	for i, rc := range fitted {
		chunks[i] = rc.Chunk
	}
	prompt := s.composer.Compose(query, chunks)

	text, err := s.generate(ctx, llm, prompt, g)
	if err != nil {
		return nil, err
	}
	return &domain.Answer{Text: strings.TrimSpace(text), Sources: fitted}, nil
}

// generate calls the model under the configured timeout. Only transient
// failures are retried, and only when MaxRetries is positive.
func (s *AnswerService) generate(
	ctx context.Context,
	llm driven.LLMService,
	prompt string,
	g domain.GenerationSettings,
) (string, error) {
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	base := g.RetryBaseDelay
	if base <= 0 {
		base = defaultRetryBaseDelay
	}
	backoff := retry.NewExponential(base)
	if g.Timeout > 0 {
		backoff = retry.WithMaxDuration(g.Timeout, backoff)
	}
	backoff = retry.WithMaxRetries(uint64(max(g.MaxRetries, 0)), backoff)

	opts := driven.GenerateOptions{MaxTokens: g.MaxTokens, Temperature: g.Temperature}
	attempt := 0
	var text string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		out, err := llm.Generate(ctx, prompt, opts)
		if err != nil {
			if errors.Is(err, domain.ErrGenerationUnavailable) && ctx.Err() == nil {
				logger.Warn("generation attempt %d failed: %v", attempt, err)
				return retry.RetryableError(err)
			}
			return err
		}
		text = out
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrGenerationService) {
			return "", fmt.Errorf("%w: no answer within %s: %w", domain.ErrGenerationUnavailable, g.Timeout, err)
		}
		return "", err
	}
	return text, nil
}
