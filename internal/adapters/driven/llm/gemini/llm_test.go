package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driven"
)

type fakeGenerator struct {
	resp    *genai.GenerateContentResponse
	err     error
	prompts []string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	for _, p := range parts {
		if text, ok := p.(genai.Text); ok {
			f.prompts = append(f.prompts, string(text))
		}
	}
	return f.resp, f.err
}

func textResponse(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestNewLLMService_MissingKey(t *testing.T) {
	svc, err := NewLLMService(context.Background(), Config{})
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestGenerate(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse(genai.Text("A tort is "), genai.Text("a civil wrong."))}
	svc := &LLMService{generator: gen, modelName: DefaultModel}

	got, err := svc.Generate(context.Background(), "What is a tort?", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "A tort is a civil wrong.", got)
	assert.Equal(t, []string{"What is a tort?"}, gen.prompts)
	assert.Equal(t, DefaultModel, svc.ModelName())
}

func TestGenerate_TransportError(t *testing.T) {
	svc := &LLMService{generator: &fakeGenerator{err: errors.New("connection reset")}}

	_, err := svc.Generate(context.Background(), "q", driven.GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
}

func TestGenerate_Blocked(t *testing.T) {
	svc := &LLMService{generator: &fakeGenerator{err: &genai.BlockedError{}}}

	_, err := svc.Generate(context.Background(), "q", driven.GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrGenerationService)
	assert.NotErrorIs(t, err, domain.ErrGenerationUnavailable)
}

func TestResponseText_Malformed(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil response", nil},
		{"no candidates", &genai.GenerateContentResponse{}},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}}},
		{"no parts", textResponse()},
		{"blank text", textResponse(genai.Text("  "))},
		{"non-text parts", textResponse(genai.Blob{MIMEType: "image/png"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := responseText(tt.resp)
			assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		})
	}
}

func TestClose_NilClient(t *testing.T) {
	assert.NoError(t, (&LLMService{}).Close())
	assert.NoError(t, (&LLMService{}).Ping(context.Background()))
}
