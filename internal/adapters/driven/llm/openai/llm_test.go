package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driven"
)

func TestNewLLMService_MissingKey(t *testing.T) {
	_, err := NewLLMService(LLMConfig{})
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestGenerate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "Question: q\nAnswer:", req.Messages[0].Content)
		assert.Equal(t, 128, req.MaxTokens)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"It depends."}}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	got, err := svc.Generate(context.Background(), "Question: q\nAnswer:", driven.GenerateOptions{MaxTokens: 128})
	require.NoError(t, err)
	assert.Equal(t, "It depends.", got)
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
}

func TestGenerate_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		notErr  error
	}{
		{"server error", http.StatusInternalServerError, `oops`, domain.ErrGenerationUnavailable, nil},
		{"throttled", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, domain.ErrGenerationUnavailable, nil},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"bad"}}`, domain.ErrGenerationService, domain.ErrGenerationUnavailable},
		{"not json", http.StatusOK, `<html>`, domain.ErrMalformedResponse, nil},
		{"no choices", http.StatusOK, `{"choices":[]}`, domain.ErrMalformedResponse, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = svc.Generate(context.Background(), "p", driven.GenerateOptions{})
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.notErr != nil {
				assert.NotErrorIs(t, err, tt.notErr)
			}
		})
	}
}

func TestGenerate_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: url})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "p", driven.GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
}
