package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/promptlens/promptlens/internal/describe"
)

var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47}

func newTestGemini(t *testing.T, baseURL string) *Gemini {
	t.Helper()
	g, err := newWithConfig(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	}, "")
	require.NoError(t, err)
	return g
}

func candidateResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
}

func TestDescribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(candidateResponse("  A weathered red barn under a stormy sky\n")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	text, err := newTestGemini(t, server.URL).Describe(context.Background(), pngBytes, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "A weathered red barn under a stormy sky", text)
}

func TestDescribeEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	_, err := newTestGemini(t, server.URL).Describe(context.Background(), pngBytes, "image/png")

	var genErr *describe.Error
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, describe.KindEmptyResponse, genErr.Kind)
	assert.Equal(t, "Empty response from Gemini API", genErr.Message)
}

func TestDescribeWhitespaceOnlyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(candidateResponse("   \n  ")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	_, err := newTestGemini(t, server.URL).Describe(context.Background(), pngBytes, "image/png")

	var genErr *describe.Error
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, describe.KindEmptyResponse, genErr.Kind)
}

func TestDescribeServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	_, err := newTestGemini(t, server.URL).Describe(context.Background(), pngBytes, "image/png")

	var genErr *describe.Error
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, describe.KindServiceError, genErr.Kind)
	assert.Contains(t, genErr.Message, "Gemini API Error: ")
	assert.Contains(t, genErr.Message, "quota exceeded")
}

func TestClassifyAPIError(t *testing.T) {
	apiErr := genai.APIError{Code: 429, Message: "quota exceeded", Status: "RESOURCE_EXHAUSTED"}

	genErr := classify(apiErr)

	assert.Equal(t, describe.KindServiceError, genErr.Kind)
	assert.Equal(t, "Gemini API Error: quota exceeded", genErr.Message)
}

func TestClassifyPlainError(t *testing.T) {
	genErr := classify(errors.New("connection reset"))

	assert.Equal(t, describe.KindServiceError, genErr.Kind)
	assert.Contains(t, genErr.Message, "connection reset")
}
