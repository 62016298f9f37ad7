package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/productivity/domain"
)

func TestNewWithoutKeyReturnsNil(t *testing.T) {
	assert.Nil(t, New(Config{}, nil))
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Focus on one thing."}}]}`))
	}))
	defer srv.Close()

	client := New(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1/", Model: "test-model", Timeout: 2 * time.Second}, nil)
	content, err := client.Complete(context.Background(), domain.CompletionRequest{
		System:      "be brief",
		Prompt:      "hello",
		MaxTokens:   100,
		Temperature: 0.8,
	})
	require.NoError(t, err)

	assert.Equal(t, "Focus on one thing.", content)
	assert.Equal(t, "test-model", captured.Model)
	assert.Equal(t, 100, captured.MaxTokens)
	assert.InDelta(t, 0.8, captured.Temperature, 1e-9)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "hello", captured.Messages[1].Content)
}

func TestCompleteNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	client := New(Config{APIKey: "sk-test", BaseURL: srv.URL}, nil)
	_, err := client.Complete(context.Background(), domain.CompletionRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeRemote))
	assert.Contains(t, err.Error(), "bad key")
}

func TestCompleteMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":`))
	}))
	defer srv.Close()

	client := New(Config{APIKey: "sk-test", BaseURL: srv.URL}, nil)
	_, err := client.Complete(context.Background(), domain.CompletionRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeRemote))
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := New(Config{APIKey: "sk-test", BaseURL: srv.URL}, nil)
	_, err := client.Complete(context.Background(), domain.CompletionRequest{Prompt: "hi"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeRemote))
}

func TestCompleteCancelledContext(t *testing.T) {
	client := New(Config{APIKey: "sk-test", BaseURL: "http://127.0.0.1:1"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Complete(ctx, domain.CompletionRequest{Prompt: "hi"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeRemote))
}
