package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	domservice "AntVillage/internal/domain/service"
)

func TestGenerateNotConfigured(t *testing.T) {
	c := New(ProviderNone, "", "", "")
	require.False(t, c.Configured())

	_, err := c.Generate(context.Background(), "system", "user")
	require.ErrorIs(t, err, domservice.ErrNotConfigured)

	// Missing API key is also unconfigured, regardless of provider.
	c = New(ProviderOpenAI, "http://unused.invalid", "", "gpt-4o-mini")
	_, err = c.Generate(context.Background(), "system", "user")
	require.ErrorIs(t, err, domservice.ErrNotConfigured)
}

func TestGenerateOpenAI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		require.Equal(t, "system", req.Messages[0].Role)
		require.Equal(t, "user", req.Messages[1].Role)

		json.NewEncoder(w).Encode(chatResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{{Message: chatMessage{Role: "assistant", Content: "브리핑 텍스트"}}},
		})
	}))
	defer srv.Close()

	c := New(ProviderOpenAI, srv.URL, "test-key", "gpt-4o-mini")
	reply, err := c.Generate(context.Background(), "시스템 지시", "사용자 요청")
	require.NoError(t, err)
	require.Equal(t, "브리핑 텍스트", reply)
}

func TestGenerateOpenAIAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit_error"}}`))
	}))
	defer srv.Close()

	c := New(ProviderOpenAI, srv.URL, "test-key", "gpt-4o-mini")
	_, err := c.Generate(context.Background(), "s", "u")
	require.Error(t, err)
	require.Contains(t, err.Error(), "rate limited")
}

func TestGenerateAnthropic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("x-api-key"))
		require.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "시스템 지시", req.System)

		w.Write([]byte(`{"content":[{"type":"text","text":"답변 텍스트"}]}`))
	}))
	defer srv.Close()

	c := New(ProviderAnthropic, srv.URL, "test-key", "model-x")
	reply, err := c.Generate(context.Background(), "시스템 지시", "사용자 요청")
	require.NoError(t, err)
	require.Equal(t, "답변 텍스트", reply)
}

func TestGenerateAnthropicNoTextBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	c := New(ProviderAnthropic, srv.URL, "test-key", "model-x")
	_, err := c.Generate(context.Background(), "s", "u")
	require.Error(t, err)
}

func TestEmptyProviderDefaultsToNone(t *testing.T) {
	c := New("", "", "key", "model")
	require.False(t, c.Configured())
}
