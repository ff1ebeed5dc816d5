package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL, APIKey: "test-key", Model: "test-model"})
}

func completionResponse(content string) string {
	payload, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(payload)
}

func TestAnalyzeParsesJSON(t *testing.T) {
	var gotReq map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(completionResponse(`{"doc_type":"report","summary":"A report.","suggestions":["dropped"]}`)))
	})

	raw, parsed, err := client.Analyze(context.Background(), "document text")
	require.NoError(t, err)
	require.Contains(t, raw, "report")
	require.Equal(t, "report", parsed["doc_type"])

	// Suggestions volunteered here are discarded; the dedicated call owns them.
	_, hasSuggestions := parsed["suggestions"]
	require.False(t, hasSuggestions)

	require.Equal(t, "test-model", gotReq["model"])
	require.Equal(t, map[string]any{"type": "json_object"}, gotReq["response_format"])
}

func TestAnalyzeRejectsInvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionResponse("not json at all")))
	})

	_, _, err := client.Analyze(context.Background(), "document text")
	require.Error(t, err)
}

func TestSuggestParsesList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionResponse(`{"suggestions":["tighten the summary","fix the dates"]}`)))
	})

	suggestions, err := client.Suggest(context.Background(), "document text")
	require.NoError(t, err)
	require.Equal(t, []string{"tighten the summary", "fix the dates"}, suggestions)
}

func TestAnswerReturnsContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionResponse("The total is 1500 euros.")))
	})

	answer, err := client.Answer(context.Background(), "What is the total?", "[chunk 0 | pages 1-2]\ntotal 1500")
	require.NoError(t, err)
	require.Equal(t, "The total is 1500 euros.", answer)
}

func TestCompleteErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})

	_, err := client.Answer(context.Background(), "q", "ctx")
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", truncate("abc", 10))
	require.Equal(t, "ab", truncate("abcdef", 2))
	require.Equal(t, "abcdef", truncate("abcdef", 0))
	// Rune-based, never splits a multi-byte character.
	require.Equal(t, "ığü", truncate("ığüş", 3))
}
