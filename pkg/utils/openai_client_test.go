package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClientGenerateText(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"{\"days\":[]}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("key", "gpt-4o-mini", "", srv.URL+"/v1")
	out, err := client.GenerateText(context.Background(), "plan a trip", GenerateOptions{
		MaxOutputTokens: 512,
		Temperature:     0.3,
		JSONOutput:      true,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"days":[]}`, out)
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
	format, ok := gotBody["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_object", format["type"])
}

func TestOpenAIClientGenerateTextFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream down","type":"server_error"}}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("key", "", "", srv.URL+"/v1")
	_, err := client.GenerateText(context.Background(), "plan", GenerateOptions{})

	assert.ErrorIs(t, err, ErrExternalService)
}

func TestOpenAIClientGetEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","model":"text-embedding-3-small",
			"data":[{"object":"embedding","index":0,"embedding":[0.25,0.5,0.75]}]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("key", "", "", srv.URL+"/v1")
	vec, err := client.GetEmbedding(context.Background(), "da lat coffee")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, 0.5, 0.75}, vec.Slice())
}

func TestTextToVectorIsNormalizedAndStable(t *testing.T) {
	a := TextToVector("Da Lat flower gardens")
	b := TextToVector("da lat   FLOWER gardens")

	assert.Len(t, a.Slice(), EmbeddingDimensions)
	assert.Equal(t, a.Slice(), b.Slice())

	var sum float64
	for _, v := range a.Slice() {
		sum += float64(v * v)
	}
	assert.InDelta(t, 1.0, sum, 1e-3)
}
