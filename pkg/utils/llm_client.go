package utils

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions matches the vector(1536) column of poi_embeddings.
const EmbeddingDimensions = 1536

type GenerateOptions struct {
	MaxOutputTokens int
	Temperature     float32
	JSONOutput      bool
}

// TextGenerator is a single blocking call to a generative-text endpoint.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

type EmbeddingClientInterface interface {
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
}

// NewTextGenerator builds the generator for the configured provider.
func NewTextGenerator(provider, apiKey, model, baseURL string) (TextGenerator, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIClient(apiKey, model, "", baseURL), nil
	case "gemini":
		client, err := NewGeminiClient(apiKey, model)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s. Use 'openai' or 'gemini'", provider)
	}
}

// NewEmbeddingClient builds the embedding client for the configured provider.
func NewEmbeddingClient(provider, apiKey, model, baseURL string) (EmbeddingClientInterface, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIClient(apiKey, "", model, baseURL), nil
	case "gemini":
		return HashEmbeddingClient{}, nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s. Use 'openai' or 'gemini'", provider)
	}
}

// HashEmbeddingClient derives a normalized vector from word hashes. It is used when the
// selected provider has no embedding endpoint on the free tier.
type HashEmbeddingClient struct{}

func (HashEmbeddingClient) GetEmbedding(_ context.Context, text string) (pgvector.Vector, error) {
	return TextToVector(text), nil
}

func TextToVector(text string) pgvector.Vector {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	vector := make([]float32, EmbeddingDimensions)

	for _, word := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		hash := h.Sum32()
		for i := 0; i < EmbeddingDimensions; i++ {
			vector[i] += float32(math.Sin(float64(hash+uint32(i))) * 0.1)
		}
	}

	var magnitude float64
	for _, v := range vector {
		magnitude += float64(v * v)
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude > 0 {
		for i := range vector {
			vector[i] = float32(float64(vector[i]) / magnitude)
		}
	}

	return pgvector.NewVector(vector)
}
