package utils

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient serves both chat generation and embeddings.
type OpenAIClient struct {
	client         *openai.Client
	chatModel      string
	embeddingModel string
}

func NewOpenAIClient(apiKey, chatModel, embeddingModel, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}
	if embeddingModel == "" {
		embeddingModel = string(openai.SmallEmbedding3)
	}
	return &OpenAIClient{
		client:         openai.NewClientWithConfig(cfg),
		chatModel:      chatModel,
		embeddingModel: embeddingModel,
	}
}

func (c *OpenAIClient) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxOutputTokens,
	}
	if opts.JSONOutput {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: openai chat: %v", ErrExternalService, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", ErrExternalService)
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("%w: openai embeddings: %v", ErrExternalService, err)
	}
	if len(resp.Data) == 0 {
		return pgvector.Vector{}, fmt.Errorf("%w: openai returned no embeddings", ErrExternalService)
	}
	return pgvector.NewVector(resp.Data[0].Embedding), nil
}
