package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/philippgille/chromem-go"
	"github.com/sashabaranov/go-openai"
)

const lyricsSystemPrompt = "You are a songwriter. Write song lyrics matching the requested style and theme. " +
	"Use [verse], [chorus] and [bridge] section tags. Return only the lyrics."

const promptSystemPrompt = "You rewrite short music descriptions into rich generation prompts: genre, mood, " +
	"instrumentation, tempo. Return a single comma-separated tag line."

// LLMHandler generates lyrics and prompt rewrites through an OpenAI-compatible
// endpoint (LM Studio, llama.cpp server, or a hosted key). It also provides
// the embedding function the dataset index uses for semantic search.
type LLMHandler struct {
	client         *openai.Client
	model          string
	embeddingModel string
}

// NewLLMHandler returns a handler talking to baseURL. An empty baseURL means
// the default local endpoint; apiKey may be empty for local servers.
func NewLLMHandler(baseURL, apiKey, model string) *LLMHandler {
	if baseURL == "" {
		baseURL = "http://localhost:1234/v1"
	}
	if apiKey == "" {
		apiKey = "not-needed"
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	return &LLMHandler{
		client:         openai.NewClientWithConfig(cfg),
		model:          model,
		embeddingModel: "text-embedding-3-small",
	}
}

// Model returns the configured chat model name.
func (h *LLMHandler) Model() string { return h.model }

func (h *LLMHandler) chat(ctx context.Context, system, user string) (string, error) {
	resp, err := h.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: h.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// GenerateLyrics writes lyrics for the given theme/style description.
func (h *LLMHandler) GenerateLyrics(ctx context.Context, theme string) (string, error) {
	if strings.TrimSpace(theme) == "" {
		return "", fmt.Errorf("empty theme")
	}
	return h.chat(ctx, lyricsSystemPrompt, theme)
}

// EnhancePrompt expands a short description into a detailed generation prompt.
func (h *LLMHandler) EnhancePrompt(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("empty prompt")
	}
	return h.chat(ctx, promptSystemPrompt, prompt)
}

// EmbeddingFunc adapts the endpoint's embedding API for the chromem-go
// dataset index.
func (h *LLMHandler) EmbeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		resp, err := h.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: []string{text},
			Model: openai.EmbeddingModel(h.embeddingModel),
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Data) == 0 {
			return nil, fmt.Errorf("empty embedding response")
		}
		return resp.Data[0].Embedding, nil
	}
}
