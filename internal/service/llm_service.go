package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"incident-intelligence-backend/config"
)

// LLMService is the language-model oracle consulted by the diagnosis loop.
// Given the conversation so far and the tool schemas, it returns the model's
// next message: either free text or one-or-more tool-call requests.
type LLMService interface {
	ChatWithTools(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error)
}

type openAILLMService struct {
	client      *openai.Client
	model       string
	temperature float32
}

func NewOpenAILLMService(cfg *config.Config) LLMService {
	return &openAILLMService{
		client:      openai.NewClient(cfg.OpenAI.APIKey),
		model:       cfg.OpenAI.Model,
		temperature: float32(cfg.OpenAI.Temperature),
	}
}

func (s *openAILLMService) ChatWithTools(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    messages,
		Tools:       tools,
		Temperature: s.temperature,
	})
	if err != nil {
		log.Error().Err(err).Str("model", s.model).Msg("Chat completion request failed")
		return openai.ChatCompletionMessage{}, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		log.Error().Str("model", s.model).Msg("Chat completion returned no choices")
		return openai.ChatCompletionMessage{}, fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message, nil
}
