package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/llm-reply-agent/internal/adapters/llmwire"
	"github.com/mikey/llm-reply-agent/internal/core"
	"github.com/mikey/llm-reply-agent/internal/prompts"
	"github.com/mikey/llm-reply-agent/internal/utils"
)

// OpenAIClient implements the ResponseGenerator and ResponseScorer interfaces
// using the OpenAI chat completion API.
type OpenAIClient struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	prompts       *prompts.Builder
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
	promptBuilder *prompts.Builder,
) *OpenAIClient {
	return &OpenAIClient{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
		prompts:       promptBuilder,
	}
}

// GenerateReply produces a candidate reply for an employer message.
func (c *OpenAIClient) GenerateReply(ctx context.Context, msg *core.InboundMessage, feedback string, iteration int) (*core.Candidate, error) {
	body := c.textProcessor.ProcessText(msg.Body, c.maxBodySize)
	responseText, err := c.complete(ctx, c.prompts.GenerationSystem(), c.prompts.GenerationUser(body, feedback))
	if err != nil {
		return nil, err
	}

	var gen llmwire.GenerationResponse
	if err := llmwire.Decode(responseText, &gen); err != nil {
		return nil, err
	}

	c.logger.Debug("Generated reply",
		zap.String("model", c.modelName),
		zap.Int("iteration", iteration),
		zap.Float64("confidence", gen.Confidence),
		zap.String("category", gen.Category))

	return gen.ToCandidate(), nil
}

// ScoreReply scores a candidate reply against the five quality criteria.
func (c *OpenAIClient) ScoreReply(ctx context.Context, msg *core.InboundMessage, cand *core.Candidate) (*core.ScoreReport, error) {
	body := c.textProcessor.ProcessText(msg.Body, c.maxBodySize)
	responseText, err := c.complete(ctx, c.prompts.ScoringSystem(), c.prompts.ScoringUser(body, cand.Text))
	if err != nil {
		return nil, err
	}

	var score llmwire.ScoringResponse
	if err := llmwire.Decode(responseText, &score); err != nil {
		return nil, err
	}
	return score.ToReport(), nil
}

// complete runs one chat completion and returns the raw response text.
func (c *OpenAIClient) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}
