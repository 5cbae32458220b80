package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"go.uber.org/zap"

	"github.com/mikey/llm-reply-agent/internal/adapters/llmwire"
	"github.com/mikey/llm-reply-agent/internal/core"
	"github.com/mikey/llm-reply-agent/internal/prompts"
	"github.com/mikey/llm-reply-agent/internal/utils"
)

// AnthropicClient implements the ResponseGenerator and ResponseScorer
// interfaces using the Anthropic Messages API.
type AnthropicClient struct {
	client        anthropic.Client
	modelName     string
	maxTokens     int
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	prompts       *prompts.Builder
}

// NewAnthropicClient creates a new Anthropic client
func NewAnthropicClient(
	client anthropic.Client,
	modelName string,
	maxTokens int,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
	promptBuilder *prompts.Builder,
) *AnthropicClient {
	return &AnthropicClient{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
		prompts:       promptBuilder,
	}
}

// GenerateReply produces a candidate reply for an employer message.
func (c *AnthropicClient) GenerateReply(ctx context.Context, msg *core.InboundMessage, feedback string, iteration int) (*core.Candidate, error) {
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
func (c *AnthropicClient) ScoreReply(ctx context.Context, msg *core.InboundMessage, cand *core.Candidate) (*core.ScoreReport, error) {
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

// complete runs one Messages API call and returns the first text block.
func (c *AnthropicClient) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.modelName),
		MaxTokens: int64(c.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create message with Anthropic: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}
