package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/mikey/llm-reply-agent/internal/adapters/llmwire"
	"github.com/mikey/llm-reply-agent/internal/core"
	"github.com/mikey/llm-reply-agent/internal/prompts"
	"github.com/mikey/llm-reply-agent/internal/utils"
)

// GeminiClient implements the ResponseGenerator and ResponseScorer interfaces
// using Google Gemini.
type GeminiClient struct {
	client        *genai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	prompts       *prompts.Builder
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
	promptBuilder *prompts.Builder,
) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
		prompts:       promptBuilder,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// GenerateReply produces a candidate reply for an employer message.
func (c *GeminiClient) GenerateReply(ctx context.Context, msg *core.InboundMessage, feedback string, iteration int) (*core.Candidate, error) {
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
func (c *GeminiClient) ScoreReply(ctx context.Context, msg *core.InboundMessage, cand *core.Candidate) (*core.ScoreReport, error) {
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

// complete runs one generation call with the given system instruction.
func (c *GeminiClient) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(c.temperature)
	model.SetTopP(c.topP)
	model.SetMaxOutputTokens(int32(c.maxTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}
