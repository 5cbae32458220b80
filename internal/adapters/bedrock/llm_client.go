package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/mikey/llm-reply-agent/internal/adapters/llmwire"
	"github.com/mikey/llm-reply-agent/internal/core"
	"github.com/mikey/llm-reply-agent/internal/prompts"
	"github.com/mikey/llm-reply-agent/internal/utils"
)

// BedrockClient implements the ResponseGenerator and ResponseScorer
// interfaces using Amazon Bedrock.
type BedrockClient struct {
	client        *bedrockruntime.Client
	modelID       string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	prompts       *prompts.Builder
}

// NewBedrockClient creates a new Bedrock client
func NewBedrockClient(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
	promptBuilder *prompts.Builder,
) *BedrockClient {
	return &BedrockClient{
		client:        client,
		modelID:       modelID,
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
func (c *BedrockClient) GenerateReply(ctx context.Context, msg *core.InboundMessage, feedback string, iteration int) (*core.Candidate, error) {
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
		zap.String("model", c.modelID),
		zap.Int("iteration", iteration),
		zap.Float64("confidence", gen.Confidence),
		zap.String("category", gen.Category))

	return gen.ToCandidate(), nil
}

// ScoreReply scores a candidate reply against the five quality criteria.
func (c *BedrockClient) ScoreReply(ctx context.Context, msg *core.InboundMessage, cand *core.Candidate) (*core.ScoreReport, error) {
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

// complete invokes the configured model with a payload shaped for its family.
func (c *BedrockClient) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var payload []byte
	var err error

	if c.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\n%s\n\nAssistant:", systemPrompt, userPrompt),
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
			"top_p":                c.topP,
		})
	} else if c.isAmazonTitanModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": fmt.Sprintf("%s\n\n%s", systemPrompt, userPrompt),
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
				"topP":          c.topP,
			},
		})
	} else {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      fmt.Sprintf("%s\n\n%s", systemPrompt, userPrompt),
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	if c.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(resp.Body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	}
	if c.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(resp.Body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	}

	var genericResp struct {
		Output   string `json:"output"`
		Text     string `json:"text"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(resp.Body, &genericResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
	}
	switch {
	case genericResp.Output != "":
		return genericResp.Output, nil
	case genericResp.Text != "":
		return genericResp.Text, nil
	case genericResp.Response != "":
		return genericResp.Response, nil
	default:
		return string(resp.Body), nil
	}
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (c *BedrockClient) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (c *BedrockClient) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}
