package anthropic

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/mikey/llm-reply-agent/internal/config"
	"github.com/mikey/llm-reply-agent/internal/prompts"
	"github.com/mikey/llm-reply-agent/internal/utils"
)

// Factory creates new instances of AnthropicClient
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	prompts       *prompts.Builder
}

// NewFactory creates a new factory for AnthropicClient instances
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor, promptBuilder *prompts.Builder) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
		prompts:       promptBuilder,
	}
}

// CreateClient creates a new AnthropicClient
func (f *Factory) CreateClient() (*AnthropicClient, error) {
	anthropicCfg := f.cfg.GetAnthropic()
	client := anthropic.NewClient(option.WithAPIKey(anthropicCfg.APIKey))

	return NewAnthropicClient(
		client,
		anthropicCfg.ModelName,
		anthropicCfg.MaxTokens,
		anthropicCfg.MaxBodySize,
		f.logger,
		f.textProcessor,
		f.prompts,
	), nil
}
