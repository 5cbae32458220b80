package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/llm-reply-agent/internal/adapters/anthropic"
	"github.com/mikey/llm-reply-agent/internal/adapters/bedrock"
	"github.com/mikey/llm-reply-agent/internal/adapters/gemini"
	"github.com/mikey/llm-reply-agent/internal/adapters/openai"
	"github.com/mikey/llm-reply-agent/internal/config"
	"github.com/mikey/llm-reply-agent/internal/core"
	"github.com/mikey/llm-reply-agent/internal/prompts"
	"github.com/mikey/llm-reply-agent/internal/utils"
)

// LLMClient combines the generation and scoring capabilities one provider
// serves with a single underlying client.
type LLMClient interface {
	core.ResponseGenerator
	core.ResponseScorer
}

// LLMFactory creates LLM clients
type LLMFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	prompts       *prompts.Builder
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor, promptBuilder *prompts.Builder) *LLMFactory {
	return &LLMFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
		prompts:       promptBuilder,
	}
}

// CreateLLMClient creates a new LLM client based on the configuration
func (f *LLMFactory) CreateLLMClient() (LLMClient, error) {
	llmConfig := f.cfg.GetLLM()

	switch llmConfig.Provider {
	case "openai":
		factory := openai.NewFactory(f.cfg, f.logger, f.textProcessor, f.prompts)
		return factory.CreateClient()
	case "gemini":
		factory := gemini.NewFactory(f.cfg, f.logger, f.textProcessor, f.prompts)
		return factory.CreateClient()
	case "bedrock":
		factory := bedrock.NewFactory(f.cfg, f.logger, f.textProcessor, f.prompts)
		return factory.CreateClient()
	case "anthropic":
		factory := anthropic.NewFactory(f.cfg, f.logger, f.textProcessor, f.prompts)
		return factory.CreateClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}
