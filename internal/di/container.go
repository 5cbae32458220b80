package di

import (
	"fmt"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-reply-agent/internal/config"
	"github.com/mikey/llm-reply-agent/internal/core"
	"github.com/mikey/llm-reply-agent/internal/factory"
	"github.com/mikey/llm-reply-agent/internal/logging"
	"github.com/mikey/llm-reply-agent/internal/ports"
	"github.com/mikey/llm-reply-agent/internal/prompts"
	"github.com/mikey/llm-reply-agent/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register candidate profile and prompt builder
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) (*prompts.Profile, error) {
		path := cfg.GetString("profile.path")
		profile, err := prompts.LoadProfile(path)
		if err != nil {
			return nil, err
		}
		if profile.Name == "" {
			logger.Warn("No candidate profile loaded, replies will not be grounded", zap.String("path", path))
		}
		return profile, nil
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(prompts.NewBuilder); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewJournalFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewNotifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewIngressFactory); err != nil {
		return nil, err
	}

	// Register LLM client and split it into its two capabilities
	if err := container.Provide(func(f *factory.LLMFactory) (factory.LLMClient, error) {
		return f.CreateLLMClient()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(c factory.LLMClient) core.ResponseGenerator {
		return c
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(c factory.LLMClient) core.ResponseScorer {
		return c
	}); err != nil {
		return nil, err
	}

	// Register event journal
	if err := container.Provide(func(f *factory.JournalFactory) (core.EventJournal, error) {
		return f.CreateEventJournal()
	}); err != nil {
		return nil, err
	}

	// Register notifier
	if err := container.Provide(func(f *factory.NotifierFactory) (core.Notifier, error) {
		return f.CreateNotifier()
	}); err != nil {
		return nil, err
	}

	// Register orchestration parameters
	if err := container.Provide(func(cfg *config.Config) (core.Params, error) {
		llmTimeout, err := cfg.GetDuration("llm.timeout")
		if err != nil {
			return core.Params{}, fmt.Errorf("invalid llm.timeout: %w", err)
		}
		notifierTimeout, err := cfg.GetDuration("notifier.timeout")
		if err != nil {
			return core.Params{}, fmt.Errorf("invalid notifier.timeout: %w", err)
		}
		return core.Params{
			ApprovalThreshold: cfg.GetFloat64("engine.approval_threshold"),
			MaxIterations:     cfg.GetInt("engine.max_iterations"),
			LLMTimeout:        llmTimeout,
			NotifierTimeout:   notifierTimeout,
		}, nil
	}); err != nil {
		return nil, err
	}

	// Register risk classifier
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *core.RiskClassifier {
		return core.NewRiskClassifier(
			cfg.GetFloat64("engine.confidence_threshold"),
			cfg.GetBool("engine.recheck_generated_text"),
			logger,
		)
	}); err != nil {
		return nil, err
	}

	// Register pending store and scenario runner
	if err := container.Provide(core.NewPendingStore); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewScenarioRunner); err != nil {
		return nil, err
	}

	// Register reply agent service
	if err := container.Provide(core.NewReplyAgentService); err != nil {
		return nil, err
	}

	// Register ingress surface
	if err := container.Provide(func(
		f *factory.IngressFactory,
		service *core.ReplyAgentService,
		scenarios *core.ScenarioRunner,
		pending *core.PendingStore,
	) (ports.Ingress, error) {
		return f.CreateIngress(service, scenarios, pending)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
