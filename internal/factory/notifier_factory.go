package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/llm-reply-agent/internal/adapters/notify"
	"github.com/mikey/llm-reply-agent/internal/config"
	"github.com/mikey/llm-reply-agent/internal/core"
)

// NotifierFactory creates notifiers based on configuration
type NotifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewNotifierFactory creates a new notifier factory
func NewNotifierFactory(cfg *config.Config, logger *zap.Logger) *NotifierFactory {
	return &NotifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateNotifier creates a notifier based on the configuration
func (f *NotifierFactory) CreateNotifier() (core.Notifier, error) {
	notifierType := f.cfg.GetString("notifier.type")

	switch notifierType {
	case "slack":
		token := f.cfg.GetString("slack.token")
		channel := f.cfg.GetString("slack.channel")
		if token == "" || channel == "" {
			return nil, fmt.Errorf("slack notifier requires slack.token and slack.channel")
		}
		return notify.NewSlackNotifier(token, channel, f.logger), nil
	case "log":
		return notify.NewLogNotifier(f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported notifier type: %s", notifierType)
	}
}
