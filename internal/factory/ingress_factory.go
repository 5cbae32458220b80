package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/llm-reply-agent/internal/adapters/httpapi"
	"github.com/mikey/llm-reply-agent/internal/adapters/smtpingress"
	"github.com/mikey/llm-reply-agent/internal/config"
	"github.com/mikey/llm-reply-agent/internal/core"
	"github.com/mikey/llm-reply-agent/internal/ports"
)

// IngressFactory creates the message ingress surface based on configuration
type IngressFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewIngressFactory creates a new ingress factory
func NewIngressFactory(cfg *config.Config, logger *zap.Logger) *IngressFactory {
	return &IngressFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateIngress creates the configured ingress surface
func (f *IngressFactory) CreateIngress(
	service *core.ReplyAgentService,
	scenarios *core.ScenarioRunner,
	pending *core.PendingStore,
) (ports.Ingress, error) {
	ingressType := f.cfg.GetString("ingress.type")

	switch ingressType {
	case "http":
		return httpapi.NewServer(
			service,
			scenarios,
			pending,
			f.cfg.GetString("server.listen_address"),
			f.cfg.GetInt("journal.recent_limit"),
			f.logger,
		), nil
	case "smtp":
		return smtpingress.NewSMTPIngress(
			service,
			f.cfg.GetString("smtp.listen_address"),
			f.cfg.GetString("smtp.domain"),
			f.logger,
		), nil
	default:
		return nil, fmt.Errorf("unsupported ingress type: %s", ingressType)
	}
}
