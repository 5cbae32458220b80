package notify

import (
	"context"
	"fmt"
	"sort"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/mikey/llm-reply-agent/internal/core"
)

// Headlines per event kind. The payload fields follow as an attachment.
var slackHeadlines = map[core.EventKind]string{
	core.EventMessageReceived:   ":envelope: New employer message received",
	core.EventHumanIntervention: ":rotating_light: Human intervention needed",
	core.EventResponseApproved:  ":white_check_mark: Response approved and ready to send",
	core.EventEvaluationFailed:  ":x: Evaluation failed after revision budget exhausted",
}

// SlackNotifier delivers events to a Slack channel.
type SlackNotifier struct {
	api     *slack.Client
	channel string
	logger  *zap.Logger
}

// NewSlackNotifier creates a new Slack notifier
func NewSlackNotifier(token, channel string, logger *zap.Logger) *SlackNotifier {
	return &SlackNotifier{
		api:     slack.New(token),
		channel: channel,
		logger:  logger,
	}
}

// Notify posts one event to the configured channel. Errors are returned to
// the caller, which logs and swallows them.
func (n *SlackNotifier) Notify(ctx context.Context, kind core.EventKind, payload map[string]any) error {
	headline, ok := slackHeadlines[kind]
	if !ok {
		headline = string(kind)
	}

	fields := make([]slack.AttachmentField, 0, len(payload))
	for _, key := range sortedKeys(payload) {
		fields = append(fields, slack.AttachmentField{
			Title: key,
			Value: fmt.Sprintf("%v", payload[key]),
			Short: len(fmt.Sprintf("%v", payload[key])) < 40,
		})
	}

	_, _, err := n.api.PostMessageContext(ctx, n.channel,
		slack.MsgOptionText(headline, false),
		slack.MsgOptionAttachments(slack.Attachment{Fields: fields}),
	)
	if err != nil {
		return fmt.Errorf("failed to post Slack message: %w", err)
	}

	n.logger.Debug("Slack notification sent",
		zap.String("kind", string(kind)),
		zap.String("channel", n.channel))
	return nil
}

// sortedKeys keeps attachment field order stable across deliveries.
func sortedKeys(payload map[string]any) []string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
