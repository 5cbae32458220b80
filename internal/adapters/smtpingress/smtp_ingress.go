// Package smtpingress accepts employer messages delivered as inbound mail and
// feeds them through the reply loop. Outbound delivery of approved replies is
// out of scope; outcomes are journaled and notified like any other run.
package smtpingress

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/mikey/llm-reply-agent/internal/core"
)

// SMTPIngress is an SMTP server front for the reply agent, implementing
// ports.Ingress.
type SMTPIngress struct {
	service    *core.ReplyAgentService
	logger     *zap.Logger
	listenAddr string
	domain     string
	server     *smtp.Server
}

// NewSMTPIngress creates a new SMTP ingress
func NewSMTPIngress(service *core.ReplyAgentService, listenAddr, domain string, logger *zap.Logger) *SMTPIngress {
	return &SMTPIngress{
		service:    service,
		logger:     logger,
		listenAddr: listenAddr,
		domain:     domain,
	}
}

// Start starts the SMTP server in the background.
func (f *SMTPIngress) Start() error {
	f.server = smtp.NewServer(&smtpBackend{ingress: f})
	f.server.Addr = f.listenAddr
	f.server.Domain = f.domain
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 1024 * 1024
	f.server.MaxRecipients = 5
	f.server.AllowInsecureAuth = true

	f.logger.Info("SMTP ingress starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				f.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP server.
func (f *SMTPIngress) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	ingress *SMTPIngress
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{ingress: b.ingress}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	ingress *SMTPIngress
	from    string
}

func (s *smtpSession) Reset() {
	s.from = ""
}

func (s *smtpSession) AuthPlain(_, _ string) error {
	return nil
}

func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.from = from
	return nil
}

func (s *smtpSession) Rcpt(_ string, _ *smtp.RcptOptions) error {
	return nil
}

// Data reads the message, extracts sender and plain-text body and runs the
// full loop synchronously. A failed run rejects the delivery so the MTA can
// retry or bounce.
func (s *smtpSession) Data(r io.Reader) error {
	parsed, err := mail.ReadMessage(bufio.NewReader(r))
	if err != nil {
		return fmt.Errorf("failed to parse message: %w", err)
	}

	sender := s.from
	if addr, err := mail.ParseAddress(parsed.Header.Get("From")); err == nil {
		sender = addr.Address
	}

	bodyBytes, err := io.ReadAll(parsed.Body)
	if err != nil {
		return fmt.Errorf("failed to read message body: %w", err)
	}
	body := strings.TrimSpace(string(bodyBytes))
	if subject := parsed.Header.Get("Subject"); subject != "" {
		body = subject + "\n\n" + body
	}

	msg := &core.InboundMessage{
		Sender:     sender,
		Body:       body,
		ReceivedAt: time.Now().UTC(),
	}

	outcome, err := s.ingress.service.Process(context.Background(), msg)
	if err != nil {
		return fmt.Errorf("failed to process message: %w", err)
	}

	s.ingress.logger.Info("Inbound mail processed",
		zap.String("sender", sender),
		zap.String("status", string(outcome.Status)),
		zap.Int("iterations", outcome.Iterations))
	return nil
}

func (s *smtpSession) Logout() error {
	return nil
}
