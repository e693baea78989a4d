package service

import (
	"context"
	"errors"
	"fmt"

	"mailgun-admin/internal/core/domain"
	"mailgun-admin/internal/core/ports"
	"mailgun-admin/pkg/apperror"

	"github.com/rs/zerolog"
)

// MailerConfig controls outgoing mail.
type MailerConfig struct {
	DisableSending bool
	EnableLogging  bool
}

type mailerService struct {
	client ports.MailgunClient
	addr   *AddressResolver
	msgLog ports.MessageLogger
	cfg    MailerConfig
	log    zerolog.Logger
}

// NewMailerService creates the outgoing mail service. msgLog may be nil when
// logging is disabled.
func NewMailerService(
	client ports.MailgunClient,
	addr *AddressResolver,
	msgLog ports.MessageLogger,
	cfg MailerConfig,
	log zerolog.Logger,
) ports.MailerService {
	return &mailerService{
		client: client,
		addr:   addr,
		msgLog: msgLog,
		cfg:    cfg,
		log:    log.With().Str("component", "mailer").Logger(),
	}
}

// Send fills in default sender and recipient and hands msg to the provider.
// With sending disabled the message is only logged and ErrSendingDisabled
// is returned.
func (s *mailerService) Send(ctx context.Context, msg domain.OutgoingMessage) (*domain.SendResult, error) {
	if domain.EmailAddress(msg.From) == "" {
		msg.From = s.addr.DefaultFrom()
	}
	if len(msg.To) == 0 {
		if to := s.addr.DefaultTo(); to != "" {
			msg.To = []string{to}
		}
	}
	if msg.From == "" {
		return nil, apperror.Validation("no sender address could be resolved")
	}
	if len(msg.To) == 0 {
		return nil, apperror.Validation("no recipient address could be resolved")
	}
	for _, to := range msg.To {
		if domain.EmailAddress(to) == "" {
			return nil, apperror.Validation(fmt.Sprintf("invalid recipient address: %s", to))
		}
	}

	if s.cfg.EnableLogging && s.msgLog != nil {
		if err := s.msgLog.Write(ctx, msg); err != nil {
			s.log.Warn().Err(err).Msg("failed to write message log")
		}
	}

	if s.cfg.DisableSending {
		s.log.Info().
			Str("from", msg.From).
			Strs("to", msg.To).
			Str("subject", msg.Subject).
			Msg("sending disabled, message not sent")
		return nil, apperror.ErrSendingDisabled()
	}

	res, err := s.client.SendMessage(ctx, s.client.SendingDomain(), msg)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.ErrUpstream(err)
	}

	s.log.Info().Str("id", res.ID).Strs("to", msg.To).Msg("message queued")
	return res, nil
}
