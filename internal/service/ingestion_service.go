package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"mailgun-admin/internal/core/domain"
	"mailgun-admin/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// NonceScope namespaces callback tokens in the nonce store.
const NonceScope = "mailgun"

// IngestionConfig controls callback signature checks.
type IngestionConfig struct {
	VerifySignature bool
	SigningKey      string
	TokenTTL        time.Duration
}

type ingestionService struct {
	dispatcher *Dispatcher
	sigSvc     ports.SignatureService
	nonces     ports.NonceStore
	auditors   []ports.PayloadAuditor
	cfg        IngestionConfig
	now        func() time.Time
	log        zerolog.Logger
}

// NewIngestionService creates the inbound webhook pipeline. nonces may be nil,
// in which case tokens are not checked for replay.
func NewIngestionService(
	dispatcher *Dispatcher,
	sigSvc ports.SignatureService,
	nonces ports.NonceStore,
	cfg IngestionConfig,
	log zerolog.Logger,
	auditors ...ports.PayloadAuditor,
) ports.IngestionService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &ingestionService{
		dispatcher: dispatcher,
		sigSvc:     sigSvc,
		nonces:     nonces,
		auditors:   auditors,
		cfg:        cfg,
		now:        time.Now,
		log:        log.With().Str("component", "ingestion").Logger(),
	}
}

// Ingest audits, parses, verifies and dispatches one callback. It never
// fails; the result only reports what happened.
func (s *ingestionService) Ingest(ctx context.Context, req ports.IncomingWebhook) (res domain.BatchResult) {
	res.BatchID = uuid.NewString()
	if len(bytes.TrimSpace(req.Body)) == 0 {
		return res
	}

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("ingestion panic: %v", r)
			s.log.Error().Str("batch_id", res.BatchID).Interface("panic", r).Msg("webhook ingestion panicked")
		}
	}()

	s.audit(ctx, res.BatchID, req)

	events := ParseWebhookEvents(req.Body)
	if s.cfg.VerifySignature {
		accepted := events[:0]
		for _, ev := range events {
			if s.verify(ctx, ev) {
				accepted = append(accepted, ev)
				continue
			}
			res.Rejected++
		}
		events = accepted
	}

	dr := s.dispatcher.Dispatch(ctx, events)
	res.Processed = dr.Processed
	res.Skipped = dr.Skipped
	res.Err = dr.Err

	s.log.Info().
		Str("batch_id", res.BatchID).
		Int("processed", res.Processed).
		Int("skipped", res.Skipped).
		Int("rejected", res.Rejected).
		Msg("webhook batch handled")
	return res
}

func (s *ingestionService) audit(ctx context.Context, batchID string, req ports.IncomingWebhook) {
	if len(s.auditors) == 0 {
		return
	}
	rec := &domain.WebhookPayloadRecord{
		BatchID:    batchID,
		Headers:    req.Headers,
		Body:       req.Body,
		RemoteAddr: req.RemoteAddr,
		ReceivedAt: s.now().UTC(),
	}
	for _, a := range s.auditors {
		if err := a.Record(ctx, rec); err != nil {
			s.log.Debug().Err(err).Str("batch_id", batchID).Msg("webhook audit skipped")
		}
	}
}

// verify checks the callback signature and rejects replayed tokens. A nonce
// store error lets the event through.
func (s *ingestionService) verify(ctx context.Context, ev domain.WebhookEvent) bool {
	sig := ev.Signature
	if sig == nil || sig.Token == "" || sig.Timestamp == "" || sig.Signature == "" {
		s.log.Warn().Str("event", string(ev.Type)).Msg("unsigned webhook event rejected")
		return false
	}
	if s.cfg.SigningKey == "" {
		s.log.Warn().Msg("no signing key configured, webhook event rejected")
		return false
	}
	payload := s.sigSvc.BuildCanonicalString(sig.Timestamp, sig.Token)
	if !s.sigSvc.Verify(s.cfg.SigningKey, payload, sig.Signature) {
		s.log.Warn().Str("event", string(ev.Type)).Msg("webhook signature mismatch")
		return false
	}
	if s.nonces == nil {
		return true
	}
	fresh, err := s.nonces.CheckAndSet(ctx, NonceScope, sig.Token, s.cfg.TokenTTL)
	if err != nil {
		s.log.Warn().Err(err).Msg("nonce check failed")
		return true
	}
	if !fresh {
		s.log.Warn().Str("token", sig.Token).Msg("replayed webhook token rejected")
	}
	return fresh
}

// RepositoryAuditor adapts a payload repository to ports.PayloadAuditor.
type RepositoryAuditor struct {
	Repo ports.WebhookPayloadRepository
}

// Record stores rec through the repository.
func (a RepositoryAuditor) Record(ctx context.Context, rec *domain.WebhookPayloadRecord) error {
	return a.Repo.Create(ctx, rec)
}
