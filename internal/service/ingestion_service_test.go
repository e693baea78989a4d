package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mailgun-admin/internal/core/domain"
	"mailgun-admin/internal/core/ports"
	"mailgun-admin/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSigningKey = "signing-key"

func signedBody(t *testing.T, event, token string) []byte {
	t.Helper()
	sig := NewHMACSignatureService()
	signature := sig.Sign(testSigningKey, sig.BuildCanonicalString("1529006854", token))
	return []byte(`{"signature":{"timestamp":"1529006854","token":"` + token + `","signature":"` + signature + `"},` +
		`"event-data":{"event":"` + event + `","recipient":"a@example.org"}}`)
}

func TestIngestion_EmptyBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	auditor := mocks.NewMockPayloadAuditor(ctrl)
	svc := NewIngestionService(NewDispatcher(newTestLogger()), NewHMACSignatureService(), nil, IngestionConfig{}, newTestLogger(), auditor)

	res := svc.Ingest(context.Background(), ports.IncomingWebhook{Body: []byte("  ")})
	assert.NotEmpty(t, res.BatchID)
	assert.Zero(t, res.Processed)
}

func TestIngestion_DispatchesAndAudits(t *testing.T) {
	ctrl := gomock.NewController(t)
	fileAuditor := mocks.NewMockPayloadAuditor(ctrl)
	dbAuditor := mocks.NewMockPayloadAuditor(ctrl)

	d := NewDispatcher(newTestLogger())
	var seen []domain.EventType
	d.OnAny(func(_ context.Context, ev domain.WebhookEvent) error {
		seen = append(seen, ev.Type)
		return nil
	})

	var batchID string
	fileAuditor.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *domain.WebhookPayloadRecord) error {
			batchID = rec.BatchID
			assert.Equal(t, "203.0.113.9", rec.RemoteAddr)
			assert.Equal(t, "application/json", rec.Headers["Content-Type"])
			assert.False(t, rec.ReceivedAt.IsZero())
			return nil
		})
	dbAuditor.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	svc := NewIngestionService(d, NewHMACSignatureService(), nil, IngestionConfig{}, newTestLogger(), fileAuditor, dbAuditor)
	res := svc.Ingest(context.Background(), ports.IncomingWebhook{
		Body:       []byte(`[{"event":"opened"},{"event":"delivered"},{"event":"accepted"}]`),
		Headers:    map[string]string{"Content-Type": "application/json"},
		RemoteAddr: "203.0.113.9",
	})

	assert.Equal(t, batchID, res.BatchID)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 1, res.Skipped)
	assert.NoError(t, res.Err)
	assert.Equal(t, []domain.EventType{domain.EventOpened, domain.EventDelivered}, seen)
}

func TestIngestion_InvalidJSONDispatchesNothing(t *testing.T) {
	d := NewDispatcher(newTestLogger())
	called := false
	d.OnAny(func(context.Context, domain.WebhookEvent) error { called = true; return nil })

	svc := NewIngestionService(d, NewHMACSignatureService(), nil, IngestionConfig{}, newTestLogger())
	res := svc.Ingest(context.Background(), ports.IncomingWebhook{Body: []byte("{oops")})

	assert.Zero(t, res.Processed)
	assert.False(t, called)
}

func TestIngestion_HandlerErrorIsReported(t *testing.T) {
	d := NewDispatcher(newTestLogger())
	d.OnGeneration(func(context.Context, domain.WebhookEvent) error { return errors.New("handler failed") })

	svc := NewIngestionService(d, NewHMACSignatureService(), nil, IngestionConfig{}, newTestLogger())
	res := svc.Ingest(context.Background(), ports.IncomingWebhook{Body: []byte(`{"event":"delivered"}`)})

	assert.Equal(t, 1, res.Processed)
	assert.Error(t, res.Err)
}

func TestIngestion_SignatureVerification(t *testing.T) {
	ctrl := gomock.NewController(t)
	nonces := mocks.NewMockNonceStore(ctrl)
	cfg := IngestionConfig{VerifySignature: true, SigningKey: testSigningKey, TokenTTL: time.Hour}

	d := NewDispatcher(newTestLogger())
	processed := 0
	d.OnAny(func(context.Context, domain.WebhookEvent) error { processed++; return nil })
	svc := NewIngestionService(d, NewHMACSignatureService(), nonces, cfg, newTestLogger())
	ctx := context.Background()

	nonces.EXPECT().CheckAndSet(gomock.Any(), NonceScope, "tok-1", time.Hour).Return(true, nil)
	res := svc.Ingest(ctx, ports.IncomingWebhook{Body: signedBody(t, "opened", "tok-1")})
	assert.Equal(t, 1, res.Processed)
	assert.Zero(t, res.Rejected)

	nonces.EXPECT().CheckAndSet(gomock.Any(), NonceScope, "tok-1", time.Hour).Return(false, nil)
	res = svc.Ingest(ctx, ports.IncomingWebhook{Body: signedBody(t, "opened", "tok-1")})
	assert.Zero(t, res.Processed)
	assert.Equal(t, 1, res.Rejected, "replayed token")

	res = svc.Ingest(ctx, ports.IncomingWebhook{Body: []byte(`{"event":"opened"}`)})
	assert.Equal(t, 1, res.Rejected, "unsigned event")

	tampered := []byte(`{"signature":{"timestamp":"1529006854","token":"tok-2","signature":"deadbeef"},"event-data":{"event":"opened"}}`)
	res = svc.Ingest(ctx, ports.IncomingWebhook{Body: tampered})
	assert.Equal(t, 1, res.Rejected, "bad signature")

	assert.Equal(t, 1, processed)
}

func TestIngestion_NonceStoreErrorAcceptsEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	nonces := mocks.NewMockNonceStore(ctrl)
	cfg := IngestionConfig{VerifySignature: true, SigningKey: testSigningKey}
	svc := NewIngestionService(NewDispatcher(newTestLogger()), NewHMACSignatureService(), nonces, cfg, newTestLogger())

	nonces.EXPECT().CheckAndSet(gomock.Any(), NonceScope, "tok-9", 24*time.Hour).Return(false, errors.New("redis down"))
	res := svc.Ingest(context.Background(), ports.IncomingWebhook{Body: signedBody(t, "clicked", "tok-9")})

	require.Zero(t, res.Rejected)
	assert.Equal(t, 1, res.Processed)
}

func TestIngestion_MissingSigningKeyRejects(t *testing.T) {
	cfg := IngestionConfig{VerifySignature: true}
	svc := NewIngestionService(NewDispatcher(newTestLogger()), NewHMACSignatureService(), nil, cfg, newTestLogger())

	res := svc.Ingest(context.Background(), ports.IncomingWebhook{Body: signedBody(t, "opened", "tok-3")})
	assert.Equal(t, 1, res.Rejected)
}

func TestRepositoryAuditor(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockWebhookPayloadRepository(ctrl)
	rec := &domain.WebhookPayloadRecord{BatchID: "b-1"}
	repo.EXPECT().Create(gomock.Any(), rec).Return(nil)

	assert.NoError(t, RepositoryAuditor{Repo: repo}.Record(context.Background(), rec))
}
