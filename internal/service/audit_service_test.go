package service

import (
	"context"
	"testing"
	"time"

	"mailgun-admin/internal/core/domain"
	"mailgun-admin/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuditService_Log_PersistsToRepo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAuditRepository(ctrl)
	svc := NewAuditService(mockRepo, newTestLogger())

	done := make(chan struct{})
	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, log *domain.AuditLog) error {
			if log.Action != domain.AuditActionInstallWebhook {
				t.Errorf("expected INSTALL_WEBHOOK, got %s", log.Action)
			}
			close(done)
			return nil
		},
	)

	svc.Log(context.Background(), &domain.AuditLog{
		ID:           uuid.New(),
		Actor:        "admin@example.org",
		Action:       domain.AuditActionInstallWebhook,
		ResourceType: "webhook",
		ResourceID:   "mg.example.org",
		IPAddress:    "127.0.0.1",
		CreatedAt:    time.Now(),
	})

	select {
	case <-done:
		// OK
	case <-time.After(2 * time.Second):
		t.Fatal("audit log not persisted in time")
	}
}

func TestAuditService_Log_NilRepo(t *testing.T) {
	svc := NewAuditService(nil, newTestLogger())

	// Should not panic
	svc.Log(context.Background(), &domain.AuditLog{
		ID:           uuid.New(),
		Actor:        "admin",
		Action:       domain.AuditActionClearCache,
		ResourceType: "cache",
		IPAddress:    "127.0.0.1",
		CreatedAt:    time.Now(),
	})

	time.Sleep(50 * time.Millisecond) // let goroutine run
}

func TestAuditService_Recent(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockAuditRepository(ctrl)
	svc := NewAuditService(mockRepo, newTestLogger())

	entries := []domain.AuditLog{{ID: uuid.New(), Action: domain.AuditActionInstallDomain}}
	mockRepo.EXPECT().ListRecent(gomock.Any(), 20).Return(entries, nil)
	mockRepo.EXPECT().ListRecent(gomock.Any(), 50).Return(nil, nil)

	got, err := svc.Recent(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	_, err = svc.Recent(context.Background(), 0)
	require.NoError(t, err)
}

func TestAuditService_Recent_NilRepo(t *testing.T) {
	svc := NewAuditService(nil, newTestLogger())

	got, err := svc.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
