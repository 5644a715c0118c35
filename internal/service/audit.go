package service

import (
	"context"
	"time"

	"github.com/Dan9191/installment-service/internal/models"
	"github.com/Dan9191/installment-service/internal/utils"
	"github.com/google/uuid"
)

// audit writes a signed log entry. Failures are logged and never fail the caller.
func (s *Service) audit(ctx context.Context, action, description string, meta map[string]any) {
	entry := &models.AuditLog{
		ID:          uuid.NewString(),
		Action:      action,
		Description: description,
		Meta:        meta,
		Actor:       ActorFromContext(ctx),
		// Postgres keeps microseconds; sign what will be read back.
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	if err := utils.SignAuditLog(entry, s.config.HMACSecret); err != nil {
		s.log.Warnf("Failed to sign audit log %s: %v", action, err)
		return
	}
	if err := s.store.CreateLog(ctx, entry); err != nil {
		s.log.Warnf("Failed to write audit log %s: %v", action, err)
	}
}

// Logs lists audit entries, checking each signature
func (s *Service) Logs(ctx context.Context, filter models.LogFilter) ([]models.AuditLog, error) {
	logs, err := s.store.ListLogs(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range logs {
		logs[i].Verified = utils.VerifyAuditLog(&logs[i], s.config.HMACSecret)
		if !logs[i].Verified {
			s.log.Warnf("Audit log %s failed signature check", logs[i].ID)
		}
	}
	return logs, nil
}
