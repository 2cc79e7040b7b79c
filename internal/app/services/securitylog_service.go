package services

import (
	"context"
	"fmt"

	"github.com/esisa/student-records/internal/app/models"
	"github.com/esisa/student-records/internal/pkg/apperrors"
)

const (
	defaultSecurityLogLimit = 50
	maxSecurityLogLimit     = 200
)

// SecurityLogService exposes the audit trail to administrators
type SecurityLogService struct {
	logs SecurityLogStore
}

// NewSecurityLogService creates a new security log service
func NewSecurityLogService(logs SecurityLogStore) *SecurityLogService {
	return &SecurityLogService{logs: logs}
}

// Recent returns the newest audit entries, admin only. A non-positive limit
// falls back to the default; oversized requests are capped.
func (s *SecurityLogService) Recent(ctx context.Context, actor models.Actor, limit int) ([]models.SecurityLog, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}

	if limit <= 0 {
		limit = defaultSecurityLogLimit
	}
	if limit > maxSecurityLogLimit {
		limit = maxSecurityLogLimit
	}

	entries, err := s.logs.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list security logs: %w", err)
	}
	return entries, nil
}
