package services

import (
	"context"

	"github.com/esisa/student-records/internal/app/models"
	"github.com/esisa/student-records/internal/pkg/logger"
)

// RequestMeta carries the request attributes recorded alongside audit entries.
// Controllers fill it from the HTTP request; services never touch gin directly.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// auditRecorder appends entries to the security log. A failed append is
// logged and swallowed so that auditing never fails the triggering operation.
type auditRecorder struct {
	store SecurityLogStore
}

func newAuditRecorder(store SecurityLogStore) *auditRecorder {
	return &auditRecorder{store: store}
}

func (a *auditRecorder) record(ctx context.Context, action string, userID *int64, meta RequestMeta, details string) {
	entry := &models.SecurityLog{
		Action:    action,
		UserID:    userID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Details:   details,
	}
	if err := a.store.Insert(ctx, entry); err != nil {
		logger.Error().Err(err).Str("action", action).Msg("Failed to write security log entry")
	}
}
