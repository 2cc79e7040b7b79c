package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esisa/student-records/internal/app/models"
	"github.com/esisa/student-records/internal/pkg/apperrors"
)

func TestRecentSecurityLogsNewestFirst(t *testing.T) {
	logs := &fakeSecurityLogStore{}
	svc := NewSecurityLogService(logs)

	rec := newAuditRecorder(logs)
	uid := int64(7)
	rec.record(context.Background(), models.ActionUserLogin, &uid, RequestMeta{IPAddress: "10.0.0.1"}, "User logged in")
	rec.record(context.Background(), models.ActionCreateStudent, &uid, RequestMeta{}, "Created student")
	rec.record(context.Background(), models.ActionDeleteStudent, &uid, RequestMeta{}, "Deleted student")

	entries, err := svc.Recent(context.Background(), adminActor(1), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.ActionDeleteStudent, entries[0].Action)
	assert.Equal(t, models.ActionCreateStudent, entries[1].Action)
}

func TestRecentSecurityLogsAdminOnly(t *testing.T) {
	svc := NewSecurityLogService(&fakeSecurityLogStore{})

	_, err := svc.Recent(context.Background(), userActor(2), 10)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestRecentSecurityLogsLimitBounds(t *testing.T) {
	logs := &fakeSecurityLogStore{}
	svc := NewSecurityLogService(logs)

	rec := newAuditRecorder(logs)
	for i := 0; i < defaultSecurityLogLimit+10; i++ {
		rec.record(context.Background(), models.ActionUserLogin, nil, RequestMeta{}, "User logged in")
	}

	// Non-positive limits fall back to the default.
	entries, err := svc.Recent(context.Background(), adminActor(1), 0)
	require.NoError(t, err)
	assert.Len(t, entries, defaultSecurityLogLimit)

	// Oversized requests are capped, not rejected.
	entries, err = svc.Recent(context.Background(), adminActor(1), maxSecurityLogLimit*10)
	require.NoError(t, err)
	assert.Len(t, entries, defaultSecurityLogLimit+10)
}
