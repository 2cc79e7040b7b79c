package models

import (
	"time"
)

// Audit action tags written to security_logs
const (
	ActionUserRegistered = "USER_REGISTERED"
	ActionUserLogin      = "USER_LOGIN"
	ActionUpdateUser     = "UPDATE_USER"
	ActionDeleteUser     = "DELETE_USER"
	ActionCreateStudent  = "CREATE_STUDENT"
	ActionUpdateStudent  = "UPDATE_STUDENT"
	ActionDeleteStudent  = "DELETE_STUDENT"
)

// SecurityLog is an append-only audit entry based on the 'security_logs' table.
// Rows are only ever inserted; the application never updates or deletes them.
type SecurityLog struct {
	ID        int64     `json:"id" db:"id"`
	Action    string    `json:"action" db:"action" example:"CREATE_STUDENT"`
	UserID    *int64    `json:"userId,omitempty" db:"user_id"` // Acting user, nullable for unauthenticated events
	IPAddress string    `json:"ipAddress" db:"ip_address"`
	UserAgent string    `json:"userAgent" db:"user_agent"`
	Details   string    `json:"details" db:"details"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
