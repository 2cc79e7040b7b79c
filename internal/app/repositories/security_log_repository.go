package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/esisa/student-records/internal/app/models"
)

// SecurityLogRepository handles database operations for the append-only
// audit trail. There are deliberately no update or delete methods.
type SecurityLogRepository struct {
	db *pgxpool.Pool
}

// NewSecurityLogRepository creates a new SecurityLogRepository
func NewSecurityLogRepository(db *pgxpool.Pool) *SecurityLogRepository {
	return &SecurityLogRepository{db: db}
}

// Insert appends an audit entry
func (r *SecurityLogRepository) Insert(ctx context.Context, entry *models.SecurityLog) error {
	query := `
		INSERT INTO security_logs (action, user_id, ip_address, user_agent, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		entry.Action, entry.UserID, entry.IPAddress, entry.UserAgent, entry.Details,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting security log: %w", err)
	}

	return nil
}

// ListRecent retrieves the newest audit entries, for operational inspection
func (r *SecurityLogRepository) ListRecent(ctx context.Context, limit int) ([]models.SecurityLog, error) {
	query := `
		SELECT id, action, user_id, ip_address, user_agent, details, created_at
		FROM security_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing security logs: %w", err)
	}
	defer rows.Close()

	var entries []models.SecurityLog
	for rows.Next() {
		var entry models.SecurityLog
		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&entry.UserID,
			&entry.IPAddress,
			&entry.UserAgent,
			&entry.Details,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
