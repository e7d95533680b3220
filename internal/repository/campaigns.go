package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/prospect-crm/internal/entity"
)

// EmailLogsRepository persists the outcome of every campaign send attempt.
type EmailLogsRepository interface {
	AppendEmailLog(ctx context.Context, entry *entity.EmailLog) error
	ListEmailLogs(ctx context.Context, campaignID uuid.UUID) ([]entity.EmailLog, error)
}

// PGXEmailLogsRepository implements EmailLogsRepository with pgx.
type PGXEmailLogsRepository struct {
	q querier
}

// NewPGXEmailLogsRepository instantiates an email log repository.
func NewPGXEmailLogsRepository(pool *pgxpool.Pool) *PGXEmailLogsRepository {
	return &PGXEmailLogsRepository{q: pool}
}

// AppendEmailLog inserts a log row and fills in its id.
func (r *PGXEmailLogsRepository) AppendEmailLog(ctx context.Context, entry *entity.EmailLog) error {
	if entry == nil {
		return fmt.Errorf("email log is nil")
	}

	err := r.q.QueryRow(ctx, `
        INSERT INTO email_logs (campaign_id, company_id, recipient, subject, status, error, sent_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `,
		entry.CampaignID,
		entry.CompanyID,
		entry.Recipient,
		entry.Subject,
		entry.Status,
		entry.Error,
		entry.SentAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("insert email log: %w", err)
	}
	return nil
}

// ListEmailLogs returns the log rows of a campaign in send order.
func (r *PGXEmailLogsRepository) ListEmailLogs(ctx context.Context, campaignID uuid.UUID) ([]entity.EmailLog, error) {
	rows, err := r.q.Query(ctx, `
        SELECT id, campaign_id, company_id, recipient, subject, status, error, sent_at
        FROM email_logs
        WHERE campaign_id = $1
        ORDER BY sent_at ASC, id ASC
    `, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list email logs: %w", err)
	}
	defer rows.Close()

	var logs []entity.EmailLog
	for rows.Next() {
		var entry entity.EmailLog
		if err := rows.Scan(
			&entry.ID,
			&entry.CampaignID,
			&entry.CompanyID,
			&entry.Recipient,
			&entry.Subject,
			&entry.Status,
			&entry.Error,
			&entry.SentAt,
		); err != nil {
			return nil, fmt.Errorf("scan email log: %w", err)
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate email logs: %w", err)
	}
	return logs, nil
}
