package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/salesloop/reengage/internal/models"
)

// uniqueViolation is the Postgres error code raised by the partial unique
// index on active follow-ups when two creators race past the NOT EXISTS guard.
const uniqueViolation = "23505"

type followUpRepository struct {
	db *sqlx.DB
}

// NewFollowUpRepository creates a follow-up repository over the given database.
func NewFollowUpRepository(db *sqlx.DB) FollowUpRepository {
	return &followUpRepository{
		db: db,
	}
}

// Create inserts a new PENDING follow-up. The INSERT is guarded by a NOT
// EXISTS check on active rows for the same lead so the at-most-one-active
// invariant holds even under concurrent schedulers; zero affected rows means
// the lead already has an outstanding follow-up.
func (r *followUpRepository) Create(ctx context.Context, followUp *models.FollowUp) error {
	query := `
		INSERT INTO followups (lead_id, type, status, scheduled_at, message, attempt_number, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $7
		WHERE NOT EXISTS (
			SELECT 1 FROM followups
			WHERE lead_id = $1 AND status IN ($8, $9)
		)
		RETURNING id, created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowxContext(ctx, query,
		followUp.LeadID,
		followUp.Type,
		models.FollowUpStatusPending,
		followUp.ScheduledAt,
		followUp.Message,
		followUp.AttemptNumber,
		now,
		models.FollowUpStatusPending,
		models.FollowUpStatusProcessing,
	).Scan(&followUp.ID, &followUp.CreatedAt, &followUp.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrActiveFollowUpExists
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return ErrActiveFollowUpExists
	}
	if err != nil {
		return fmt.Errorf("failed to create follow-up: %w", err)
	}

	followUp.Status = models.FollowUpStatusPending
	return nil
}

// ClaimDue claims up to limit due PENDING rows. The inner SELECT locks
// candidate rows with FOR UPDATE SKIP LOCKED so concurrent claimers never
// receive the same row; losers simply skip to the next candidate.
func (r *followUpRepository) ClaimDue(ctx context.Context, limit int, now time.Time) ([]*models.FollowUp, error) {
	query := `
		UPDATE followups
		SET status = $1, updated_at = $2
		WHERE id IN (
			SELECT id FROM followups
			WHERE status = $3 AND scheduled_at <= $4
			ORDER BY scheduled_at ASC
			LIMIT $5
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, lead_id, type, status, scheduled_at, executed_at, message, attempt_number, result, created_at, updated_at
	`

	var claimed []*models.FollowUp
	err := r.db.SelectContext(ctx, &claimed, query,
		models.FollowUpStatusProcessing,
		now,
		models.FollowUpStatusPending,
		now,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to claim due follow-ups: %w", err)
	}

	return claimed, nil
}

// MarkExecuted records a successful send. The transition is conditional on the
// row still being PROCESSING.
func (r *followUpRepository) MarkExecuted(ctx context.Context, id int64, result string) error {
	return r.markTerminal(ctx, id, models.FollowUpStatusExecuted, result, true)
}

// MarkFailed records a failed send.
func (r *followUpRepository) MarkFailed(ctx context.Context, id int64, result string) error {
	return r.markTerminal(ctx, id, models.FollowUpStatusFailed, result, true)
}

func (r *followUpRepository) markTerminal(ctx context.Context, id int64, status models.FollowUpStatus, result string, setExecutedAt bool) error {
	query := `
		UPDATE followups
		SET status = $2, result = $3, executed_at = $4, updated_at = $5
		WHERE id = $1 AND status = $6
	`

	var executedAt sql.NullTime
	if setExecutedAt {
		executedAt = sql.NullTime{Time: time.Now(), Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query, id, status, result, executedAt, time.Now(), models.FollowUpStatusProcessing)
	if err != nil {
		return fmt.Errorf("failed to mark follow-up %s: %w", status, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("follow-up %d to %s: %w", id, status, ErrInvalidTransition)
	}

	return nil
}

// CancelPending cancels every PENDING follow-up for the lead, recording the
// reason in the result column. Returns zero when nothing was pending.
func (r *followUpRepository) CancelPending(ctx context.Context, leadID, reason string) (int64, error) {
	query := `
		UPDATE followups
		SET status = $1, result = $2, updated_at = $3
		WHERE lead_id = $4 AND status = $5
	`

	res, err := r.db.ExecContext(ctx, query,
		models.FollowUpStatusCancelled,
		reason,
		time.Now(),
		leadID,
		models.FollowUpStatusPending,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel pending follow-ups: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected, nil
}

// CountByLead counts the lead's follow-ups in the given statuses.
func (r *followUpRepository) CountByLead(ctx context.Context, leadID string, statuses []models.FollowUpStatus) (int, error) {
	query, args, err := sqlx.In(
		`SELECT COUNT(*) FROM followups WHERE lead_id = ? AND status IN (?)`,
		leadID, statuses,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("failed to count follow-ups: %w", err)
	}

	return count, nil
}

// MaxAttemptNumber returns the highest attempt_number among the lead's
// follow-ups in the given statuses, or zero when there are none.
func (r *followUpRepository) MaxAttemptNumber(ctx context.Context, leadID string, statuses []models.FollowUpStatus) (int, error) {
	query, args, err := sqlx.In(
		`SELECT COALESCE(MAX(attempt_number), 0) FROM followups WHERE lead_id = ? AND status IN (?)`,
		leadID, statuses,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to build max attempt query: %w", err)
	}

	var max int
	if err := r.db.GetContext(ctx, &max, r.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("failed to get max attempt number: %w", err)
	}

	return max, nil
}

// History returns the lead's follow-ups, newest first.
func (r *followUpRepository) History(ctx context.Context, leadID string) ([]*models.FollowUp, error) {
	query := `
		SELECT id, lead_id, type, status, scheduled_at, executed_at, message, attempt_number, result, created_at, updated_at
		FROM followups
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`

	var followUps []*models.FollowUp
	if err := r.db.SelectContext(ctx, &followUps, query, leadID); err != nil {
		return nil, fmt.Errorf("failed to get follow-up history: %w", err)
	}

	return followUps, nil
}

// ReleaseStale re-queues PROCESSING rows whose last update is older than the
// cutoff. These are claims orphaned by a crash mid-send; a duplicate send is
// possible and accepted over losing the follow-up.
func (r *followUpRepository) ReleaseStale(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `
		UPDATE followups
		SET status = $1, updated_at = $2
		WHERE status = $3 AND updated_at < $4
	`

	res, err := r.db.ExecContext(ctx, query,
		models.FollowUpStatusPending,
		time.Now(),
		models.FollowUpStatusProcessing,
		olderThan,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to release stale follow-ups: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected, nil
}
