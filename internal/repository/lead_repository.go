package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/salesloop/reengage/internal/models"
)

type leadRepository struct {
	db *sqlx.DB
}

// NewLeadRepository creates a lead repository over the given database.
func NewLeadRepository(db *sqlx.DB) LeadRepository {
	return &leadRepository{
		db: db,
	}
}

const leadColumns = `id, phone, name, stage, qualification_score, interested, last_interaction_at, created_at, updated_at`

// GetByID retrieves a lead by its identifier.
func (r *leadRepository) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	var lead models.Lead
	err := r.db.GetContext(ctx, &lead,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead by id: %w", err)
	}

	return &lead, nil
}

// GetByPhone retrieves a lead by its canonical phone number.
func (r *leadRepository) GetByPhone(ctx context.Context, phone string) (*models.Lead, error) {
	var lead models.Lead
	err := r.db.GetContext(ctx, &lead,
		`SELECT `+leadColumns+` FROM leads WHERE phone = $1`, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead by phone: %w", err)
	}

	return &lead, nil
}

// SetInterested updates the interested flag; clearing it also moves the lead
// to the NOT_INTERESTED stage.
func (r *leadRepository) SetInterested(ctx context.Context, id string, interested bool) error {
	query := `UPDATE leads SET interested = $2, updated_at = $3 WHERE id = $1`
	args := []interface{}{id, interested, time.Now()}

	if !interested {
		query = `UPDATE leads SET interested = $2, stage = $3, updated_at = $4 WHERE id = $1`
		args = []interface{}{id, interested, models.LeadStageNotInterested, time.Now()}
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update lead interest: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateLastInteraction records the timestamp of the lead's latest inbound
// message.
func (r *leadRepository) UpdateLastInteraction(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE leads SET last_interaction_at = $2, updated_at = $3 WHERE id = $1`,
		id, at, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update last interaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
