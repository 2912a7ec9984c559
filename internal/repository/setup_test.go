package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/salesloop/reengage/internal/models"
)

func setupTestDB(t *testing.T) (*sqlx.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)

	require.NoError(t, applyMigrations(db))

	cleanup := func() {
		_ = db.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func applyMigrations(db *sqlx.DB) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}

func cleanupTestData(db *sqlx.DB) {
	_, _ = db.Exec("TRUNCATE TABLE followups, messages, conversations, leads RESTART IDENTITY CASCADE")
}

func insertTestLead(t *testing.T, db *sqlx.DB, id, phone string, stage models.LeadStage) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO leads (id, phone, name, stage, interested)
		VALUES ($1, $2, $3, $4, TRUE)
	`, id, phone, "Lead "+id, stage)
	require.NoError(t, err)
}

func insertTestConversation(t *testing.T, db *sqlx.DB, id, leadID string, active bool) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO conversations (id, lead_id, is_active, current_stage)
		VALUES ($1, $2, $3, 'QUALIFYING')
	`, id, leadID, active)
	require.NoError(t, err)
}

func insertTestTurn(t *testing.T, db *sqlx.DB, conversationID string, role models.MessageRole, content string, at time.Time) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO messages (conversation_id, role, content, created_at)
		VALUES ($1, $2, $3, $4)
	`, conversationID, role, content, at)
	require.NoError(t, err)
}

func insertTestFollowUp(t *testing.T, db *sqlx.DB, leadID string, status models.FollowUpStatus, scheduledAt time.Time, attempt int) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(`
		INSERT INTO followups (lead_id, type, status, scheduled_at, message, attempt_number)
		VALUES ($1, 'REMINDER', $2, $3, 'oi', $4)
		RETURNING id
	`, leadID, status, scheduledAt, attempt).Scan(&id)
	require.NoError(t, err)
	return id
}
