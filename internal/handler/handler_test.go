package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/salesloop/reengage/internal/handler"
	"github.com/salesloop/reengage/internal/metrics"
	"github.com/salesloop/reengage/internal/models"
	"github.com/salesloop/reengage/internal/monitor"
	"github.com/salesloop/reengage/internal/repository"
	"github.com/salesloop/reengage/internal/repository/mocks"
	"github.com/salesloop/reengage/internal/scheduler"
	"github.com/salesloop/reengage/internal/service"
)

type stubFollowUpService struct {
	outcome    *service.ScheduleOutcome
	history    []*models.FollowUp
	cancelled  int64
	err        error
	lastLead   string
	lastReason string
}

func (s *stubFollowUpService) Schedule(_ context.Context, leadID, _ string) (*service.ScheduleOutcome, error) {
	s.lastLead = leadID
	return s.outcome, s.err
}

func (s *stubFollowUpService) CancelForLead(_ context.Context, leadID, reason string) (int64, error) {
	s.lastLead = leadID
	s.lastReason = reason
	return s.cancelled, s.err
}

func (s *stubFollowUpService) History(_ context.Context, leadID string) ([]*models.FollowUp, error) {
	s.lastLead = leadID
	return s.history, s.err
}

type stubConversationService struct {
	err  error
	last *handler.MessageRequest
}

func (s *stubConversationService) RegisterInbound(_ context.Context, leadID string, role models.MessageRole, content string) error {
	s.last = &handler.MessageRequest{LeadID: leadID, Role: string(role), Content: content}
	return s.err
}

type stubExecutor struct {
	startErr error
	stopErr  error
	running  bool
}

func (s *stubExecutor) ExecuteDue(context.Context) error { return nil }
func (s *stubExecutor) Start(context.Context) error      { return s.startErr }
func (s *stubExecutor) Stop() error                      { return s.stopErr }
func (s *stubExecutor) IsRunning() bool                  { return s.running }

type stubHealth struct {
	status *service.HealthStatus
}

func (s *stubHealth) Check(context.Context) *service.HealthStatus { return s.status }

type fixture struct {
	followUps     *stubFollowUpService
	conversations *stubConversationService
	executor      *stubExecutor
	health        *stubHealth
	router        http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	mon := monitor.New(
		monitor.Config{TickInterval: time.Minute, FirstThreshold: time.Minute, SecondThreshold: time.Hour, DropAfter: time.Hour},
		mocks.NewMockConversationRepository(ctrl),
		func(context.Context, string, string) error { return nil },
		zap.NewNop(), metrics.Registry("test"), nil)

	f := &fixture{
		followUps:     &stubFollowUpService{},
		conversations: &stubConversationService{},
		executor:      &stubExecutor{},
		health:        &stubHealth{status: &service.HealthStatus{Status: "healthy", Components: map[string]string{}}},
	}

	svc := &service.Service{
		FollowUp:     f.followUps,
		Executor:     f.executor,
		Conversation: f.conversations,
		Monitor:      mon,
		Health:       f.health,
	}
	f.router = handler.NewHandler(svc, zap.NewNop()).Routes()
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestScheduleFollowUp_Created(t *testing.T) {
	f := newFixture(t)
	f.followUps.outcome = &service.ScheduleOutcome{
		FollowUp: &models.FollowUp{ID: 1, LeadID: "lead-1", Type: models.FollowUpTypeReminder},
	}

	rec := f.do(t, http.MethodPost, "/api/v1/leads/lead-1/followups", handler.ScheduleRequest{Trigger: "manual"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "lead-1", f.followUps.lastLead)

	var outcome service.ScheduleOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.False(t, outcome.Skipped)
	assert.Equal(t, models.FollowUpTypeReminder, outcome.FollowUp.Type)
}

func TestScheduleFollowUp_SkipReturnsOK(t *testing.T) {
	f := newFixture(t)
	f.followUps.outcome = &service.ScheduleOutcome{Skipped: true, Reason: service.SkipReasonAlreadyActive}

	rec := f.do(t, http.MethodPost, "/api/v1/leads/lead-1/followups", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var outcome service.ScheduleOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.True(t, outcome.Skipped)
	assert.Equal(t, service.SkipReasonAlreadyActive, outcome.Reason)
}

func TestScheduleFollowUp_LeadNotFound(t *testing.T) {
	f := newFixture(t)
	f.followUps.err = repository.ErrNotFound

	rec := f.do(t, http.MethodPost, "/api/v1/leads/missing/followups", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetFollowUpHistory(t *testing.T) {
	f := newFixture(t)
	f.followUps.history = []*models.FollowUp{
		{ID: 2, LeadID: "lead-1", Type: models.FollowUpTypeReengagement},
		{ID: 1, LeadID: "lead-1", Type: models.FollowUpTypeReminder},
	}

	rec := f.do(t, http.MethodGet, "/api/v1/leads/lead-1/followups", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp handler.FollowUpHistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
}

func TestCancelFollowUps(t *testing.T) {
	f := newFixture(t)
	f.followUps.cancelled = 1

	rec := f.do(t, http.MethodDelete, "/api/v1/leads/lead-1/followups", handler.CancelRequest{Reason: "opted_out"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "opted_out", f.followUps.lastReason)

	var resp handler.CancelResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Cancelled)
}

func TestRegisterMessage_Accepted(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/messages", handler.MessageRequest{
		LeadID:  "lead-1",
		Role:    "user",
		Content: "oi, ainda tenho interesse",
	})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.NotNil(t, f.conversations.last)
	assert.Equal(t, "lead-1", f.conversations.last.LeadID)
}

func TestRegisterMessage_RejectsUnknownRole(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/messages", handler.MessageRequest{
		LeadID:  "lead-1",
		Role:    "system",
		Content: "oi",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, f.conversations.last)
}

func TestStartExecutorLoop_Conflict(t *testing.T) {
	f := newFixture(t)
	f.executor.startErr = scheduler.ErrSchedulerAlreadyRunning

	rec := f.do(t, http.MethodPost, "/api/v1/loops/executor/start", nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStopExecutorLoop(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/loops/executor/stop", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp handler.LoopResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "stopped", resp.Status)
}

func TestHealthCheck_UnhealthyReturns503(t *testing.T) {
	f := newFixture(t)
	f.health.status = &service.HealthStatus{
		Status:     "unhealthy",
		Components: map[string]string{"database": "down: connection refused"},
	}

	rec := f.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp handler.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Status)
}
