package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/salesloop/reengage/internal/config"
	"github.com/salesloop/reengage/internal/gateway"
	"github.com/salesloop/reengage/internal/generator"
	"github.com/salesloop/reengage/internal/metrics"
	"github.com/salesloop/reengage/internal/models"
	"github.com/salesloop/reengage/internal/repository/mocks"
	"github.com/salesloop/reengage/internal/service"
)

// stubSender records sends and returns a canned outcome.
type stubSender struct {
	mu     sync.Mutex
	phones []string
	result *gateway.Result
	err    error
}

func (s *stubSender) Send(_ context.Context, phone, _ string) (*gateway.Result, error) {
	s.mu.Lock()
	s.phones = append(s.phones, phone)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// stubFollowUps answers the post-attempt scheduling call.
type stubFollowUps struct {
	mu        sync.Mutex
	outcome   *service.ScheduleOutcome
	scheduled []string
	cancelled []string
}

func (s *stubFollowUps) Schedule(_ context.Context, leadID, trigger string) (*service.ScheduleOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduled = append(s.scheduled, leadID+"/"+trigger)
	return s.outcome, nil
}

func (s *stubFollowUps) CancelForLead(_ context.Context, leadID, _ string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = append(s.cancelled, leadID)
	return 1, nil
}

func (s *stubFollowUps) History(context.Context, string) ([]*models.FollowUp, error) {
	return nil, nil
}

type executorFixture struct {
	repo      *mocks.MockRepository
	followUps *mocks.MockFollowUpRepository
	leads     *mocks.MockLeadRepository
	sender    *stubSender
	next      *stubFollowUps
	svc       service.ExecutorService
}

func newExecutorFixture(t *testing.T, sender *stubSender, next *stubFollowUps) *executorFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &executorFixture{
		repo:      mocks.NewMockRepository(ctrl),
		followUps: mocks.NewMockFollowUpRepository(ctrl),
		leads:     mocks.NewMockLeadRepository(ctrl),
		sender:    sender,
		next:      next,
	}
	f.repo.EXPECT().FollowUp().Return(f.followUps).AnyTimes()
	f.repo.EXPECT().Lead().Return(f.leads).AnyTimes()

	cfg := &config.ReengagementConfig{
		ExecutorTickSeconds:             60,
		ClaimBatchSize:                  50,
		StaleProcessingThresholdMinutes: 10,
		SendConcurrency:                 2,
	}
	gatewayCfg := &config.GatewayConfig{TimeoutSeconds: 1, MaxRetries: 1}

	f.svc = service.NewExecutorService(f.repo, sender, generator.NewTemplateGenerator(nil),
		next, nil, cfg, gatewayCfg, zap.NewNop(), metrics.Registry("test"),
		func() time.Time { return testNow })
	return f
}

func dueFollowUp(id int64) *models.FollowUp {
	return &models.FollowUp{
		ID:            id,
		LeadID:        "lead-1",
		Type:          models.FollowUpTypeReminder,
		Status:        models.FollowUpStatusProcessing,
		ScheduledAt:   testNow.Add(-time.Minute),
		Message:       "Oi Maria! Ainda posso te ajudar?",
		AttemptNumber: 1,
	}
}

func TestExecutorService_ExecuteDue_DeliversAndMarksExecuted(t *testing.T) {
	sender := &stubSender{result: &gateway.Result{Success: true, ProviderID: "wamid-123"}}
	next := &stubFollowUps{outcome: &service.ScheduleOutcome{Skipped: true, Reason: service.SkipReasonAlreadyActive}}
	f := newExecutorFixture(t, sender, next)

	f.followUps.EXPECT().
		ReleaseStale(gomock.Any(), testNow.Add(-10*time.Minute)).
		Return(int64(0), nil)
	f.followUps.EXPECT().
		ClaimDue(gomock.Any(), 50, testNow).
		Return([]*models.FollowUp{dueFollowUp(1)}, nil)
	f.leads.EXPECT().
		GetByID(gomock.Any(), "lead-1").
		Return(qualifyingLead(), nil)
	f.followUps.EXPECT().
		MarkExecuted(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, result string) error {
			assert.Contains(t, result, "wamid-123")
			return nil
		})

	require.NoError(t, f.svc.ExecuteDue(context.Background()))

	assert.Equal(t, []string{"5511999990000"}, sender.phones)
	assert.Equal(t, []string{"lead-1/post_attempt"}, next.scheduled)
}

func TestExecutorService_ExecuteDue_MarksFailedOnSendError(t *testing.T) {
	sender := &stubSender{err: &gateway.TransientError{Err: errors.New("gateway unreachable")}}
	next := &stubFollowUps{outcome: &service.ScheduleOutcome{FollowUp: &models.FollowUp{ID: 2}}}
	f := newExecutorFixture(t, sender, next)

	f.followUps.EXPECT().
		ReleaseStale(gomock.Any(), gomock.Any()).
		Return(int64(0), nil)
	f.followUps.EXPECT().
		ClaimDue(gomock.Any(), 50, testNow).
		Return([]*models.FollowUp{dueFollowUp(1)}, nil)
	f.leads.EXPECT().
		GetByID(gomock.Any(), "lead-1").
		Return(qualifyingLead(), nil)
	f.followUps.EXPECT().
		MarkFailed(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, result string) error {
			assert.Contains(t, result, "gateway unreachable")
			assert.Contains(t, result, `"transient":true`)
			return nil
		})

	require.NoError(t, f.svc.ExecuteDue(context.Background()))

	// A failed attempt still consumes a tier and schedules the next one.
	assert.Equal(t, []string{"lead-1/post_attempt"}, next.scheduled)
}

func TestExecutorService_ExecuteDue_ClosesLeadAfterLastTier(t *testing.T) {
	sender := &stubSender{result: &gateway.Result{Success: true, ProviderID: "wamid-456"}}
	next := &stubFollowUps{outcome: &service.ScheduleOutcome{Skipped: true, Reason: service.SkipReasonMaxAttempts}}
	f := newExecutorFixture(t, sender, next)

	f.followUps.EXPECT().
		ReleaseStale(gomock.Any(), gomock.Any()).
		Return(int64(0), nil)
	f.followUps.EXPECT().
		ClaimDue(gomock.Any(), 50, testNow).
		Return([]*models.FollowUp{dueFollowUp(3)}, nil)
	f.leads.EXPECT().
		GetByID(gomock.Any(), "lead-1").
		Return(qualifyingLead(), nil)
	f.followUps.EXPECT().
		MarkExecuted(gomock.Any(), int64(3), gomock.Any()).
		Return(nil)
	f.leads.EXPECT().
		SetInterested(gomock.Any(), "lead-1", false).
		Return(nil)

	require.NoError(t, f.svc.ExecuteDue(context.Background()))

	assert.Equal(t, []string{"lead-1"}, next.cancelled)
}

func TestExecutorService_TickContextNotBoundedByInterval(t *testing.T) {
	sender := &stubSender{result: &gateway.Result{Success: true}}
	next := &stubFollowUps{}
	f := newExecutorFixture(t, sender, next)

	// A full batch of slow sends may take longer than one tick, so the pass
	// must not run under an interval-sized deadline.
	hasDeadline := make(chan bool, 1)
	f.followUps.EXPECT().
		ReleaseStale(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ time.Time) (int64, error) {
			_, ok := ctx.Deadline()
			select {
			case hasDeadline <- ok:
			default:
			}
			return 0, nil
		}).
		MinTimes(1)
	f.followUps.EXPECT().
		ClaimDue(gomock.Any(), 50, testNow).
		Return(nil, nil).
		MinTimes(1)

	require.NoError(t, f.svc.Start(context.Background()))
	bounded := <-hasDeadline
	require.NoError(t, f.svc.Stop())

	assert.False(t, bounded)
}

func TestExecutorService_ExecuteDue_NoDueWork(t *testing.T) {
	sender := &stubSender{result: &gateway.Result{Success: true}}
	next := &stubFollowUps{}
	f := newExecutorFixture(t, sender, next)

	f.followUps.EXPECT().
		ReleaseStale(gomock.Any(), gomock.Any()).
		Return(int64(2), nil)
	f.followUps.EXPECT().
		ClaimDue(gomock.Any(), 50, testNow).
		Return(nil, nil)

	require.NoError(t, f.svc.ExecuteDue(context.Background()))
	assert.Empty(t, sender.phones)
	assert.Empty(t, next.scheduled)
}
