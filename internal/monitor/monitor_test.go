package monitor_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/salesloop/reengage/internal/metrics"
	"github.com/salesloop/reengage/internal/models"
	"github.com/salesloop/reengage/internal/monitor"
	"github.com/salesloop/reengage/internal/repository/mocks"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type scheduleRecorder struct {
	mu    sync.Mutex
	calls []string // "leadID/trigger"
}

func (r *scheduleRecorder) schedule(_ context.Context, leadID, trigger string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, leadID+"/"+trigger)
	return nil
}

func (r *scheduleRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func testConfig() monitor.Config {
	return monitor.Config{
		TickInterval:    time.Minute,
		FirstThreshold:  30 * time.Minute,
		SecondThreshold: 24 * time.Hour,
		DropAfter:       7 * 24 * time.Hour,
	}
}

func newTestMonitor(t *testing.T, clock *fakeClock, rec *scheduleRecorder) (*monitor.Monitor, *mocks.MockConversationRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	conversations := mocks.NewMockConversationRepository(ctrl)

	m := monitor.New(testConfig(), conversations, rec.schedule, zap.NewNop(), metrics.Registry("test"), clock.Now)
	return m, conversations
}

func TestMonitor_FirstTierFiresAfterThreshold(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)}
	rec := &scheduleRecorder{}
	m, _ := newTestMonitor(t, clock, rec)

	m.RegisterMessage("5511999990000", "lead-1", true)

	// Still inside the quiet window.
	clock.Advance(29 * time.Minute)
	require.NoError(t, m.Tick(context.Background()))
	assert.Empty(t, rec.snapshot())

	clock.Advance(2 * time.Minute)
	require.NoError(t, m.Tick(context.Background()))
	assert.Equal(t, []string{"lead-1/" + monitor.TriggerInactivity30Min}, rec.snapshot())

	// The marker suppresses a repeat on the next tick.
	require.NoError(t, m.Tick(context.Background()))
	assert.Len(t, rec.snapshot(), 1)
}

func TestMonitor_UserMessageResetsClockAndMarkers(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)}
	rec := &scheduleRecorder{}
	m, _ := newTestMonitor(t, clock, rec)

	m.RegisterMessage("5511999990000", "lead-1", true)

	clock.Advance(31 * time.Minute)
	require.NoError(t, m.Tick(context.Background()))
	require.Len(t, rec.snapshot(), 1)

	// The lead replies; the tier markers clear and the window restarts.
	m.RegisterMessage("5511999990000", "lead-1", true)
	clock.Advance(31 * time.Minute)
	require.NoError(t, m.Tick(context.Background()))
	assert.Len(t, rec.snapshot(), 2)
}

func TestMonitor_AssistantMessagesIgnored(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)}
	rec := &scheduleRecorder{}
	m, _ := newTestMonitor(t, clock, rec)

	m.RegisterMessage("5511999990000", "lead-1", true)
	clock.Advance(29 * time.Minute)

	// Outbound traffic must not keep the conversation "active".
	m.RegisterMessage("5511999990000", "lead-1", false)
	clock.Advance(2 * time.Minute)

	require.NoError(t, m.Tick(context.Background()))
	assert.Len(t, rec.snapshot(), 1)
}

func TestMonitor_SecondTierFiresOnFollowingTick(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)}
	rec := &scheduleRecorder{}
	m, _ := newTestMonitor(t, clock, rec)

	m.RegisterMessage("5511999990000", "lead-1", true)

	clock.Advance(25 * time.Hour)
	require.NoError(t, m.Tick(context.Background()))
	// First tier claims the first tick past both thresholds.
	require.Equal(t, []string{"lead-1/" + monitor.TriggerInactivity30Min}, rec.snapshot())

	require.NoError(t, m.Tick(context.Background()))
	assert.Equal(t, []string{
		"lead-1/" + monitor.TriggerInactivity30Min,
		"lead-1/" + monitor.TriggerInactivity24H,
	}, rec.snapshot())
}

func TestMonitor_DropsEntryAfterRetention(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)}
	rec := &scheduleRecorder{}
	m, _ := newTestMonitor(t, clock, rec)

	m.RegisterMessage("5511999990000", "lead-1", true)
	require.Equal(t, 1, m.TrackedCount())

	clock.Advance(8 * 24 * time.Hour)
	require.NoError(t, m.Tick(context.Background()))

	assert.Equal(t, 0, m.TrackedCount())
	assert.Empty(t, rec.snapshot())
}

func TestMonitor_SeededEntryPastRetentionDroppedWithoutFollowUp(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)}
	rec := &scheduleRecorder{}
	m, conversations := newTestMonitor(t, clock, rec)

	conversations.EXPECT().
		LastInboundPerActive(gomock.Any()).
		Return([]models.LastInbound{
			{LeadID: "lead-1", Phone: "5511999990000", LastMessageAt: clock.Now().Add(-8 * 24 * time.Hour)},
		}, nil)

	require.NoError(t, m.Seed(context.Background()))
	require.Equal(t, 1, m.TrackedCount())

	// A conversation already past retention when the process comes up is
	// dropped outright; no tier fires for it.
	require.NoError(t, m.Tick(context.Background()))
	assert.Equal(t, 0, m.TrackedCount())
	assert.Empty(t, rec.snapshot())
}

func TestMonitor_SeedLoadsActiveConversations(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)}
	rec := &scheduleRecorder{}
	m, conversations := newTestMonitor(t, clock, rec)

	conversations.EXPECT().
		LastInboundPerActive(gomock.Any()).
		Return([]models.LastInbound{
			{LeadID: "lead-1", Phone: "5511999990000", LastMessageAt: clock.Now().Add(-10 * time.Minute)},
			{LeadID: "lead-2", Phone: "5511888880000", LastMessageAt: clock.Now().Add(-40 * time.Minute)},
		}, nil)

	require.NoError(t, m.Seed(context.Background()))
	require.Equal(t, 2, m.TrackedCount())

	require.NoError(t, m.Tick(context.Background()))
	assert.Equal(t, []string{"lead-2/" + monitor.TriggerInactivity30Min}, rec.snapshot())
}
