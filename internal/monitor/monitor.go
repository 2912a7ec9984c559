// Package monitor tracks per-conversation inactivity in process-local memory
// and requests follow-ups when a lead goes quiet.
package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/salesloop/reengage/internal/metrics"
	"github.com/salesloop/reengage/internal/repository"
	"github.com/salesloop/reengage/internal/scheduler"
)

// Trigger reason codes passed to the follow-up scheduler.
const (
	TriggerInactivity30Min = "inactivity_30min"
	TriggerInactivity24H   = "inactivity_24h"
)

// ScheduleFunc requests a follow-up for a lead. Skip outcomes are not errors;
// the monitor only cares whether the request itself failed.
type ScheduleFunc func(ctx context.Context, leadID, trigger string) error

// Config holds the monitor's inactivity thresholds.
type Config struct {
	TickInterval    time.Duration
	FirstThreshold  time.Duration // quiet this long -> first tier
	SecondThreshold time.Duration // quiet this long -> second tier
	DropAfter       time.Duration // quiet this long -> stop tracking
}

// tracked is the per-phone inactivity state. The markers prevent the same
// tier from firing twice for one silence window.
type tracked struct {
	leadID        string
	lastMessageAt time.Time
	firstTierSent bool
	secondTierSent bool
}

// Monitor owns the in-memory tracking map. The tick loop and RegisterMessage
// are the only mutators; both go through the mutex. The map is a cache over
// the conversation store, rebuilt from it on startup, never the source of
// truth.
type Monitor struct {
	cfg           Config
	conversations repository.ConversationRepository
	schedule      ScheduleFunc
	logger        *zap.Logger
	metrics       *metrics.Metrics
	now           func() time.Time

	mu      sync.Mutex
	entries map[string]*tracked

	loop *scheduler.Loop
}

// New creates a monitor. A nil now function defaults to time.Now.
func New(
	cfg Config,
	conversations repository.ConversationRepository,
	schedule ScheduleFunc,
	logger *zap.Logger,
	m *metrics.Metrics,
	now func() time.Time,
) *Monitor {
	if now == nil {
		now = time.Now
	}

	mon := &Monitor{
		cfg:           cfg,
		conversations: conversations,
		schedule:      schedule,
		logger:        logger,
		metrics:       m,
		now:           now,
		entries:       make(map[string]*tracked),
	}
	// The tick walks an in-memory map; one interval is plenty of budget.
	mon.loop = scheduler.NewLoop("inactivity-monitor", logger, cfg.TickInterval, cfg.TickInterval, mon.Tick)
	return mon
}

// Start seeds the tracking map from the conversation store and begins the
// tick loop.
func (m *Monitor) Start(ctx context.Context) error {
	if err := m.Seed(ctx); err != nil {
		// A failed seed is tolerable: tracking resumes as messages arrive.
		m.logger.Warn("Failed to seed inactivity monitor", zap.Error(err))
	}
	return m.loop.Start(ctx)
}

// Stop halts the tick loop.
func (m *Monitor) Stop() error {
	return m.loop.Stop()
}

// IsRunning reports whether the tick loop is active.
func (m *Monitor) IsRunning() bool {
	return m.loop.IsRunning()
}

// Seed rebuilds the tracking map from the most recent inbound message of each
// active conversation. Existing entries are kept; seeding never clears
// markers already earned in this process lifetime.
func (m *Monitor) Seed(ctx context.Context) error {
	seeds, err := m.conversations.LastInboundPerActive(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, seed := range seeds {
		if _, exists := m.entries[seed.Phone]; exists {
			continue
		}
		m.entries[seed.Phone] = &tracked{
			leadID:        seed.LeadID,
			lastMessageAt: seed.LastMessageAt,
		}
	}
	m.metrics.TrackedConversations.Set(float64(len(m.entries)))

	m.logger.Info("Inactivity monitor seeded", zap.Int("tracked", len(m.entries)))
	return nil
}

// RegisterMessage records conversation activity for a phone. An inbound user
// message resets the inactivity clock and clears all tier markers; assistant
// turns are ignored because only the lead's silence matters.
func (m *Monitor) RegisterMessage(phone, leadID string, isFromUser bool) {
	if !isFromUser {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.entries[phone]
	if !exists {
		entry = &tracked{leadID: leadID}
		m.entries[phone] = entry
		m.metrics.TrackedConversations.Set(float64(len(m.entries)))
	}

	entry.leadID = leadID
	entry.lastMessageAt = m.now()
	entry.firstTierSent = false
	entry.secondTierSent = false
}

// Tick classifies every tracked phone into an inactivity tier. Exported so
// the loop and tests share one code path.
func (m *Monitor) Tick(ctx context.Context) error {
	now := m.now()

	type pending struct {
		leadID  string
		trigger string
		tier    string
	}
	var toSchedule []pending

	m.mu.Lock()
	for phone, entry := range m.entries {
		inactive := now.Sub(entry.lastMessageAt)

		switch {
		case inactive > m.cfg.DropAfter:
			// Long-dead conversation; stop tracking. Existing follow-ups
			// are untouched.
			delete(m.entries, phone)
		case inactive > m.cfg.FirstThreshold && !entry.firstTierSent:
			entry.firstTierSent = true
			toSchedule = append(toSchedule, pending{entry.leadID, TriggerInactivity30Min, "first"})
		case inactive > m.cfg.SecondThreshold && !entry.secondTierSent:
			entry.secondTierSent = true
			toSchedule = append(toSchedule, pending{entry.leadID, TriggerInactivity24H, "second"})
		}
	}
	m.metrics.TrackedConversations.Set(float64(len(m.entries)))
	m.mu.Unlock()

	// Scheduling happens outside the lock; it hits the database and the
	// intake path must never block behind it.
	for _, p := range toSchedule {
		m.metrics.InactivityTriggers.WithLabelValues(p.tier).Inc()
		if err := m.schedule(ctx, p.leadID, p.trigger); err != nil {
			m.logger.Error("Failed to schedule inactivity follow-up",
				zap.String("lead_id", p.leadID),
				zap.String("trigger", p.trigger),
				zap.Error(err))
		}
	}

	return nil
}

// TrackedCount returns how many phones are currently tracked.
func (m *Monitor) TrackedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
