package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Loop runs a named task on a fixed interval. Both the follow-up executor and
// the inactivity monitor are driven by one of these. The interval is a cadence
// only; whether a single run gets a deadline is up to taskTimeout.
type Loop struct {
	name        string
	logger      *zap.Logger
	interval    time.Duration
	taskTimeout time.Duration
	taskFunc    func(context.Context) error
	stopCh      chan struct{}
	doneCh      chan struct{}
	isRunning   bool
	mu          sync.RWMutex
}

// NewLoop creates a periodic loop. The task runs once immediately on Start and
// then on every tick. A positive taskTimeout bounds each run; zero leaves the
// run bounded only by the base context, for tasks that manage their own
// per-operation deadlines. Runs never overlap either way.
func NewLoop(name string, logger *zap.Logger, interval, taskTimeout time.Duration, taskFunc func(context.Context) error) *Loop {
	return &Loop{
		name:        name,
		logger:      logger,
		interval:    interval,
		taskTimeout: taskTimeout,
		taskFunc:    taskFunc,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start begins the loop.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.isRunning {
		return ErrSchedulerAlreadyRunning
	}

	l.isRunning = true
	l.stopCh = make(chan struct{})
	l.doneCh = make(chan struct{})

	go l.run(ctx)

	l.logger.Info("Loop started",
		zap.String("loop", l.name),
		zap.Duration("interval", l.interval))
	return nil
}

// Stop halts the loop and waits for the current task to finish.
func (l *Loop) Stop() error {
	l.mu.Lock()
	if !l.isRunning {
		l.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	l.mu.Unlock()

	close(l.stopCh)
	<-l.doneCh

	l.mu.Lock()
	l.isRunning = false
	l.mu.Unlock()

	l.logger.Info("Loop stopped", zap.String("loop", l.name))
	return nil
}

// IsRunning returns whether the loop is currently running.
func (l *Loop) IsRunning() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.isRunning
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.doneCh)
	defer func() {
		l.mu.Lock()
		l.isRunning = false
		l.mu.Unlock()
	}()

	l.executeTask(ctx)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Loop context canceled", zap.String("loop", l.name))
			return
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.executeTask(ctx)
		}
	}
}

func (l *Loop) executeTask(ctx context.Context) {
	taskCtx := ctx
	if l.taskTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, l.taskTimeout)
		defer cancel()
	}

	if err := l.taskFunc(taskCtx); err != nil {
		l.logger.Error("Tick failed",
			zap.String("loop", l.name),
			zap.Error(err))
	}
}
