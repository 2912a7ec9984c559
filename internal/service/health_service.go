package service

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/salesloop/reengage/internal/gateway"
	"github.com/salesloop/reengage/internal/monitor"
	"github.com/salesloop/reengage/internal/repository"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// breakerReporter is implemented by the webhook gateway; other senders simply
// report no breaker.
type breakerReporter interface {
	BreakerState() (gateway.BreakerState, uint32, uint32)
}

type healthService struct {
	repo     repository.Repository
	redis    *redis.Client
	sender   gateway.Sender
	executor ExecutorService
	monitor  *monitor.Monitor
}

// NewHealthService creates the aggregate health reporter.
func NewHealthService(
	repo repository.Repository,
	redisClient *redis.Client,
	sender gateway.Sender,
	executor ExecutorService,
	mon *monitor.Monitor,
) HealthService {
	return &healthService{
		repo:     repo,
		redis:    redisClient,
		sender:   sender,
		executor: executor,
		monitor:  mon,
	}
}

// Check probes every dependency. The database is the only hard requirement;
// everything else degrades the status without taking it down.
func (s *healthService) Check(ctx context.Context) *HealthStatus {
	components := make(map[string]string)
	status := statusHealthy

	if err := s.repo.Ping(); err != nil {
		components["database"] = fmt.Sprintf("down: %v", err)
		status = statusUnhealthy
	} else {
		components["database"] = "up"
	}

	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			components["redis"] = fmt.Sprintf("down: %v", err)
			if status == statusHealthy {
				status = statusDegraded
			}
		} else {
			components["redis"] = "up"
		}
	}

	components["executor_loop"] = loopStatus(s.executor.IsRunning())
	components["monitor_loop"] = loopStatus(s.monitor.IsRunning())
	if !s.executor.IsRunning() || !s.monitor.IsRunning() {
		if status == statusHealthy {
			status = statusDegraded
		}
	}

	if reporter, ok := s.sender.(breakerReporter); ok {
		state, requests, failures := reporter.BreakerState()
		components["gateway_breaker"] = fmt.Sprintf("%s (requests=%d failures=%d)", state, requests, failures)
		if state == gateway.BreakerOpen && status == statusHealthy {
			status = statusDegraded
		}
	}

	return &HealthStatus{Status: status, Components: components}
}

func loopStatus(running bool) string {
	if running {
		return "running"
	}
	return "stopped"
}
