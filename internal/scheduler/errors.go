// Package scheduler provides the periodic loops that drive the follow-up
// executor and the inactivity monitor.
package scheduler

import "errors"

var (
	ErrSchedulerAlreadyRunning = errors.New("scheduler is already running")
	ErrSchedulerNotRunning     = errors.New("scheduler is not running")
)
