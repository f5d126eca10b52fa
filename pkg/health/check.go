package health

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrCheckTimeout indicates a probe evaluation timed out. It is recorded with
// a message naming the configured timeout so a timeout is always
// distinguishable from an error the probe itself returned.
var ErrCheckTimeout = errors.New("health check timed out")

// runCheck executes a single probe evaluation, racing the probe's Check
// against the configured timeout. It is the one code path shared by the
// startup gate and the background evaluator, so every result - normal
// completion, timeout, or panic - is shaped identically.
//
// The evaluation context is detached from the caller's cancellation: the
// per-check timeout is the only cancellation mechanism applied to an
// individual evaluation. A panicking probe is recorded as Unhealthy rather
// than crashing the evaluation loop.
func runCheck(ctx context.Context, probe Probe, timeout time.Duration) (Status, time.Duration, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	type outcome struct {
		status Status
		err    error
	}

	start := time.Now()
	resultCh := make(chan outcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				resultCh <- outcome{StatusUnhealthy, fmt.Errorf("probe panicked: %v", p)}
			}
		}()
		status, err := probe.Check(checkCtx)
		resultCh <- outcome{status, err}
	}()

	select {
	case out := <-resultCh:
		status, err := out.status, out.err
		if err != nil && status == StatusUnknown {
			status = StatusUnhealthy
		}
		return status, time.Since(start), err
	case <-checkCtx.Done():
		return StatusUnhealthy, time.Since(start), fmt.Errorf("%w after %s", ErrCheckTimeout, timeout)
	}
}
