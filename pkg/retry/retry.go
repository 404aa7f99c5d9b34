/*
 * Copyright 2026 The SOLV Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package retry runs remote operations with bounded exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"syscall"
	"time"

	solverrors "github.com/solv-team/solv/pkg/errors"
	"github.com/solv-team/solv/server/logging"
)

const (
	// ModeAll retries every failure up to the attempt limit.
	ModeAll = "all"

	// ModeTransient retries only failures classified as temporary.
	ModeTransient = "transient"
)

const (
	// DefaultMaxAttempts is the number of attempts made when none is given.
	DefaultMaxAttempts = 3

	// DefaultBaseDelay is the wait before the second attempt.
	DefaultBaseDelay = time.Second
)

// Policy describes how an operation is retried. The delay before attempt
// n+1 is BaseDelay * 2^(n-1). There is no jitter and no upper bound.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first one.
	MaxAttempts int

	// BaseDelay is the wait after the first failure.
	BaseDelay time.Duration

	// ShouldRetry decides whether a failure is retried. Nil retries all.
	ShouldRetry func(err error) bool

	// OnRetry is called before each backoff sleep.
	OnRetry func(op string, attempt int, delay time.Duration, err error)

	// Sleep blocks for the given duration. Nil waits on a timer and returns
	// early when ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Do calls fn until it succeeds, the policy refuses to retry, or the attempts
// are exhausted. The last error of fn is returned unchanged, except when ctx
// is done during a backoff wait: then the error is prefixed with op and wraps
// both the context error and the last error of fn.
func Do[T any](ctx context.Context, p Policy, op string, fn func() (T, error)) (T, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = timerSleep
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		res, err := fn()
		if err == nil {
			return res, nil
		}
		lastErr = err

		if p.ShouldRetry != nil && !p.ShouldRetry(err) {
			return zero, err
		}
		if attempt == maxAttempts-1 {
			break
		}

		delay := WaitInterval(attempt, p.BaseDelay)
		logging.From(ctx).Warnf(
			"%s: attempt %d/%d failed, retrying in %s: %v",
			op, attempt+1, maxAttempts, delay, err,
		)
		if p.OnRetry != nil {
			p.OnRetry(op, attempt+1, delay, err)
		}

		if err := sleep(ctx, delay); err != nil {
			return zero, fmt.Errorf("%s: %w: %w", op, err, lastErr)
		}
	}

	logging.From(ctx).Warnf("%s: giving up after %d attempts: %v", op, maxAttempts, lastErr)
	return zero, lastErr
}

// WaitInterval returns the wait after the failure of the given zero-based
// attempt: base * 2^attempt.
func WaitInterval(attempt int, base time.Duration) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * base
}

// All retries every error.
func All(error) bool {
	return true
}

// Transient retries errors classified as temporary: statuses marked
// transient, network timeouts and connection resets.
// Refer to https://github.com/kubernetes/kubernetes/search?q=DefaultShouldRetry
func Transient(err error) bool {
	if solverrors.IsTransient(err) {
		return true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.ECONNRESET
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

// ParseMode returns the classifier for the given mode name.
func ParseMode(mode string) (func(error) bool, error) {
	switch mode {
	case "", ModeAll:
		return All, nil
	case ModeTransient:
		return Transient, nil
	default:
		return nil, fmt.Errorf("invalid retry mode %q, must be %q or %q", mode, ModeAll, ModeTransient)
	}
}

func timerSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
