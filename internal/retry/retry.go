// Package retry wraps individual external calls with classified
// retry behavior: exponential backoff with optional jitter for
// transient failures, and server-suggested delays for rate limits.
package retry

import (
	"context"
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Class describes how a failure should be treated.
type Class int

const (
	// ClassFatal failures are re-raised immediately, no retry.
	ClassFatal Class = iota
	// ClassTransient failures retry with exponential backoff.
	ClassTransient
	// ClassRateLimit failures retry, honoring a server-suggested
	// delay when one is present in the error message.
	ClassRateLimit
)

// Classification is the verdict of a Classifier for one error.
type Classification struct {
	// Class selects the retry behavior.
	Class Class
	// SuggestedDelay is a server-provided wait, if any. Only
	// meaningful for ClassRateLimit.
	SuggestedDelay time.Duration
}

// Classifier inspects an error and decides whether it is retryable.
// Injecting the predicate keeps the policy independent of any one
// client library's error types.
type Classifier func(err error) Classification

// retryAfterPattern matches server hints like "try again in 2.5s".
var retryAfterPattern = regexp.MustCompile(`try again in (\d+(?:\.\d+)?)s`)

// SuggestedDelay extracts a server-suggested wait from an error
// message, or 0 if none is present.
func SuggestedDelay(msg string) time.Duration {
	match := retryAfterPattern.FindStringSubmatch(msg)
	if match == nil {
		return 0
	}
	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// DefaultClassifier classifies failures by message content. Rate
// limit markers take priority over transient ones; anything
// unrecognized is fatal.
func DefaultClassifier(err error) Classification {
	if err == nil {
		return Classification{Class: ClassFatal}
	}
	msg := strings.ToLower(err.Error())

	for _, marker := range []string{"rate limit", "rate_limit", "429", "overloaded", "too many requests"} {
		if strings.Contains(msg, marker) {
			return Classification{
				Class:          ClassRateLimit,
				SuggestedDelay: SuggestedDelay(msg),
			}
		}
	}

	for _, marker := range []string{"connection", "timeout", "timed out", "temporarily unavailable", "502", "503", "504", "eof"} {
		if strings.Contains(msg, marker) {
			return Classification{Class: ClassTransient}
		}
	}

	return Classification{Class: ClassFatal}
}

// Policy controls retry counts and delay growth.
type Policy struct {
	// MaxRetries is the number of additional attempts after the
	// first failure.
	MaxRetries int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the exponential growth.
	MaxDelay time.Duration
	// ExponentialBase is the per-attempt growth factor.
	ExponentialBase float64
	// Jitter randomizes each backoff delay into [0.5, 1.0) of its
	// value to avoid thundering herds. Server-suggested delays are
	// never jittered.
	Jitter bool
}

// DefaultPolicy mirrors the retry parameters used for LLM and tool
// backends: 3 retries, 1s base, 60s cap, doubling, jittered.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:      3,
		BaseDelay:       time.Second,
		MaxDelay:        60 * time.Second,
		ExponentialBase: 2.0,
		Jitter:          true,
	}
}

// Delay returns the un-jittered backoff for the given zero-based
// attempt index: min(base * exponentialBase^attempt, max).
func (p Policy) Delay(attempt int) time.Duration {
	base := float64(p.BaseDelay)
	delay := base * math.Pow(p.ExponentialBase, float64(attempt))
	if max := float64(p.MaxDelay); p.MaxDelay > 0 && delay > max {
		delay = max
	}
	return time.Duration(delay)
}

// nextDelay picks the wait before the next attempt. Server-suggested
// rate-limit delays are honored verbatim; only the exponential
// backoff gets jittered.
func (p Policy) nextDelay(attempt int, verdict Classification) time.Duration {
	if verdict.Class == ClassRateLimit && verdict.SuggestedDelay > 0 {
		return verdict.SuggestedDelay
	}
	delay := p.Delay(attempt)
	if p.Jitter {
		delay = time.Duration(float64(delay) * (0.5 + rand.Float64()*0.5))
	}
	return delay
}

// Do runs fn, retrying per the policy and classifier. The classifier
// defaults to DefaultClassifier when nil. Fatal failures and the last
// failure after MaxRetries extra attempts are returned to the caller.
// Context cancellation interrupts backoff sleeps.
func (p Policy) Do(ctx context.Context, classify Classifier, fn func() error) error {
	if classify == nil {
		classify = DefaultClassifier
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		verdict := classify(lastErr)
		if verdict.Class == ClassFatal || attempt >= p.MaxRetries {
			return lastErr
		}

		select {
		case <-time.After(p.nextDelay(attempt, verdict)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
