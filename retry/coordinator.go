package retry

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultMaxAttempts is the global cap on attempts per operation,
// counting the initial one.
const DefaultMaxAttempts = 3

// DefaultBaseDelay seeds the exponential backoff schedule.
const DefaultBaseDelay = 1 * time.Second

// Sleeper blocks for the given duration or until the context is done,
// in which case it returns the context's error. Injectable so tests can
// observe the backoff schedule without waiting it out.
type Sleeper func(ctx context.Context, d time.Duration) error

func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Operation is one failure-prone unit of work. It must honor context
// cancellation.
type Operation func(ctx context.Context) error

// Coordinator retries operations according to the classification table,
// with exponential backoff between attempts. Attempt counts live in the
// injected store, keyed by operation identifier, and reset on success.
type Coordinator struct {
	store       AttemptStore
	maxAttempts int
	baseDelay   time.Duration
	sleep       Sleeper
	classify    func(error) Eligibility
}

// Option adjusts coordinator behavior.
type Option func(*Coordinator)

// WithMaxAttempts overrides the global attempt cap.
func WithMaxAttempts(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBaseDelay overrides the backoff seed delay.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.baseDelay = d
		}
	}
}

// WithSleeper replaces the backoff sleep, for tests.
func WithSleeper(s Sleeper) Option {
	return func(c *Coordinator) {
		if s != nil {
			c.sleep = s
		}
	}
}

// WithClassifier replaces the eligibility table, for tests.
func WithClassifier(fn func(error) Eligibility) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.classify = fn
		}
	}
}

// NewCoordinator creates a coordinator over the given attempt store.
func NewCoordinator(store AttemptStore, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:       store,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		sleep:       defaultSleep,
		classify:    Classify,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BackoffDelay returns the delay before retry n (0-based): baseDelay·2ⁿ.
func (c *Coordinator) BackoffDelay(retry int) time.Duration {
	return c.baseDelay << uint(retry)
}

// Do runs the operation under the given identifier, retrying per the
// classification table. On success the attempt counter is reset. On
// exhaustion it returns an *ExhaustedError wrapping the last failure;
// non-retryable failures surface after exactly one attempt with no
// backoff.
func (c *Coordinator) Do(ctx context.Context, operationID string, op Operation) error {
	return c.run(ctx, operationID, op, nil)
}

// DoWithFallback behaves like Do but, on exhaustion, returns a
// *FallbackError carrying the strategy so the caller can reconfigure
// and re-invoke under a fresh identifier.
func (c *Coordinator) DoWithFallback(ctx context.Context, operationID string, strategy Strategy, op Operation) error {
	return c.run(ctx, operationID, op, &strategy)
}

func (c *Coordinator) run(ctx context.Context, operationID string, op Operation, fallback *Strategy) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op(ctx)
		if err == nil {
			c.store.Reset(operationID)
			return nil
		}

		failures := c.store.Increment(operationID)
		elig := c.classify(err)

		logrus.WithFields(logrus.Fields{
			"function":     "run",
			"operation_id": operationID,
			"failures":     failures,
			"retryable":    elig.Retryable,
			"error":        err.Error(),
		}).Warn("Operation attempt failed")

		if !elig.Retryable {
			return err
		}
		if failures >= c.maxAttempts || (elig.MaxRetries >= 0 && failures > elig.MaxRetries) {
			return c.exhaust(operationID, err, fallback)
		}

		delay := c.BackoffDelay(failures - 1)
		logrus.WithFields(logrus.Fields{
			"function":     "run",
			"operation_id": operationID,
			"delay":        delay.String(),
		}).Info("Backing off before retry")

		if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
			return sleepErr
		}
	}
}

func (c *Coordinator) exhaust(operationID string, cause error, fallback *Strategy) error {
	if fallback != nil {
		logrus.WithFields(logrus.Fields{
			"function":     "exhaust",
			"operation_id": operationID,
			"strategy":     fallback.String(),
		}).Warn("Retries exhausted, signaling fallback")
		return &FallbackError{OperationID: operationID, Strategy: *fallback, Err: cause}
	}
	logrus.WithFields(logrus.Fields{
		"function":     "exhaust",
		"operation_id": operationID,
	}).Error("Retries exhausted with no fallback")
	return &ExhaustedError{OperationID: operationID, Err: cause}
}

// ExecuteWithRetry runs a value-returning operation through the
// coordinator, preserving the result of the successful attempt.
func ExecuteWithRetry[T any](ctx context.Context, c *Coordinator, operationID string, op func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := c.Do(ctx, operationID, func(ctx context.Context) error {
		v, opErr := op(ctx)
		if opErr != nil {
			return opErr
		}
		result = v
		return nil
	})
	return result, err
}
