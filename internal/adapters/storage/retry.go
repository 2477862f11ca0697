package storage

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryConfig configures exponential backoff for storage calls
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	Jitter        float64 // fraction of the delay added at random, 0 disables
}

// DefaultRetryConfig is used when publishing archives
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  200 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        0.1,
	}
}

// backoff is the wait after the given failed attempt, starting at 1
func (c *RetryConfig) backoff(attempt int) time.Duration {
	d := math.Min(
		float64(c.InitialDelay)*math.Pow(c.BackoffFactor, float64(attempt-1)),
		float64(c.MaxDelay),
	)
	if c.Jitter > 0 {
		d += rand.Float64() * c.Jitter * d
	}
	return time.Duration(d)
}

// WithRetry calls op until it succeeds, returns a non-retryable error or
// runs out of attempts. The last error is returned.
func WithRetry(ctx context.Context, config *RetryConfig, op func(ctx context.Context) error) error {
	_, err := retry(ctx, config, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

func retry[T any](ctx context.Context, config *RetryConfig, call func(ctx context.Context) (T, error)) (T, error) {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var (
		result T
		err    error
	)
	for attempt := 1; ; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}

		result, err = call(ctx)
		if err == nil || attempt >= config.MaxAttempts || !IsRetryable(err) {
			return result, err
		}

		delay := config.backoff(attempt)
		logrus.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt,
			"delay":   delay.String(),
		}).Warn("Retrying storage operation")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, ctx.Err()
		case <-timer.C:
		}
	}
}

// RetryableFileStorage retries transient failures of the wrapped storage
type RetryableFileStorage struct {
	next   FileStorage
	config *RetryConfig
}

// NewRetryableFileStorage wraps next. A nil config uses DefaultRetryConfig.
func NewRetryableFileStorage(next FileStorage, config *RetryConfig) *RetryableFileStorage {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &RetryableFileStorage{next: next, config: config}
}

func (r *RetryableFileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	return WithRetry(ctx, r.config, func(ctx context.Context) error {
		return r.next.Store(ctx, key, data, opts)
	})
}

func (r *RetryableFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	return retry(ctx, r.config, func(ctx context.Context) (bool, error) {
		return r.next.Exists(ctx, key)
	})
}

func (r *RetryableFileStorage) GetMetadata(ctx context.Context, key string) (*FileMetadata, error) {
	return retry(ctx, r.config, func(ctx context.Context) (*FileMetadata, error) {
		return r.next.GetMetadata(ctx, key)
	})
}

func (r *RetryableFileStorage) List(ctx context.Context, opts *ListOptions) (*ListResult, error) {
	return retry(ctx, r.config, func(ctx context.Context) (*ListResult, error) {
		return r.next.List(ctx, opts)
	})
}

func (r *RetryableFileStorage) Delete(ctx context.Context, key string) error {
	return WithRetry(ctx, r.config, func(ctx context.Context) error {
		return r.next.Delete(ctx, key)
	})
}

func (r *RetryableFileStorage) Close() error {
	return r.next.Close()
}
