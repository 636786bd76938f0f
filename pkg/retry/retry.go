// Package retry runs operations with exponential backoff. The server uses it
// to wait for PostgreSQL at startup.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Config defines retry behavior with exponential backoff
type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	JitterFactor float64 // 0.0-1.0, +/- share of the delay added at random
}

// DefaultConfig waits up to roughly half a minute in total: 6 retries starting
// at 500ms, capped at 8s, doubling each time, with 10% jitter.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:   6,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     8 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}
}

func applyJitter(delay time.Duration, jitterFactor float64) time.Duration {
	if jitterFactor <= 0 {
		return delay
	}
	jitter := float64(delay) * jitterFactor * (rand.Float64()*2 - 1)
	return time.Duration(float64(delay) + jitter)
}

// Do executes fn until it succeeds, returns an error shouldRetry rejects, or
// retries run out. A nil shouldRetry retries every error. onRetry, when set,
// is called before each wait. Cancelling ctx stops the wait.
func Do[T any](
	ctx context.Context,
	cfg *Config,
	shouldRetry func(error) bool,
	onRetry func(attempt int, delay time.Duration, err error),
	fn func(context.Context) (T, error),
) (T, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var result T
	var err error
	delay := cfg.InitialDelay

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, err = fn(ctx)
		if err == nil {
			return result, nil
		}
		if shouldRetry != nil && !shouldRetry(err) {
			return result, err
		}
		if attempt == cfg.MaxRetries {
			break
		}

		wait := applyJitter(delay, cfg.JitterFactor)
		if onRetry != nil {
			onRetry(attempt+1, wait, err)
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return result, ctx.Err()
		}
		delay = min(time.Duration(float64(delay)*cfg.Multiplier), cfg.MaxDelay)
	}

	return result, err
}

// transientSQLStates are server conditions that clear up on their own:
// startup and shutdown in progress, too many connections.
var transientSQLStates = map[string]bool{
	"57P03": true, // cannot_connect_now
	"53300": true, // too_many_connections
	"57P01": true, // admin_shutdown
	"08000": true, // connection_exception
	"08006": true, // connection_failure
	"08001": true, // sqlclient_unable_to_establish_sqlconnection
}

// IsTransient reports whether a database connection error is worth retrying.
// Authentication failures and unknown databases are permanent.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return transientSQLStates[pgErr.Code]
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection refused",
		"connection reset",
		"no such host",
		"i/o timeout",
		"the database system is starting up",
		"too many connections",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
