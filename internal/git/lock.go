package git

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LockRetryConfig controls retries while another git process holds index.lock.
type LockRetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration
	// MaxDelay caps the backoff.
	MaxDelay time.Duration
	// Multiplier grows the delay after each attempt.
	Multiplier float64
}

// DefaultLockRetryConfig returns short delays; editors and IDE git
// integrations usually release the lock within a second.
func DefaultLockRetryConfig() LockRetryConfig {
	return LockRetryConfig{
		MaxAttempts:  5,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
	}
}

//nolint:gochecknoglobals // immutable match list
var lockErrorPatterns = []string{
	"index.lock",
	"unable to create '",
	"another git process seems to be running",
}

// isLockError reports whether err is a git failure caused by a held lock file.
func isLockError(err error) bool {
	var cmdErr *CommandError
	if !stderrors.As(err, &cmdErr) {
		return false
	}
	lower := strings.ToLower(cmdErr.Stderr)
	for _, p := range lockErrorPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// runWithLockRetry runs op until it succeeds, fails for a reason other
// than lock contention, or attempts run out. The last error is returned.
func runWithLockRetry(ctx context.Context, cfg LockRetryConfig, logger zerolog.Logger, op func(context.Context) error) error {
	attempts := max(cfg.MaxAttempts, 1)
	delay := cfg.InitialDelay

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		err = op(ctx)
		if err == nil || !isLockError(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		logger.Debug().
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Dur("delay", delay).
			Err(err).
			Msg("git index locked, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	logger.Warn().Int("attempts", attempts).Err(err).Msg("git index still locked, giving up")
	return err
}
