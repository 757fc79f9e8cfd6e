// utils/recovery_attempts.go
package utils

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrTooManyAttempts is returned once an identifier exhausts its hourly
// password-recovery budget.
var ErrTooManyAttempts = errors.New("too many recovery attempts")

// ValidateRecoveryAttempts counts recovery attempts per identifier in Redis,
// limited to 5 per hour. The one-time code is six digits, so an unbounded
// attempt rate would make it brute-forceable.
func ValidateRecoveryAttempts(ctx context.Context, rdb *redis.Client, identifier string) error {
	key := "recovery_attempts:" + identifier

	attempts, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return err
	}

	// Set expiry if first attempt
	if attempts == 1 {
		rdb.Expire(ctx, key, 1*time.Hour)
	}

	if attempts > 5 {
		return ErrTooManyAttempts
	}

	return nil
}
