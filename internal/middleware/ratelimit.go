package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	forgotPasswordMaxAttempts = 5
	forgotPasswordWindow      = time.Hour
)

// AttemptStore is the slice of the Redis API the limiter uses. Tests
// substitute a fake; *redis.Client satisfies it as is.
type AttemptStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// ForgotPasswordRateLimit throttles password-reset requests per client IP to
// keep the mailer from being used for spam. SETNX creates the counter with
// the window already attached as its TTL, so the key can never outlive the
// window even if the process dies before the increment. An unreachable store
// fails open rather than locking everyone out of the reset flow.
func ForgotPasswordRateLimit(store AttemptStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := "forgot_attempts:" + c.IP()

		if err := store.SetNX(c.Context(), key, 0, forgotPasswordWindow).Err(); err != nil {
			return c.Next()
		}
		attempts, err := store.Incr(c.Context(), key).Result()
		if err != nil {
			return c.Next()
		}

		if attempts > forgotPasswordMaxAttempts {
			if ttl, err := store.TTL(c.Context(), key).Result(); err == nil && ttl > 0 {
				c.Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
			}
			return fiber.NewError(fiber.StatusTooManyRequests,
				"too many password reset requests from this IP, please try again later")
		}

		return c.Next()
	}
}
