package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAttemptStore keeps counters in memory with lazy expiry, mirroring the
// SETNX/INCR/TTL subset the limiter relies on.
type fakeAttemptStore struct {
	counts    map[string]int64
	deadlines map[string]time.Time
	failWith  error
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{
		counts:    map[string]int64{},
		deadlines: map[string]time.Time{},
	}
}

func (f *fakeAttemptStore) reap(key string) {
	if deadline, ok := f.deadlines[key]; ok && time.Now().After(deadline) {
		delete(f.counts, key)
		delete(f.deadlines, key)
	}
}

func (f *fakeAttemptStore) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	if f.failWith != nil {
		return redis.NewBoolResult(false, f.failWith)
	}
	f.reap(key)
	if _, ok := f.deadlines[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.counts[key] = 0
	f.deadlines[key] = time.Now().Add(expiration)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeAttemptStore) Incr(ctx context.Context, key string) *redis.IntCmd {
	if f.failWith != nil {
		return redis.NewIntResult(0, f.failWith)
	}
	f.reap(key)
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeAttemptStore) TTL(ctx context.Context, key string) *redis.DurationCmd {
	if f.failWith != nil {
		return redis.NewDurationResult(0, f.failWith)
	}
	return redis.NewDurationResult(time.Until(f.deadlines[key]), nil)
}

func newLimitedApp(store AttemptStore) *fiber.App {
	app := fiber.New()
	app.Post("/forgot", ForgotPasswordRateLimit(store), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})
	return app
}

func hit(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/forgot", nil), -1)
	require.NoError(t, err)
	return resp
}

func TestForgotPasswordRateLimit(t *testing.T) {
	t.Run("sixth request in the window gets 429", func(t *testing.T) {
		store := newFakeAttemptStore()
		app := newLimitedApp(store)

		for i := 0; i < forgotPasswordMaxAttempts; i++ {
			resp := hit(t, app)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		}

		resp := hit(t, app)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

		retryAfter := resp.Header.Get("Retry-After")
		require.NotEmpty(t, retryAfter)
		assert.NotEqual(t, "0", retryAfter)
	})

	t.Run("counter expires with the window", func(t *testing.T) {
		store := newFakeAttemptStore()
		app := newLimitedApp(store)

		for i := 0; i < forgotPasswordMaxAttempts+1; i++ {
			hit(t, app)
		}
		resp := hit(t, app)
		require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

		// Window elapses.
		for key := range store.deadlines {
			store.deadlines[key] = time.Now().Add(-time.Second)
		}

		resp = hit(t, app)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("counter key always carries the window as TTL", func(t *testing.T) {
		store := newFakeAttemptStore()
		app := newLimitedApp(store)
		hit(t, app)

		require.Len(t, store.deadlines, 1)
		for key, deadline := range store.deadlines {
			assert.WithinDuration(t, time.Now().Add(forgotPasswordWindow), deadline, 5*time.Second, key)
		}
	})

	t.Run("unreachable store fails open", func(t *testing.T) {
		store := newFakeAttemptStore()
		store.failWith = errors.New("connection refused")
		app := newLimitedApp(store)

		for i := 0; i < forgotPasswordMaxAttempts*2; i++ {
			resp := hit(t, app)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		}
	})
}
