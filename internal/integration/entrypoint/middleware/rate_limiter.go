package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/infra/metrics"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
)

const (
	// DefaultMaxAttempts is the default number of allowed requests per window.
	DefaultMaxAttempts = 30
	// DefaultWindowDuration is the default time window for rate limiting.
	DefaultWindowDuration = 1 * time.Minute

	redisKeyPrefix = "ratelimit:"
)

// RateLimitStore counts requests per key within fixed windows.
type RateLimitStore interface {
	// Allow records one request for key and reports whether it is within budget.
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimiter provides IP-based rate limiting functionality.
type RateLimiter struct {
	store RateLimitStore
	route string
}

// NewRateLimiter creates a rate limiter over the given store.
// route labels the rejections in metrics.
func NewRateLimiter(store RateLimitStore, route string) *RateLimiter {
	return &RateLimiter{store: store, route: route}
}

// Middleware returns a Gin middleware handler that enforces rate limiting.
// Store failures let the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if clientIP == "" {
			clientIP = c.Request.RemoteAddr
		}

		allowed, err := rl.store.Allow(c.Request.Context(), clientIP)
		if err != nil {
			slog.Warn("Rate limit store unavailable", "error", err)
			c.Next()
			return
		}

		if !allowed {
			metrics.RateLimitedTotal.WithLabelValues(rl.route).Inc()
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many requests. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// rateLimitEntry tracks rate limit data for a single key.
type rateLimitEntry struct {
	attempts  int
	resetTime time.Time
}

// MemoryStore keeps counters in process memory. Expired entries are pruned
// at most once per window while counting.
type MemoryStore struct {
	mu             sync.Mutex
	entries        map[string]*rateLimitEntry
	maxAttempts    int
	windowDuration time.Duration
	nextSweep      time.Time
	now            func() time.Time
}

// NewMemoryStore creates an in-process store.
func NewMemoryStore(maxAttempts int, windowDuration time.Duration) *MemoryStore {
	return &MemoryStore{
		entries:        make(map[string]*rateLimitEntry),
		maxAttempts:    maxAttempts,
		windowDuration: windowDuration,
		now:            time.Now,
	}
}

// Allow implements RateLimitStore.
func (s *MemoryStore) Allow(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !now.Before(s.nextSweep) {
		s.sweep(now)
		s.nextSweep = now.Add(s.windowDuration)
	}

	entry, exists := s.entries[key]
	if !exists || now.After(entry.resetTime) {
		s.entries[key] = &rateLimitEntry{
			attempts:  1,
			resetTime: now.Add(s.windowDuration),
		}
		return true, nil
	}

	if entry.attempts < s.maxAttempts {
		entry.attempts++
		return true, nil
	}

	return false, nil
}

// sweep removes expired entries. The caller holds the lock.
func (s *MemoryStore) sweep(now time.Time) {
	for key, entry := range s.entries {
		if now.After(entry.resetTime) {
			delete(s.entries, key)
		}
	}
}

// RedisStore keeps counters in Redis so that every API replica shares the budget.
type RedisStore struct {
	client         redis.UniversalClient
	maxAttempts    int
	windowDuration time.Duration
}

// NewRedisStore creates a Redis backed store.
func NewRedisStore(client redis.UniversalClient, maxAttempts int, windowDuration time.Duration) *RedisStore {
	return &RedisStore{
		client:         client,
		maxAttempts:    maxAttempts,
		windowDuration: windowDuration,
	}
}

// Allow implements RateLimitStore with a fixed window counter.
func (s *RedisStore) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := redisKeyPrefix + key

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to count request: %w", err)
	}
	if count == 1 {
		// First hit opens the window
		if err := s.client.Expire(ctx, redisKey, s.windowDuration).Err(); err != nil {
			return false, fmt.Errorf("failed to set window expiry: %w", err)
		}
	}

	return count <= int64(s.maxAttempts), nil
}
