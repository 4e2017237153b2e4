package middleware

import (
	"crypto/sha256"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/homebuddy/homebuddy-api/internal/http/response"
	"github.com/homebuddy/homebuddy-api/pkg/logger"
)

// RateLimitConfig defines rate limiting parameters
type RateLimitConfig struct {
	Requests int                          // Max requests per window
	Window   time.Duration                // Time window duration
	KeyFunc  func(r *http.Request) string // Function to generate the rate limit key
}

// RateLimiter throttles public endpoints (login, contact forms) using Redis
// counters. A nil client or a Redis failure fails open.
type RateLimiter struct {
	client *redis.Client
	config RateLimitConfig
}

func NewRateLimiter(client *redis.Client, config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = ClientIPKey
	}
	return &RateLimiter{
		client: client,
		config: config,
	}
}

// ClientIPKey keys rate limits by client IP and request path.
func ClientIPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return host + ":" + r.URL.Path
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.client == nil {
				next.ServeHTTP(w, r)
				return
			}

			if !rl.allow(r) {
				response.RateLimit(w, "Too many requests. Try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) allow(r *http.Request) bool {
	ctx := r.Context()

	// Hash the key for privacy
	hasher := sha256.New()
	hasher.Write([]byte(rl.config.KeyFunc(r)))
	key := fmt.Sprintf("ratelimit:%x", hasher.Sum(nil))

	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		logger.WarnContext(ctx, "rate limiter unavailable, allowing request", "error", err)
		return true
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, key, rl.config.Window).Err(); err != nil {
			logger.WarnContext(ctx, "failed to set rate limit expiry", "error", err)
		}
	}
	return count <= int64(rl.config.Requests)
}
