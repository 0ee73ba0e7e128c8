package telegram

import (
	"crypto/subtle"
	"fmt"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// SecretHeader carries the secret registered with setWebhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// securityValidator checks the webhook secret and throttles chats.
type securityValidator struct {
	secret      string
	rateLimiter *rateLimiter
}

func newSecurityValidator(secret string, requestsPerMin int) *securityValidator {
	v := &securityValidator{secret: secret}
	if requestsPerMin > 0 {
		v.rateLimiter = newRateLimiter(requestsPerMin)
	}
	return v
}

// ValidateSecret compares the header value in constant time. No configured
// secret accepts everything.
func (v *securityValidator) ValidateSecret(token string) error {
	if v.secret == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(v.secret)) != 1 {
		return fmt.Errorf("invalid webhook secret")
	}
	return nil
}

// CheckRateLimit enforces the per-chat message rate.
func (v *securityValidator) CheckRateLimit(chatID int64) error {
	if v.rateLimiter == nil {
		return nil
	}
	return v.rateLimiter.Allow(strconv.FormatInt(chatID, 10))
}

// rateLimiter keeps one token bucket per chat; idle chats expire.
type rateLimiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func newRateLimiter(requestsPerMin int) *rateLimiter {
	burst := requestsPerMin / 10
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](
			10000,
			nil,
			time.Minute*5,
		),
		rate:  rate.Limit(float64(requestsPerMin) / 60.0),
		burst: burst,
	}
}

func (rl *rateLimiter) Allow(key string) error {
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}

	if !limiter.Allow() {
		return fmt.Errorf("rate limit exceeded for chat %s", key)
	}
	return nil
}
