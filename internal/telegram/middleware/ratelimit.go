package middleware

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	warningInterval = 30 * time.Second
	cleanupInterval = 10 * time.Minute
	idleAfter       = time.Hour
)

var rateLimitWarnings = []string{
	"⚠️ Too many requests. Please wait a moment.",
	"⚠️ Rate limit exceeded. Wait about 30 seconds before trying again.",
	"🛑 You are sending requests too often. Please wait a minute.",
}

// bucket is a token bucket for one sender.
type bucket struct {
	mu            sync.Mutex
	tokens        float64
	lastRefill    time.Time
	warningsSent  int
	lastWarningAt time.Time
}

// take spends a token if one is available. When none is, warn reports
// which warning to send, or -1 when one was sent recently.
func (b *bucket) take(now time.Time, capacity, perSecond float64) (allowed bool, warn int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens = min(capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*perSecond)
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		b.warningsSent = 0
		return true, -1
	}

	if now.Sub(b.lastWarningAt) <= warningInterval {
		return false, -1
	}
	b.lastWarningAt = now
	warn = min(b.warningsSent, len(rateLimitWarnings)-1)
	b.warningsSent++
	return false, warn
}

func (b *bucket) idleSince(now time.Time) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return now.Sub(b.lastRefill)
}

// RateLimiterMiddleware drops updates from senders that exceed their
// per-minute budget. Each sender may burst up to the configured size.
type RateLimiterMiddleware struct {
	mu        sync.Mutex
	buckets   map[int64]*bucket
	capacity  float64
	perSecond float64
	api       Sender
	logger    *zap.Logger
	now       func() time.Time
	stop      chan struct{}
	stopOnce  sync.Once
}

func NewRateLimiterMiddleware(requestsPerMinute, burstSize int, logger *zap.Logger, api Sender) *RateLimiterMiddleware {
	capacity := float64(requestsPerMinute)
	if burstSize > 0 {
		capacity = float64(burstSize)
	}

	rl := &RateLimiterMiddleware{
		buckets:   make(map[int64]*bucket),
		capacity:  capacity,
		perSecond: float64(requestsPerMinute) / 60,
		api:       api,
		logger:    logger,
		now:       time.Now,
		stop:      make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

func (rl *RateLimiterMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next Next) {
	userID, chatID, ok := origin(update)
	if !ok {
		next(ctx, update)
		return
	}

	key := userID
	if key == 0 {
		key = chatID
	}

	allowed, warn := rl.bucketFor(key).take(rl.now(), rl.capacity, rl.perSecond)
	if allowed {
		next(ctx, update)
		return
	}

	ctxzap.Extract(ctx).Warn("rate limit exceeded",
		zap.Int64("user_id", userID),
		zap.Int64("chat_id", chatID),
	)

	if warn < 0 {
		return
	}
	if _, err := rl.api.Send(tgbotapi.NewMessage(chatID, rateLimitWarnings[warn])); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

func (rl *RateLimiterMiddleware) bucketFor(key int64) *bucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[key]
	if !exists {
		b = &bucket{tokens: rl.capacity, lastRefill: rl.now()}
		rl.buckets[key] = b
	}
	return b
}

func (rl *RateLimiterMiddleware) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// cleanup forgets senders idle for longer than an hour.
func (rl *RateLimiterMiddleware) cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, b := range rl.buckets {
		if b.idleSince(now) > idleAfter {
			delete(rl.buckets, key)
		}
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiterMiddleware) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}
