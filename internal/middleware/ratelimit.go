package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/reviewerdesk/pkg/errors"
	"github.com/charlesng35/reviewerdesk/pkg/response"
)

var errTooManyRequests = errors.New("RATE_LIMITED", "Too many requests", http.StatusTooManyRequests)

// RateLimit limits requests per (client IP, route) within a fixed window. It guards the
// public token endpoints against guessing.
func RateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	limiter := newWindowLimiter(time.Now)

	return func(c *gin.Context) {
		if maxRequests <= 0 || window <= 0 {
			c.Next()
			return
		}

		count, resetIn := limiter.increment(c.ClientIP()+"|"+c.FullPath(), window)

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, maxRequests-count)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(resetIn.Seconds())))

		if count > maxRequests {
			response.Error(c, errTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}

type windowCounter struct {
	count     int
	windowEnd time.Time
}

// windowLimiter keeps process-local counters; expired windows are pruned on access.
type windowLimiter struct {
	mu        sync.Mutex
	data      map[string]*windowCounter
	clock     func() time.Time
	lastPrune time.Time
}

func newWindowLimiter(clock func() time.Time) *windowLimiter {
	return &windowLimiter{data: make(map[string]*windowCounter), clock: clock}
}

func (l *windowLimiter) increment(key string, window time.Duration) (int, time.Duration) {
	now := l.clock()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPrune) > window {
		for k, counter := range l.data {
			if now.After(counter.windowEnd) {
				delete(l.data, k)
			}
		}
		l.lastPrune = now
	}

	counter, ok := l.data[key]
	if !ok || now.After(counter.windowEnd) {
		counter = &windowCounter{windowEnd: now.Add(window)}
		l.data[key] = counter
	}
	counter.count++

	return counter.count, counter.windowEnd.Sub(now)
}
