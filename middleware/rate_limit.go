package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type bucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

// IPRateLimiter hands out one token bucket per client IP and forgets IPs
// that stay quiet for longer than its idle window.
type IPRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	every rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// NewIPRateLimiter admits perMinute requests a minute per IP, up to burst at
// once. A background sweep drops buckets idle for longer than idle until Stop
// is called.
func NewIPRateLimiter(perMinute, burst int, idle time.Duration) *IPRateLimiter {
	rl := &IPRateLimiter{
		buckets: map[string]*bucket{},
		every:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		idle:    idle,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go rl.sweepEvery(time.Minute)
	return rl
}

// Stop ends the background sweep. The limiter keeps admitting requests.
func (rl *IPRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *IPRateLimiter) sweepEvery(d time.Duration) {
	ticker := time.NewTicker(d)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.done:
			return
		}
	}
}

func (rl *IPRateLimiter) bucketFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.every, rl.burst)}
		rl.buckets[ip] = b
	}
	b.seen = rl.now()
	return b.limiter
}

// Allow spends one token from ip's bucket.
func (rl *IPRateLimiter) Allow(ip string) bool {
	return rl.bucketFor(ip).Allow()
}

// retryAfter is the wait until ip's bucket holds a token again.
func (rl *IPRateLimiter) retryAfter(ip string) time.Duration {
	r := rl.bucketFor(ip).Reserve()
	defer r.Cancel()
	if !r.OK() {
		return rl.idle
	}
	return r.Delay()
}

// Tracked is the number of IPs currently holding a bucket.
func (rl *IPRateLimiter) Tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

func (rl *IPRateLimiter) sweep() {
	cutoff := rl.now().Add(-rl.idle)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, b := range rl.buckets {
		if b.seen.Before(cutoff) {
			delete(rl.buckets, ip)
		}
	}
}

// RateLimitByIP rejects requests over rl's budget with 429 and a Retry-After
// header in whole seconds.
func RateLimitByIP(rl *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if rl.Allow(ip) {
			c.Next()
			return
		}
		secs := int(math.Ceil(rl.retryAfter(ip).Seconds()))
		if secs < 1 {
			secs = 1
		}
		c.Header("Retry-After", strconv.Itoa(secs))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"message": "Too Many Requests",
			"hint":    "Please try again in a few minutes.",
		})
	}
}

// FormsCreateLimiter guards POST /forms. Tests swap it before building routes
// and stop the replaced limiter.
var FormsCreateLimiter = NewIPRateLimiter(10, 5, 5*time.Minute)

func RateLimitFormsCreate() gin.HandlerFunc {
	return RateLimitByIP(FormsCreateLimiter)
}
