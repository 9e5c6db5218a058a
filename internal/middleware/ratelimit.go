package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/urbix/urbix-backend/pkg/utils"
)

const (
	// maxTrackedClients bounds the per-IP limiter map; once reached, idle
	// entries are evicted before new ones are admitted.
	maxTrackedClients = 10000
	clientIdleTTL     = 3 * time.Minute
)

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipRateLimiter struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	clients map[string]*rateLimitClient
}

func newIPRateLimiter(rps rate.Limit, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		rps:     rps,
		burst:   burst,
		clients: make(map[string]*rateLimitClient),
	}
}

func (l *ipRateLimiter) limiterFor(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if client, ok := l.clients[ip]; ok {
		client.lastSeen = now
		return client.limiter
	}

	if len(l.clients) >= maxTrackedClients {
		l.evictIdle(now)
	}

	client := &rateLimitClient{
		limiter:  rate.NewLimiter(l.rps, l.burst),
		lastSeen: now,
	}
	l.clients[ip] = client
	return client.limiter
}

// evictIdle drops clients that have not been seen within clientIdleTTL.
// Callers must hold l.mu.
func (l *ipRateLimiter) evictIdle(now time.Time) {
	cutoff := now.Add(-clientIdleTTL)
	for ip, client := range l.clients {
		if client.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

// RateLimitMiddleware applies a per-client-IP token bucket to the API group.
func RateLimitMiddleware(rps rate.Limit, burst int) gin.HandlerFunc {
	limiter := newIPRateLimiter(rps, burst)

	return func(c *gin.Context) {
		if !limiter.limiterFor(c.ClientIP(), time.Now()).Allow() {
			utils.Fail(c, 429, "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
