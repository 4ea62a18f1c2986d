package api

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nekogravitycat/partner-booking-backend/internal/auth"
	"github.com/nekogravitycat/partner-booking-backend/internal/pkg/response"
)

// RequestLogger stores logger in the request context for response.Error and
// logs one line per request once it completes.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Set(response.LoggerKey, logger)

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if id := auth.GetCustomerID(c); id != "" {
			fields = append(fields, zap.String("customer_id", id))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

// limiterIdleTTL is how long a client IP may stay quiet before its bucket is dropped.
const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiters holds one token bucket per client IP. Buckets idle for longer
// than idleTTL are swept out at most once per idleTTL.
type ipLimiters struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newIPLimiters(limit rate.Limit, burst int, idleTTL time.Duration, now func() time.Time) *ipLimiters {
	return &ipLimiters{
		visitors:  make(map[string]*visitor),
		limit:     limit,
		burst:     burst,
		idleTTL:   idleTTL,
		lastSweep: now(),
		now:       now,
	}
}

func (s *ipLimiters) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.idleTTL {
		for k, v := range s.visitors {
			if now.Sub(v.lastSeen) >= s.idleTTL {
				delete(s.visitors, k)
			}
		}
		s.lastSweep = now
	}

	v, ok := s.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (s *ipLimiters) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// RateLimit allows each client IP perMinute requests per minute with the
// given burst. Both must be positive.
func RateLimit(perMinute, burst int, logger *zap.Logger) (gin.HandlerFunc, error) {
	if perMinute <= 0 || burst <= 0 {
		return nil, fmt.Errorf("rate limit needs a positive rate and burst, got %d/min burst %d", perMinute, burst)
	}
	store := newIPLimiters(rate.Every(time.Minute/time.Duration(perMinute)), burst, limiterIdleTTL, time.Now)
	return rateLimitHandler(store, logger), nil
}

func rateLimitHandler(store *ipLimiters, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.get(ip).Allow() {
			logger.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorResponse{Error: "too many requests, try again later"})
			return
		}
		c.Next()
	}
}
