package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type loginAttemptTracker struct {
	attempts     map[string]*attemptInfo
	mu           sync.RWMutex
	cleanupEvery time.Duration
}

type attemptInfo struct {
	Count       int
	LastAttempt time.Time
	Blocked     bool
}

func newLoginAttemptTracker() *loginAttemptTracker {
	tracker := &loginAttemptTracker{
		attempts:     make(map[string]*attemptInfo),
		cleanupEvery: 5 * time.Minute,
	}

	go tracker.startCleanup()

	return tracker
}

func (t *loginAttemptTracker) startCleanup() {
	ticker := time.NewTicker(t.cleanupEvery)
	defer ticker.Stop()

	for range ticker.C {
		t.cleanOldEntries()
	}
}

func (t *loginAttemptTracker) cleanOldEntries() {
	t.mu.Lock()
	defer t.mu.Unlock()

	expiry := time.Now().Add(-30 * time.Second)
	for ip, info := range t.attempts {
		if info.LastAttempt.Before(expiry) {
			delete(t.attempts, ip)
		}
	}
}

func (t *loginAttemptTracker) RecordAttempt(ip string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	info, exists := t.attempts[ip]
	if !exists {
		info = &attemptInfo{}
		t.attempts[ip] = info
	}

	info.Count++
	info.LastAttempt = time.Now()

	if info.Count > 5 {
		info.Blocked = true
	}
}

func (t *loginAttemptTracker) IsBlocked(ip string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	info, exists := t.attempts[ip]
	if !exists {
		return false
	}

	return info.Blocked
}

type RequestMiddleware struct {
	logger         *zap.Logger
	attemptTracker *loginAttemptTracker
}

func NewRequestMiddleware(logger *zap.Logger) *RequestMiddleware {
	return &RequestMiddleware{
		logger:         logger,
		attemptTracker: newLoginAttemptTracker(),
	}
}

// ProcessRequest tags every request with an id and logs its lifecycle.
func (rm *RequestMiddleware) ProcessRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		start := time.Now()
		rm.logger.Info("Request started",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()))
		c.Next()
		rm.logger.Info("Request completed",
			zap.String("request_id", requestID),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.Int("size", c.Writer.Size()))
	}
}

// LoginAttemptMiddleware throttles repeated authority login attempts per IP.
func (rm *RequestMiddleware) LoginAttemptMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "POST" && c.FullPath() == "/api/auth/authority/login" {
			clientIP := c.ClientIP()
			rm.attemptTracker.RecordAttempt(clientIP)
			if rm.attemptTracker.IsBlocked(clientIP) {
				rm.logger.Warn("Blocking login due to repeated attempts",
					zap.String("client_ip", clientIP))
				c.AbortWithStatusJSON(429, gin.H{"error": "Too many login attempts"})
				return
			}
		}
		c.Next()
	}
}

func (rm *RequestMiddleware) RecoverPanic() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				rm.logger.Error("Panic recovered",
					zap.String("request_id", c.GetString("request_id")),
					zap.Any("error", err),
					zap.Stack("stack"))
				c.AbortWithStatusJSON(500, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
