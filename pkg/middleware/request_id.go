package middleware

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader is the HTTP header name for request ID
	RequestIDHeader = "X-Request-ID"
	// RequestIDContextKey is the context key for request ID
	RequestIDContextKey = "request_id"
)

// ErrRequestIDNotFound is returned when a request ID has no stored response
var ErrRequestIDNotFound = errors.New("request ID not found")

// RequestIDStore stores responses of processed request IDs so retried
// writes can be answered without re-executing them. The original status
// code is kept alongside the body so a replay answers exactly as the
// first attempt did.
type RequestIDStore interface {
	Store(ctx context.Context, requestID string, status int, response []byte, ttl time.Duration) error
	Get(ctx context.Context, requestID string) (int, []byte, error)
}

// InMemoryRequestIDStore is an in-memory implementation of RequestIDStore
type InMemoryRequestIDStore struct {
	mu      sync.RWMutex
	entries map[string]requestIDEntry
}

type requestIDEntry struct {
	status    int
	response  []byte
	expiresAt time.Time
}

// NewInMemoryRequestIDStore creates a new in-memory request ID store
func NewInMemoryRequestIDStore() *InMemoryRequestIDStore {
	store := &InMemoryRequestIDStore{
		entries: make(map[string]requestIDEntry),
	}
	go store.cleanupExpired()
	return store
}

func (s *InMemoryRequestIDStore) Store(ctx context.Context, requestID string, status int, response []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[requestID] = requestIDEntry{
		status:    status,
		response:  response,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *InMemoryRequestIDStore) Get(ctx context.Context, requestID string) (int, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.entries[requestID]
	if !exists || time.Now().After(entry.expiresAt) {
		return 0, nil, ErrRequestIDNotFound
	}
	return entry.status, entry.response, nil
}

func (s *InMemoryRequestIDStore) cleanupExpired() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for id, entry := range s.entries {
			if now.After(entry.expiresAt) {
				delete(s.entries, id)
			}
		}
		s.mu.Unlock()
	}
}

// RequestIDMiddleware extracts or generates the X-Request-ID header and
// echoes it back on the response.
func RequestIDMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDContextKey, requestID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), RequestIDContextKey, requestID))
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID retrieves the request ID from the Gin context
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDContextKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// IdempotencyMiddleware answers a retried write (same X-Request-ID)
// with the stored response of the first attempt, and records successful
// responses so later retries can be answered the same way. Reads pass
// straight through.
func IdempotencyMiddleware(store RequestIDStore, logger *zap.Logger, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			// Without a client-supplied ID there is nothing to match
			// retries on.
			c.Next()
			return
		}

		if status, cached, err := store.Get(c.Request.Context(), requestID); err == nil && len(cached) > 0 {
			logger.Info("Duplicate request detected, returning stored response",
				zap.String("request_id", requestID),
				zap.Int("status", status),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
			c.Data(status, "application/json", cached)
			c.Abort()
			return
		}

		writer := &responseRecorder{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 && len(writer.body) > 0 {
			if err := store.Store(c.Request.Context(), requestID, c.Writer.Status(), writer.body, ttl); err != nil {
				logger.Warn("Failed to store response for idempotency",
					zap.String("request_id", requestID),
					zap.Error(err),
				)
			}
		}
	}
}

// responseRecorder captures the response body
type responseRecorder struct {
	gin.ResponseWriter
	body []byte
}

func (w *responseRecorder) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}

func (w *responseRecorder) WriteString(s string) (int, error) {
	w.body = append(w.body, []byte(s)...)
	return w.ResponseWriter.WriteString(s)
}
