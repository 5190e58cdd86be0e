package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequestIDMiddleware_GenerateID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware(zap.NewNop()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": GetRequestID(c)})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	responseID := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, responseID)

	_, err := uuid.Parse(responseID)
	assert.NoError(t, err)
}

func TestRequestIDMiddleware_UseProvidedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware(zap.NewNop()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": GetRequestID(c)})
	})

	providedID := uuid.New().String()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, providedID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, providedID, w.Header().Get(RequestIDHeader))
}

func TestIdempotencyMiddleware_DuplicateWriteReplaysResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewInMemoryRequestIDStore()
	requestID := uuid.New().String()

	response := []byte(`{"message":"success"}`)
	err := store.Store(context.Background(), requestID, http.StatusOK, response, 5*time.Minute)
	assert.NoError(t, err)

	var handlerCalls int
	router := gin.New()
	router.Use(IdempotencyMiddleware(store, zap.NewNop(), 5*time.Minute))
	router.POST("/test", func(c *gin.Context) {
		handlerCalls++
		c.JSON(http.StatusOK, gin.H{"message": "fresh"})
	})

	req := httptest.NewRequest("POST", "/test", nil)
	req.Header.Set(RequestIDHeader, requestID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"success"}`, w.Body.String())
	assert.Zero(t, handlerCalls)
}

func TestIdempotencyMiddleware_FirstWriteStoresResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewInMemoryRequestIDStore()
	requestID := uuid.New().String()

	router := gin.New()
	router.Use(IdempotencyMiddleware(store, zap.NewNop(), 5*time.Minute))
	router.POST("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "created"})
	})

	req := httptest.NewRequest("POST", "/test", nil)
	req.Header.Set(RequestIDHeader, requestID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	status, stored, err := store.Get(context.Background(), requestID)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"created"}`, string(stored))
}

func TestIdempotencyMiddleware_ReplayKeepsOriginalStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewInMemoryRequestIDStore()
	requestID := uuid.New().String()

	var handlerCalls int
	router := gin.New()
	router.Use(IdempotencyMiddleware(store, zap.NewNop(), 5*time.Minute))
	router.POST("/test", func(c *gin.Context) {
		handlerCalls++
		c.JSON(http.StatusCreated, gin.H{"id": "RX-12345678"})
	})

	first := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/test", nil)
	req.Header.Set(RequestIDHeader, requestID)
	router.ServeHTTP(first, req)
	assert.Equal(t, http.StatusCreated, first.Code)

	retry := httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/test", nil)
	req.Header.Set(RequestIDHeader, requestID)
	router.ServeHTTP(retry, req)

	assert.Equal(t, http.StatusCreated, retry.Code)
	assert.JSONEq(t, first.Body.String(), retry.Body.String())
	assert.Equal(t, 1, handlerCalls)
}

func TestIdempotencyMiddleware_ReadsPassThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewInMemoryRequestIDStore()
	requestID := uuid.New().String()

	var handlerCalls int
	router := gin.New()
	router.Use(IdempotencyMiddleware(store, zap.NewNop(), 5*time.Minute))
	router.GET("/test", func(c *gin.Context) {
		handlerCalls++
		c.JSON(http.StatusOK, gin.H{"n": handlerCalls})
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, requestID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 2, handlerCalls)
}
