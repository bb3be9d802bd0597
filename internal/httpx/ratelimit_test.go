package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientLimiter_PerClient(t *testing.T) {
	handler := NewClientLimiter(0.001, 1).Middleware(okHandler())

	send := func(addr, forwarded string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
		req.RemoteAddr = addr
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1111", "").Code)
	limited := send("10.0.0.1:2222", "")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code, "same host on another port shares the bucket")
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1111", "").Code)

	assert.Equal(t, http.StatusOK, send("10.0.0.9:1", "203.0.113.7, 10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.8:1", "203.0.113.7").Code)
}

func TestClientLimiter_Sweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewClientLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.Allow("old")
	now = now.Add(10 * time.Minute)
	l.Allow("fresh")

	assert.Equal(t, 1, l.Sweep(5*time.Minute))
	assert.Len(t, l.buckets, 1)
	assert.Contains(t, l.buckets, "fresh")
}
