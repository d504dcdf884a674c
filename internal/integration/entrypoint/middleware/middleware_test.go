package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/expense-tracker/backend/internal/application/adapter"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier struct {
	claims *adapter.TokenClaims
	err    error
}

func (s stubVerifier) Verify(context.Context, string) (*adapter.TokenClaims, error) {
	return s.claims, s.err
}

func authEngine(v adapter.TokenVerifier) *gin.Engine {
	r := gin.New()
	r.GET("/private", NewAuthMiddleware(v).Authenticate(), func(c *gin.Context) {
		subject, _ := GetSubjectFromContext(c)
		c.String(http.StatusOK, subject)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	ok := stubVerifier{claims: &adapter.TokenClaims{Subject: "user-1", Email: "u@example.com"}}

	tests := []struct {
		name     string
		verifier stubVerifier
		header   string
		wantCode int
		wantBody string
	}{
		{name: "valid token", verifier: ok, header: "Bearer abc", wantCode: http.StatusOK, wantBody: "user-1"},
		{name: "missing header", verifier: ok, wantCode: http.StatusUnauthorized, wantBody: string(domainerror.ErrCodeMissingToken)},
		{name: "wrong scheme", verifier: ok, header: "Basic abc", wantCode: http.StatusUnauthorized, wantBody: string(domainerror.ErrCodeInvalidToken)},
		{name: "empty token", verifier: ok, header: "Bearer  ", wantCode: http.StatusUnauthorized, wantBody: string(domainerror.ErrCodeMissingToken)},
		{
			name:     "expired",
			verifier: stubVerifier{err: domainerror.ErrExpiredToken},
			header:   "Bearer abc",
			wantCode: http.StatusUnauthorized,
			wantBody: string(domainerror.ErrCodeExpiredToken),
		},
		{
			name:     "rejected",
			verifier: stubVerifier{err: domainerror.ErrInvalidToken},
			header:   "Bearer abc",
			wantCode: http.StatusUnauthorized,
			wantBody: string(domainerror.ErrCodeInvalidToken),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			authEngine(tt.verifier).ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("expected body to contain %q, got %s", tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestMemoryStore_FixedWindow(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(2, time.Minute)
	store.now = func() time.Time { return now }

	for i, want := range []bool{true, true, false} {
		got, _ := store.Allow(context.Background(), "1.2.3.4")
		if got != want {
			t.Errorf("attempt %d: expected %v, got %v", i+1, want, got)
		}
	}

	if got, _ := store.Allow(context.Background(), "5.6.7.8"); !got {
		t.Error("other keys have their own budget")
	}

	now = now.Add(61 * time.Second)
	if got, _ := store.Allow(context.Background(), "1.2.3.4"); !got {
		t.Error("window should have reset")
	}

	now = now.Add(2 * time.Minute)
	if got, _ := store.Allow(context.Background(), "9.9.9.9"); !got {
		t.Error("new key should be allowed")
	}
	if len(store.entries) != 1 {
		t.Errorf("expected expired entries to be pruned, got %d", len(store.entries))
	}
}

func TestMemoryStore_PrunesExpiredClients(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(5, time.Minute)
	store.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		if _, err := store.Allow(context.Background(), fmt.Sprintf("10.0.0.%d", i)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(store.entries) != 100 {
		t.Fatalf("expected 100 live entries, got %d", len(store.entries))
	}

	// Inside the window nothing is pruned.
	now = now.Add(30 * time.Second)
	_, _ = store.Allow(context.Background(), "10.0.1.1")
	if len(store.entries) != 101 {
		t.Fatalf("expected 101 live entries, got %d", len(store.entries))
	}

	now = now.Add(31 * time.Second)
	_, _ = store.Allow(context.Background(), "10.0.1.2")
	// The 100 first clients expired; 10.0.1.1 is still inside its window.
	if len(store.entries) != 2 {
		t.Errorf("expected 2 live entries after pruning, got %d", len(store.entries))
	}
}

func TestRedisStore_FixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client, 2, time.Minute)
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		got, err := store.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("attempt %d: expected %v, got %v", i+1, want, got)
		}
	}

	if ttl := mr.TTL(redisKeyPrefix + "1.2.3.4"); ttl <= 0 || ttl > time.Minute {
		t.Errorf("expected the window expiry to be set, got %v", ttl)
	}

	mr.FastForward(time.Minute + time.Second)
	if got, _ := store.Allow(ctx, "1.2.3.4"); !got {
		t.Error("window should have reset")
	}
}

type failingStore struct{}

func (failingStore) Allow(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

func TestRateLimiter_Middleware(t *testing.T) {
	serve := func(rl *RateLimiter) int {
		r := gin.New()
		r.POST("/things", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/things", nil))
		return w.Code
	}

	limited := NewRateLimiter(NewMemoryStore(1, time.Minute), "/things")
	if code := serve(limited); code != http.StatusCreated {
		t.Errorf("first request: expected 201, got %d", code)
	}
	if code := serve(limited); code != http.StatusTooManyRequests {
		t.Errorf("second request: expected 429, got %d", code)
	}

	if code := serve(NewRateLimiter(failingStore{}, "/things")); code != http.StatusCreated {
		t.Errorf("store failure should let the request through, got %d", code)
	}
}

func TestErrorLogger(t *testing.T) {
	r := gin.New()
	r.Use(ErrorLogger())
	r.POST("/panic", func(*gin.Context) { panic("boom") })
	r.POST("/echo", func(c *gin.Context) {
		b, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(b))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/panic", strings.NewReader(`{"a":1}`)))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "An internal error occurred") {
		t.Errorf("unexpected body %s", w.Body.String())
	}

	long := strings.Repeat("x", maxBodyPreview+500)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(long)))
	if w.Body.String() != long {
		t.Errorf("handler should see the full body, got %d bytes", w.Body.Len())
	}
}

func TestClientIP(t *testing.T) {
	r := gin.New()
	r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, clientIP(c)) })

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Body.String() != "203.0.113.7" {
		t.Errorf("expected first forwarded hop, got %q", w.Body.String())
	}
}
