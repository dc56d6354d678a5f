package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisLimiter(t *testing.T) (Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return Limiter{Client: client, Prefix: "ryokan:rl:"}, mr
}

func TestLimiterSlidingWindowPerClient(t *testing.T) {
	limiter, mr := newRedisLimiter(t)
	ctx := context.Background()
	window := 2 * time.Second
	max := 2
	key := "quote:203.0.113.7"

	for i := 0; i < max; i++ {
		allowed, remaining, _, err := limiter.Allow(ctx, key, window, max)
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !allowed || remaining != max-(i+1) {
			t.Fatalf("quote %d: allowed=%v remaining=%d", i, allowed, remaining)
		}
	}

	allowed, remaining, _, err := limiter.Allow(ctx, key, window, max)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if allowed || remaining != 0 {
		t.Fatalf("expected third quote rejected, allowed=%v remaining=%d", allowed, remaining)
	}

	if allowed, _, _, _ := limiter.Allow(ctx, "quote:203.0.113.8", window, max); !allowed {
		t.Fatal("another client must have its own window")
	}

	mr.FastForward(window)

	allowed, _, _, err = limiter.Allow(ctx, key, window, max)
	if err != nil {
		t.Fatalf("allow after window: %v", err)
	}
	if !allowed {
		t.Fatal("expected quote after window to be allowed")
	}
}

func TestHandlerWithRedisLimiter(t *testing.T) {
	limiter, _ := newRedisLimiter(t)
	handler := Handler{
		Limiter: limiter,
		Config:  Config{Key: PerClient("quote"), Window: time.Second, Max: 1},
	}
	counted := handler.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", nil)
	rr1 := httptest.NewRecorder()
	counted.ServeHTTP(rr1, req.Clone(req.Context()))
	if rr1.Code != http.StatusOK {
		t.Fatalf("expected first quote allowed, got %d", rr1.Code)
	}

	rr2 := httptest.NewRecorder()
	counted.ServeHTTP(rr2, req.Clone(req.Context()))
	if rr2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on second quote, got %d", rr2.Code)
	}
	if got := rr2.Header().Get("X-RateLimit-Limit"); got != "1" {
		t.Fatalf("unexpected limit header: %q", got)
	}
}

func TestHandlerFailsOpenWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer func() { _ = client.Close() }()

	var reported error
	handler := Handler{
		Limiter: Limiter{Client: client, Prefix: "ryokan:rl:"},
		Config:  Config{Key: PerClient("quote"), Window: time.Second, Max: 1},
		OnError: func(err error) { reported = err },
	}
	counted := handler.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	counted.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/quotes", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected quote to proceed when limiter fails, got %d", rr.Code)
	}
	if reported == nil {
		t.Fatal("expected OnError to receive the redis error")
	}
}
