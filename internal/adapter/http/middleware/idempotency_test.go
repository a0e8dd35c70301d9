package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkotenko/bankcore/internal/usecase"
)

type idempotencyStoreStub struct {
	checkAndSetFn func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	updateFn      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func (s *idempotencyStoreStub) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if s.checkAndSetFn != nil {
		return s.checkAndSetFn(ctx, key, response, ttl)
	}
	return false, nil, nil
}

func (s *idempotencyStoreStub) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, key, response, ttl)
	}
	return nil
}

func postWithKey(key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers/new", bytes.NewBufferString(`{}`))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	return req
}

func TestIdempotencyMiddlewareSkipsReads(t *testing.T) {
	mw := NewIdempotencyMiddleware(&idempotencyStoreStub{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			t.Fatalf("store should not be consulted for GET")
			return false, nil, nil
		},
	})

	rr := httptest.NewRecorder()
	called := false
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil))

	if !called {
		t.Fatalf("expected next handler to run")
	}
}

func TestIdempotencyMiddlewareSkipsWhenHeaderAbsent(t *testing.T) {
	mw := NewIdempotencyMiddleware(&idempotencyStoreStub{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			t.Fatalf("store should not be consulted without a key")
			return false, nil, nil
		},
	})

	rr := httptest.NewRecorder()
	called := false
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, postWithKey(""))

	if !called {
		t.Fatalf("expected next handler to run")
	}
}

func TestIdempotencyMiddlewareReplaysCachedResponse(t *testing.T) {
	mw := NewIdempotencyMiddleware(&idempotencyStoreStub{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return true, []byte(`{"id":"txn-cached"}`), nil
		},
	})

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run on replay")
	})).ServeHTTP(rr, postWithKey("transfer-once"))

	if rr.Header().Get("X-Idempotency-Replay") != "true" {
		t.Fatalf("expected replay header")
	}
	if got := rr.Body.String(); got != `{"id":"txn-cached"}` {
		t.Fatalf("unexpected replayed body: %s", got)
	}
}

func TestIdempotencyMiddlewareCachesSuccessfulResponse(t *testing.T) {
	var stored []byte
	var storedTTL time.Duration
	mw := NewIdempotencyMiddleware(&idempotencyStoreStub{
		updateFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) error {
			stored = append([]byte(nil), response...)
			storedTTL = ttl
			return nil
		},
	})

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"txn-new"}`))
	})).ServeHTTP(rr, postWithKey("transfer-fresh"))

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if string(stored) != `{"id":"txn-new"}` {
		t.Fatalf("expected response cached, got %s", stored)
	}
	if storedTTL != usecase.IdempotencyKeyTTL {
		t.Fatalf("expected cache TTL %v, got %v", usecase.IdempotencyKeyTTL, storedTTL)
	}
}

func TestIdempotencyMiddlewareDoesNotCacheFailures(t *testing.T) {
	mw := NewIdempotencyMiddleware(&idempotencyStoreStub{
		updateFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) error {
			t.Fatalf("error responses must not be cached")
			return nil
		},
	})

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})).ServeHTTP(rr, postWithKey("transfer-bad"))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}

func TestIdempotencyMiddlewareFailsClosedOnStoreError(t *testing.T) {
	mw := NewIdempotencyMiddleware(&idempotencyStoreStub{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return false, nil, context.DeadlineExceeded
		},
	})

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run when the store is unavailable")
	})).ServeHTTP(rr, postWithKey("transfer-err"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}
