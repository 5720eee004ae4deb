package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetchSuccess(t *testing.T) {
	srv, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"cards":{}}`))
	})

	f := New(Options{URL: srv.URL, Retries: 2, RetryDelay: time.Millisecond})
	body, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"cards":{}}`, string(body))
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	f := New(Options{URL: srv.URL, Retries: 3, RetryDelay: time.Millisecond})
	body, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchGivesUp(t *testing.T) {
	srv, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})

	f := New(Options{URL: srv.URL, Retries: 2, RetryDelay: time.Millisecond})
	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
}

func TestFetchBreakerStaysOpen(t *testing.T) {
	srv, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	})

	f := New(Options{URL: srv.URL, Retries: 1, RetryDelay: time.Millisecond})
	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	require.Equal(t, int32(2), atomic.LoadInt32(hits))

	// The breaker tripped on the first call, so the second one never reaches
	// the server.
	_, err = f.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestFetchRejectsInvalidJSON(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	f := New(Options{URL: srv.URL, Retries: 0})
	_, err := f.Fetch(context.Background())
	assert.True(t, errors.Is(err, ErrInvalidJSON))
}

func TestFetchHonoursContext(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow", http.StatusServiceUnavailable)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := New(Options{URL: srv.URL, Retries: 5, RetryDelay: time.Hour})
	_, err := f.Fetch(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewDefaults(t *testing.T) {
	f := New(Options{})
	assert.Equal(t, DefaultURL, f.URL())
	assert.Equal(t, 30*time.Second, f.client.Timeout)
}
