package wiktionary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyrics-etymology/internal/model"
)

func newTestClient(url string) *Client {
	c := NewClient(url, time.Second)
	c.retryDelay = time.Millisecond
	return c
}

func TestLookupSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "query", q.Get("action"))
		assert.Equal(t, "रंग", q.Get("titles"))
		assert.Equal(t, "extracts", q.Get("prop"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "true", q.Get("explaintext"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":{"pages":{"42":{"pageid":42,"title":"रंग","extract":"Etymology\nFrom Sanskrit रङ्ग."}}}}`))
	}))
	defer srv.Close()

	extract, err := newTestClient(srv.URL).Lookup(context.Background(), "रंग")
	require.NoError(t, err)
	assert.Contains(t, extract, "From Sanskrit")
}

func TestLookupMissingPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"query":{"pages":{"-1":{"title":"zzzq","missing":""}}}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Lookup(context.Background(), "zzzq")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestLookupEmptyExtract(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"query":{"pages":{"7":{"pageid":7,"title":"x","extract":"  "}}}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Lookup(context.Background(), "x")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestLookupRetriesOnServerError(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"query":{"pages":{"1":{"pageid":1,"extract":"text"}}}}`))
	}))
	defer srv.Close()

	extract, err := newTestClient(srv.URL).Lookup(context.Background(), "w")
	require.NoError(t, err)
	assert.Equal(t, "text", extract)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestLookupMalformedBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Lookup(context.Background(), "w")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)
}
