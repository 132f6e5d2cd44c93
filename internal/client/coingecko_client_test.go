package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestFeed(t *testing.T, handler http.HandlerFunc) CoinGeckoClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewCoinGeckoClient(srv.URL, "usd", 2*time.Second, zap.NewNop())
}

func TestQueryUSDPrice_Found(t *testing.T) {
	feed := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "celo", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"celo":{"usd":0.53}}`))
	})

	price, found, err := feed.QueryUSDPrice(context.Background(), "celo")
	require.NoError(t, err)
	require.True(t, found)
	assert.InDelta(t, 0.53, price, 1e-9)
}

func TestQueryUSDPrice_MissingEntry(t *testing.T) {
	feed := newTestFeed(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, found, err := feed.QueryUSDPrice(context.Background(), "cusd")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestQueryUSDPrice_MissingVsCurrency(t *testing.T) {
	feed := newTestFeed(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"cusd":{"eur":0.9}}`))
	})

	_, found, err := feed.QueryUSDPrice(context.Background(), "cusd")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestQueryUSDPrice_Non200(t *testing.T) {
	feed := newTestFeed(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, _, err := feed.QueryUSDPrice(context.Background(), "celo")
	require.Error(t, err)
}

func TestQueryUSDPrice_MalformedBody(t *testing.T) {
	feed := newTestFeed(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, _, err := feed.QueryUSDPrice(context.Background(), "celo")
	require.Error(t, err)
}

func TestQueryUSDPrice_EmptyID(t *testing.T) {
	feed := newTestFeed(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, _, err := feed.QueryUSDPrice(context.Background(), "")
	require.Error(t, err)
}
