package scrapeproxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-api-key", WithBaseURL(srv.URL))
}

func TestFetch_QueryParams(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "test-api-key", q.Get("api_key"))
		assert.Equal(t, "https://marketplace.example/search?q=lego", q.Get("url"))
		assert.Equal(t, "true", q.Get("render"))
		assert.Equal(t, "us", q.Get("country_code"))
		assert.Equal(t, "true", q.Get("premium"))
		assert.Equal(t, "sess-42", q.Get("session_number"))
		assert.Equal(t, "true", q.Get("keep_headers"))
		assert.Equal(t, "desktop", q.Get("device_type"))
		assert.Equal(t, "TestAgent/1.0", r.Header.Get("User-Agent"))

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>listings</html>"))
	})

	resp, err := c.Fetch(context.Background(), Request{
		URL:         "https://marketplace.example/search?q=lego",
		Render:      true,
		CountryCode: "us",
		Premium:     true,
		SessionID:   "sess-42",
		UserAgent:   "TestAgent/1.0",
		KeepHeaders: true,
		DeviceType:  "desktop",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<html>listings</html>", resp.Body)
}

func TestFetch_OptionalParamsOmitted(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "false", q.Get("render"))
		assert.False(t, q.Has("premium"))
		assert.False(t, q.Has("country_code"))
		assert.False(t, q.Has("session_number"))
		w.Write([]byte("ok"))
	})

	_, err := c.Fetch(context.Background(), Request{URL: "https://example.com"})
	require.NoError(t, err)
}

func TestFetch_APIError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("invalid api key"))
	})

	_, err := c.Fetch(context.Background(), Request{URL: "https://example.com"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "invalid api key")
}

func TestFetch_ContextCancelled(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Fetch(ctx, Request{URL: "https://example.com"})
	require.Error(t, err)
}
