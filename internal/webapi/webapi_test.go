package webapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	return New(Config{Timeout: 2 * time.Second})
}

func TestGet(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		switch r.URL.Path {
		case "/hop":
			http.Redirect(w, r, "/landed", http.StatusFound)
		case "/landed":
			w.Header().Set("X-Robots-Tag", "noindex")
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := testClient()

	resp, err := c.Get(context.Background(), srv.URL+"/hop")
	require.NoError(t, err)
	assert.True(t, resp.Succeeded())
	assert.Equal(t, srv.URL+"/landed", resp.FinalURL, "final URL should reflect the redirect")
	assert.Equal(t, "noindex", resp.Header.Get("X-Robots-Tag"))
	assert.Equal(t, "Chrome", gotUA, "default browser identity should be sent")

	resp, err = c.Get(context.Background(), srv.URL+"/missing")
	require.NoError(t, err, "a 404 is a response, not an error")
	assert.False(t, resp.Succeeded())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/doc":
			w.Write([]byte(`{"primary": "https://a.example"}`))
		case "/garbage":
			w.Write([]byte(`<html>not json</html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := testClient()

	var doc struct {
		Primary string `json:"primary"`
	}
	require.NoError(t, c.JSON(context.Background(), srv.URL+"/doc", &doc))
	assert.Equal(t, "https://a.example", doc.Primary)

	assert.Error(t, c.JSON(context.Background(), srv.URL+"/garbage", &doc))
	assert.Error(t, c.JSON(context.Background(), srv.URL+"/missing", &doc))
}

func TestExpectedUnreachable(t *testing.T) {
	assert.False(t, ExpectedUnreachable(nil))
	assert.False(t, ExpectedUnreachable(errors.New("boom")))
	assert.True(t, ExpectedUnreachable(context.DeadlineExceeded))
	assert.True(t, ExpectedUnreachable(&net.DNSError{Err: "no such host", IsNotFound: true}))
}

func TestExpectedUnreachableRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = testClient().Get(context.Background(), "http://"+addr)
	require.Error(t, err)
	assert.True(t, ExpectedUnreachable(err), "connection refused should be an expected signature: %v", err)
}

func TestExpectedUnreachableTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(Config{Timeout: 50 * time.Millisecond})
	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, ExpectedUnreachable(err), "client timeout should be an expected signature: %v", err)
}

func TestConfigFromEnv(t *testing.T) {
	for _, name := range []string{"FPSTOOL_HTTP_TIMEOUT", "FPSTOOL_USER_AGENT", "FPSTOOL_CONCURRENCY"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "Chrome", cfg.UserAgent)
	assert.Equal(t, 16, cfg.Concurrency)

	t.Setenv("FPSTOOL_HTTP_TIMEOUT", "3s")
	t.Setenv("FPSTOOL_CONCURRENCY", "4")
	cfg, err = ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 4, cfg.Concurrency)
}
