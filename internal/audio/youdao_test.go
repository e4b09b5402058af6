package audio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceURL(t *testing.T) {
	c := NewClient(t.TempDir())

	assert.Equal(t, "http://dict.youdao.com/dictvoice?type=0&audio=hello", c.SourceURL("hello", AccentUS))
	assert.Equal(t, "http://dict.youdao.com/dictvoice?type=1&audio=hello", c.SourceURL("hello", AccentUK))
	assert.Equal(t, "http://dict.youdao.com/dictvoice?type=0&audio=ice+cream", c.SourceURL("ice cream", AccentUS))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "hello_us.mp3", FileName("Hello", AccentUS))
	assert.Equal(t, "ice_cream_uk.mp3", FileName(" Ice Cream ", AccentUK))
}

func TestValidAccent(t *testing.T) {
	assert.True(t, ValidAccent(AccentUS))
	assert.True(t, ValidAccent(AccentUK))
	assert.False(t, ValidAccent("au"))
	assert.False(t, ValidAccent(""))
}

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("type"))
		assert.Equal(t, "hello", r.URL.Query().Get("audio"))
		w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	c := NewClient(dir)
	c.baseURL = server.URL
	c.rateLimiter = newRateLimiter(0)

	url, err := c.Download(context.Background(), "Hello", AccentUS)
	require.NoError(t, err)
	assert.Equal(t, "/audio/hello_us.mp3", url)

	data, err := os.ReadFile(filepath.Join(dir, "hello_us.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(data))

	t.Run("existing file is reused", func(t *testing.T) {
		server.Close()
		url, err := c.Download(context.Background(), "hello", AccentUS)
		require.NoError(t, err)
		assert.Equal(t, "/audio/hello_us.mp3", url)
	})

	t.Run("invalid accent", func(t *testing.T) {
		_, err := c.Download(context.Background(), "hello", "au")
		assert.Error(t, err)
	})

	t.Run("empty word", func(t *testing.T) {
		_, err := c.Download(context.Background(), "  ", AccentUS)
		assert.Error(t, err)
	})
}

func TestDownload_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(t.TempDir())
	c.baseURL = server.URL
	c.rateLimiter = newRateLimiter(time.Millisecond)

	_, err := c.Download(context.Background(), "hello", AccentUS)
	assert.Error(t, err)
}
