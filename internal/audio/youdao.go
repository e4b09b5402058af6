// Package audio fetches word pronunciation audio from the Youdao dictvoice
// service and stores it on disk for static serving.
package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Accents supported by the dictvoice endpoint.
const (
	AccentUS = "us"
	AccentUK = "uk"
)

// ValidAccent reports whether accent is one of us or uk.
func ValidAccent(accent string) bool {
	return accent == AccentUS || accent == AccentUK
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// Client downloads pronunciation mp3 files into a local directory.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	dir         string
	rateLimiter *rateLimiter
}

// NewClient creates a Youdao audio client writing files into dir.
func NewClient(dir string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:     "http://dict.youdao.com/dictvoice",
		dir:         dir,
		rateLimiter: newRateLimiter(300 * time.Millisecond),
	}
}

// SourceURL builds the dictvoice URL for a word. Type 0 is the US voice,
// type 1 the UK voice.
func (c *Client) SourceURL(word, accent string) string {
	voiceType := "0"
	if accent == AccentUK {
		voiceType = "1"
	}
	return fmt.Sprintf("%s?type=%s&audio=%s", c.baseURL, voiceType, url.QueryEscape(word))
}

// FileName is the on-disk name for a word's pronunciation file.
func FileName(word, accent string) string {
	safe := strings.ReplaceAll(strings.TrimSpace(strings.ToLower(word)), " ", "_")
	return fmt.Sprintf("%s_%s.mp3", safe, accent)
}

// Download fetches the pronunciation mp3 and returns the public /audio path
// it was stored under. Existing files are reused without refetching.
func (c *Client) Download(ctx context.Context, word, accent string) (string, error) {
	word = strings.TrimSpace(strings.ToLower(word))
	if word == "" {
		return "", fmt.Errorf("empty word")
	}
	if !ValidAccent(accent) {
		return "", fmt.Errorf("invalid accent: %s", accent)
	}

	fileName := FileName(word, accent)
	localPath := filepath.Join(c.dir, fileName)
	publicPath := "/audio/" + fileName
	if _, err := os.Stat(localPath); err == nil {
		return publicPath, nil
	}

	c.rateLimiter.wait()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SourceURL(word, accent), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, fileName+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write audio file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), localPath); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("store audio file: %w", err)
	}

	return publicPath, nil
}
