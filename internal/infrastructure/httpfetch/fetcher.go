package httpfetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"imagescraper/internal/application/port/output"
	"imagescraper/internal/domain/entity"

	"golang.org/x/net/publicsuffix"
)

var _ output.ImageFetcher = (*Fetcher)(nil)

const (
	defaultTimeout = 5 * time.Second
	defaultMaxSize = 50 << 20
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
)

var ErrNotImage = errors.New("response is an html page, not an image")

type Config struct {
	Timeout time.Duration
	MaxSize int64
}

func DefaultConfig() Config {
	return Config{
		Timeout: defaultTimeout,
		MaxSize: defaultMaxSize,
	}
}

type Fetcher struct {
	client  *http.Client
	maxSize int64
	logger  output.LoggerPort
}

func New(cfg Config, logger output.LoggerPort) (*Fetcher, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = defaultMaxSize
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
		maxSize: cfg.MaxSize,
		logger:  logger,
	}, nil
}

// Fetch downloads the raw bytes behind url. Every failure is returned as an
// *entity.DownloadError.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	data, status, err := f.get(ctx, url)
	if err != nil {
		derr := &entity.DownloadError{URL: url, StatusCode: status, Err: err}
		f.logger.Error("Image download failed", "url", url, "status", status, "error", err)
		return nil, derr
	}

	f.logger.Debug("Image downloaded", "url", url, "bytes", len(data))
	return data, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, fmt.Errorf("bad status: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, 0, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > f.maxSize {
		return nil, 0, fmt.Errorf("body exceeds %d bytes", f.maxSize)
	}
	if looksLikeHTML(data) {
		return nil, 0, ErrNotImage
	}
	return data, resp.StatusCode, nil
}

func looksLikeHTML(data []byte) bool {
	head := data
	if len(head) > 100 {
		head = head[:100]
	}
	head = bytes.ToLower(bytes.TrimSpace(head))
	return bytes.HasPrefix(head, []byte("<!doctype")) || bytes.HasPrefix(head, []byte("<html"))
}
