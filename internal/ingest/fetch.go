package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/huangsam/locscore/internal/contract"
	"go.uber.org/zap"
)

// currentCacheVersion defines the version of cached sheet payloads.
const currentCacheVersion = 1

// defaultRetryMax is the number of retries after the first attempt.
const defaultRetryMax = 3

// Fetcher reads sheet payloads from http(s) URLs or local paths.
// Remote payloads go through the cache store when one is configured.
type Fetcher struct {
	client *retryablehttp.Client
	store  contract.CacheStore
	ttl    time.Duration
	now    func() time.Time
}

// NewFetcher creates a fetcher. A nil store disables caching.
func NewFetcher(store contract.CacheStore, ttl time.Duration) *Fetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = defaultRetryMax
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = 30 * time.Second
	client.Logger = zapLeveledLogger{}
	return &Fetcher{client: client, store: store, ttl: ttl, now: time.Now}
}

// IsRemote reports whether a source is fetched over http(s).
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fetch returns the payload of a source.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	if !IsRemote(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", source, err)
		}
		return data, nil
	}

	key := cacheKey(source)
	if data := f.checkCacheHit(key); data != nil {
		zap.L().Debug("sheet served from cache", zap.String("url", source))
		return data, nil
	}

	data, err := f.download(ctx, source)
	if err != nil {
		return nil, err
	}
	if f.store != nil {
		if err := f.store.Set(key, data, currentCacheVersion, f.now().Unix()); err != nil {
			contract.LogWarn("Failed to cache sheet payload", err)
		}
	}
	return data, nil
}

func cacheKey(source string) string {
	return "sheet:" + source
}

// checkCacheHit returns a cached payload that is current and fresh, or nil.
func (f *Fetcher) checkCacheHit(key string) []byte {
	if f.store == nil || f.ttl <= 0 {
		return nil
	}
	data, version, ts, err := f.store.Get(key)
	if err != nil {
		return nil // Cache miss
	}
	if version != currentCacheVersion || f.now().Sub(time.Unix(ts, 0)) > f.ttl {
		return nil // Stale or version mismatch
	}
	return data
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid sheet url %s: %w", url, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", url, err)
	}
	return data, nil
}

// zapLeveledLogger routes retryablehttp logs to the global zap logger.
type zapLeveledLogger struct{}

func (zapLeveledLogger) Error(msg string, kv ...any) { zap.S().Errorw(msg, kv...) }
func (zapLeveledLogger) Info(msg string, kv ...any) { zap.S().Debugw(msg, kv...) }
func (zapLeveledLogger) Debug(msg string, kv ...any) { zap.S().Debugw(msg, kv...) }
func (zapLeveledLogger) Warn(msg string, kv ...any) { zap.S().Warnw(msg, kv...) }
