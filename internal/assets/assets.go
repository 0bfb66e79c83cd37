// Package assets loads images by URL for the avatar.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/skinhead/internal/logger"
	"github.com/Faultbox/skinhead/pkg/skin"
)

// MaxImageBytes bounds a single download. Skins are a few kilobytes.
const MaxImageBytes = 16 << 20

// ErrUnsupportedScheme is returned for URLs that are neither http(s),
// file, nor a plain path.
var ErrUnsupportedScheme = errors.New("assets: unsupported url scheme")

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: http status %d", e.URL, e.Code)
}

// Loader fetches and decodes images from http(s) URLs, file URLs, or
// filesystem paths. Raw bytes are cached per URL.
type Loader struct {
	client *http.Client
	cache  *Cache
}

// NewLoader creates a loader. A nil client gets a default with a timeout.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Loader{
		client: client,
		cache:  NewCache(),
	}
}

// Cache exposes the byte cache, mostly for stats.
func (l *Loader) Cache() *Cache {
	return l.cache
}

// Fetch returns the raw bytes behind rawURL. Failed fetches are not cached.
func (l *Loader) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if data, ok := l.cache.Get(rawURL); ok {
		return data, nil
	}

	data, err := l.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	l.cache.Set(rawURL, data)
	return data, nil
}

// Load fetches rawURL and decodes it as an image.
func (l *Loader) Load(ctx context.Context, rawURL string) (image.Image, error) {
	data, err := l.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	img, format, err := skin.DecodeImage(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", rawURL, err)
	}
	logger.Debug("image loaded",
		zap.String("url", rawURL),
		zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return img, nil
}

// LoadAsync loads rawURL on a new goroutine and hands the result to done
// through post, so done runs wherever post schedules it.
func (l *Loader) LoadAsync(ctx context.Context, rawURL string, post func(func()), done func(image.Image, error)) {
	go func() {
		img, err := l.Load(ctx, rawURL)
		post(func() { done(img, err) })
	}()
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		// Not a URL; try it as a path.
		return readFile(ctx, rawURL)
	}

	switch {
	case u.Scheme == "http" || u.Scheme == "https":
		return l.fetchHTTP(ctx, rawURL)
	case u.Scheme == "file":
		return readFile(ctx, u.Path)
	case u.Scheme == "" || len(u.Scheme) == 1: // plain or drive-letter path
		return readFile(ctx, rawURL)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
}

func (l *Loader) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}
	return readLimited(resp.Body, rawURL)
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return readLimited(f, path)
}

func readLimited(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("reading %s: larger than %d bytes", name, MaxImageBytes)
	}
	return data, nil
}
