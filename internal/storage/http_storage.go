package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	apperrors "github.com/anime-shed/image-quality-go/internal/errors"
)

const (
	defaultFetchTimeout = 30 * time.Second
	defaultMaxBytes     = 16 * 1024 * 1024
	fetchAttempts       = 3
)

// SourceFetcher materialises a remote image in a local temporary file so it
// can be decoded like any other path.
type SourceFetcher interface {
	Fetch(ctx context.Context, source string) (*TempFile, error)
}

// TempFile is a downloaded source. The caller must call Remove.
type TempFile struct {
	Path string
}

// Remove deletes the file. It is safe to call on a nil TempFile.
func (f *TempFile) Remove() error {
	if f == nil || f.Path == "" {
		return nil
	}
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// HTTPFetcherOptions tunes an HTTPFetcher. Zero values use the defaults.
type HTTPFetcherOptions struct {
	Timeout  time.Duration
	MaxBytes int64
	TempDir  string
	Backoff  time.Duration // first retry delay; grows linearly
}

// HTTPFetcher downloads http(s) sources with a small retry budget.
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
	tempDir  string
	backoff  time.Duration
}

// NewHTTPFetcher creates an HTTP source fetcher
func NewHTTPFetcher(opts HTTPFetcherOptions) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultFetchTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}

	transport := &http.Transport{
		// Connection pooling sized for one download at a time
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:    10 * time.Second,
		ResponseHeaderTimeout:  10 * time.Second,
		ExpectContinueTimeout:  1 * time.Second,
		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		maxBytes: opts.MaxBytes,
		tempDir:  opts.TempDir,
		backoff:  opts.Backoff,
	}
}

// Fetch downloads source into a temp file whose extension matches the URL
// path, or the response Content-Type when the path has none.
func (h *HTTPFetcher) Fetch(ctx context.Context, source string) (*TempFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid URL format", err)
	}
	req.Header.Set("Accept", "image/*, */*")
	req.Header.Set("User-Agent", "image-quality-go/1.0")

	resp, err := h.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return h.save(resp, extensionFor(req.URL, resp.Header.Get("Content-Type")))
}

// do issues req up to fetchAttempts times. 4xx responses are not retried;
// transport errors and 5xx responses are, with a linear backoff.
func (h *HTTPFetcher) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt < fetchAttempts; attempt++ {
		resp, err := h.client.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		if err != nil {
			lastErr = err
		} else {
			resp.Body.Close()
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return nil, apperrors.NewNetworkError(
					fmt.Sprintf("failed to fetch image after %d attempts", attempt+1),
					fmt.Errorf("client error: status code %d", resp.StatusCode))
			}
			lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
		}

		if ctx.Err() != nil {
			return nil, apperrors.NewTimeoutError("image fetch cancelled", ctx.Err())
		}

		if attempt < fetchAttempts-1 {
			select {
			case <-time.After(time.Duration(attempt+1) * h.backoff):
			case <-ctx.Done():
				return nil, apperrors.NewTimeoutError("image fetch cancelled", ctx.Err())
			}
		}
	}

	return nil, apperrors.NewNetworkError(
		fmt.Sprintf("failed to fetch image after %d attempts", fetchAttempts), lastErr)
}

func (h *HTTPFetcher) save(resp *http.Response, ext string) (*TempFile, error) {
	f, err := os.CreateTemp(h.tempDir, "source-*"+ext)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create temp file", err)
	}
	tmp := &TempFile{Path: f.Name()}

	n, err := io.Copy(f, io.LimitReader(resp.Body, h.maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		tmp.Remove()
		return nil, apperrors.NewNetworkError("failed to download image", err)
	}
	if n > h.maxBytes {
		tmp.Remove()
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("image exceeds the %d byte limit", h.maxBytes), nil)
	}
	return tmp, nil
}

// contentTypeExtensions covers types whose mime default extension is
// missing or ambiguous.
var contentTypeExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
	"image/tiff": ".tiff",
	"image/webp": ".webp",
}

func extensionFor(u *url.URL, contentType string) string {
	if ext := path.Ext(u.Path); ext != "" {
		return strings.ToLower(ext)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	if ext, ok := contentTypeExtensions[mediaType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
