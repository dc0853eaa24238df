package platform

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"mapengine/core/storage"
	"mapengine/urladdr"

	"github.com/minio/minio-go/v7"
)

// Client is the reference Requester implementation, dispatching http,
// file, and s3 scheme URLs. It never touches GPU state; renderRequest and
// setContinuous are supplied by the embedding application's windowing
// layer and simply forwarded.
type Client struct {
	httpClient    *http.Client
	storage       storage.Client // nil disables s3:// support
	defaultBucket string
	renderRequest func()
	setContinuous func(bool)

	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
	shutdownOnce   sync.Once

	nextHandle atomic.Uint64

	mu      sync.Mutex
	cancels map[Handle]context.CancelFunc
}

// NewClient builds a Client. storageClient may be nil if the deployment
// never addresses s3:// URLs; defaultBucket is used when an s3:// URL
// carries no net-location (bucket) of its own, and falls back to
// cfg.DefaultBucket when empty.
func NewClient(cfg Config, storageClient storage.Client, defaultBucket string, renderRequest func(), setContinuous func(bool)) *Client {
	if defaultBucket == "" {
		defaultBucket = cfg.DefaultBucket
	}
	timeout := cfg.HTTPTimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		httpClient:     &http.Client{Timeout: time.Duration(timeout) * time.Second},
		storage:        storageClient,
		defaultBucket:  defaultBucket,
		renderRequest:  renderRequest,
		setContinuous:  setContinuous,
		shutdownCtx:    ctx,
		shutdownCancel: cancel,
		cancels:        make(map[Handle]context.CancelFunc),
	}
}

// StartURLRequest dispatches u according to scheme and returns a handle
// that CancelURLRequest can use to request early termination.
func (c *Client) StartURLRequest(u urladdr.URL, cb Callback) Handle {
	h := Handle(c.nextHandle.Add(1))

	ctx, cancel := context.WithCancel(c.shutdownCtx)
	c.mu.Lock()
	c.cancels[h] = cancel
	c.mu.Unlock()

	go func() {
		defer func() {
			c.mu.Lock()
			delete(c.cancels, h)
			c.mu.Unlock()
			cancel()
		}()

		var res Result
		switch u.Scheme {
		case "http", "https":
			res = c.fetchHTTP(ctx, u)
		case "file":
			res = c.fetchFile(ctx, u)
		case "s3":
			res = c.fetchS3(ctx, u)
		default:
			res = Result{Err: fmt.Errorf("platform: unsupported scheme %q", u.Scheme)}
		}
		cb(res)
	}()

	return h
}

// CancelURLRequest advisably cancels the request identified by h. The
// callback may still fire with a result, or with a context-canceled error.
func (c *Client) CancelURLRequest(h Handle) {
	c.mu.Lock()
	cancel, ok := c.cancels[h]
	c.mu.Unlock()
	if ok {
		cancel()
	}
}

// RequestRender forwards to the renderRequest callback supplied at
// construction, if any.
func (c *Client) RequestRender() {
	if c.renderRequest != nil {
		c.renderRequest()
	}
}

// SetContinuousRendering forwards to the setContinuous callback supplied
// at construction, if any.
func (c *Client) SetContinuousRendering(continuous bool) {
	if c.setContinuous != nil {
		c.setContinuous(continuous)
	}
}

// Shutdown cancels every outstanding request.
func (c *Client) Shutdown() {
	c.shutdownOnce.Do(c.shutdownCancel)
}

func (c *Client) fetchHTTP(ctx context.Context, u urladdr.URL) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Result{Err: fmt.Errorf("platform: build request for %q: %w", u.String(), err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{Err: fmt.Errorf("platform: fetch %q: %w", u.String(), err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{Err: fmt.Errorf("platform: fetch %q: status %d", u.String(), resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Err: fmt.Errorf("platform: read body for %q: %w", u.String(), err)}
	}
	return Result{Bytes: body}
}

func (c *Client) fetchFile(ctx context.Context, u urladdr.URL) Result {
	if err := ctx.Err(); err != nil {
		return Result{Err: err}
	}
	data, err := os.ReadFile(u.Path)
	if err != nil {
		return Result{Err: fmt.Errorf("platform: read file %q: %w", u.Path, err)}
	}
	return Result{Bytes: data}
}

func (c *Client) fetchS3(ctx context.Context, u urladdr.URL) Result {
	if c.storage == nil {
		return Result{Err: fmt.Errorf("platform: s3:// requested but no storage client configured: %q", u.String())}
	}

	bucket := u.Host
	if bucket == "" {
		bucket = c.defaultBucket
	}
	key := strings.TrimPrefix(u.Path, "/")

	obj, err := c.storage.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return Result{Err: fmt.Errorf("platform: get s3://%s/%s: %w", bucket, key, err)}
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return Result{Err: fmt.Errorf("platform: read s3://%s/%s: %w", bucket, key, err)}
	}
	return Result{Bytes: data}
}
