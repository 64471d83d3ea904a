package transport

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebDAVConfig carries the endpoint settings for the resty-backed client.
type WebDAVConfig struct {
	// BaseURL is the endpoint root, e.g. "https://dav.example.com/remote.php/dav".
	BaseURL string

	// Username and Password are sent as basic auth on every request.
	Username string
	Password string

	// BasePath is the remote directory all relative paths are rooted at.
	BasePath string

	// Timeout bounds a single round-trip.
	Timeout time.Duration
}

type webDAVTransport struct {
	client   *resty.Client
	basePath string
}

// NewWebDAVTransport constructs a [FileTransport] backed by a resty client
// speaking plain WebDAV.
func NewWebDAVTransport(cfg WebDAVConfig) FileTransport {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	if cfg.Username != "" {
		cli.SetBasicAuth(cfg.Username, cfg.Password)
	}

	return &webDAVTransport{
		client:   cli,
		basePath: "/" + strings.Trim(cfg.BasePath, "/"),
	}
}

func (w *webDAVTransport) PutFile(ctx context.Context, remotePath string, data []byte) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(data).
		Put(w.join(remotePath))
	if err != nil {
		return fmt.Errorf("put %s: %w: %w", remotePath, ErrNetworkFailure, err)
	}

	return mapWebDAVError(resp)
}

func (w *webDAVTransport) GetFile(ctx context.Context, remotePath string) ([]byte, error) {
	resp, err := w.client.R().
		SetContext(ctx).
		Get(w.join(remotePath))
	if err != nil {
		return nil, fmt.Errorf("get %s: %w: %w", remotePath, ErrNetworkFailure, err)
	}
	if err = mapWebDAVError(resp); err != nil {
		return nil, err
	}

	return resp.Body(), nil
}

func (w *webDAVTransport) DeleteFile(ctx context.Context, remotePath string) error {
	resp, err := w.client.R().
		SetContext(ctx).
		Delete(w.join(remotePath))
	if err != nil {
		return fmt.Errorf("delete %s: %w: %w", remotePath, ErrNetworkFailure, err)
	}

	return mapWebDAVError(resp)
}

func (w *webDAVTransport) MkCol(ctx context.Context, remotePath string) error {
	resp, err := w.client.R().
		SetContext(ctx).
		Execute("MKCOL", w.join(remotePath))
	if err != nil {
		return fmt.Errorf("mkcol %s: %w: %w", remotePath, ErrNetworkFailure, err)
	}

	// 405 means the collection already exists, which is the desired state.
	if resp.StatusCode() == http.StatusMethodNotAllowed {
		return nil
	}

	return mapWebDAVError(resp)
}

func (w *webDAVTransport) Exists(ctx context.Context, remotePath string) (bool, error) {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Depth", "0").
		Execute("PROPFIND", w.join(remotePath))
	if err != nil {
		return false, fmt.Errorf("propfind %s: %w: %w", remotePath, ErrNetworkFailure, err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	if err = mapWebDAVError(resp); err != nil {
		return false, err
	}

	return true, nil
}

func (w *webDAVTransport) Options(ctx context.Context) error {
	resp, err := w.client.R().
		SetContext(ctx).
		Execute(http.MethodOptions, w.basePath+"/")
	if err != nil {
		return fmt.Errorf("options probe: %w: %w", ErrNetworkFailure, err)
	}

	// Some servers answer OPTIONS on a missing base collection with 404;
	// the collection is created lazily on first sync, so that is fine.
	if resp.StatusCode() == http.StatusNotFound {
		return nil
	}

	return mapWebDAVError(resp)
}

func (w *webDAVTransport) join(remotePath string) string {
	return w.basePath + "/" + strings.TrimLeft(remotePath, "/")
}

func mapWebDAVError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(code)
	}
	return fmt.Errorf("http %d: %s", code, body)
}
