package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// maxRedirects matches the limit net/http applies by default; the check
// below only exists to give a clearer error.
const maxRedirects = 10

// Retriever puts the resource at url into destPath.
type Retriever interface {
	Retrieve(ctx context.Context, url, destPath string) error
}

// Downloader retrieves archives over HTTP(S), or copies them from disk
// for file:// URLs. It makes exactly one attempt.
type Downloader struct {
	client    *http.Client
	userAgent string
}

// NewDownloader creates a downloader. timeout bounds the wait for the
// response headers of each request; the body may take as long as it needs.
// A zero timeout disables it.
func NewDownloader(timeout time.Duration, userAgent string) *Downloader {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout

	return &Downloader{
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		userAgent: userAgent,
	}
}

// Retrieve streams rawURL into destPath. Data is written to destPath+".tmp"
// and renamed into place once complete; on failure the temp file is removed.
func (d *Downloader) Retrieve(ctx context.Context, rawURL, destPath string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return goerr.Wrap(err, "failed to parse source URL", goerr.V("url", rawURL))
	}

	var open func() (io.ReadCloser, error)
	switch u.Scheme {
	case "http", "https":
		open = func() (io.ReadCloser, error) { return d.get(ctx, rawURL) }
	case "file":
		open = func() (io.ReadCloser, error) { return openLocal(u) }
	default:
		return goerr.Wrap(ErrUnsupportedScheme, "cannot retrieve archive", goerr.V("url", rawURL))
	}

	body, err := open()
	if err != nil {
		return err
	}
	defer body.Close()

	return writeAtomic(destPath, body)
}

func (d *Downloader) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("url", rawURL))
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "request failed", goerr.V("url", rawURL))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, goerr.Wrap(ErrUnexpectedStatus, "download failed",
			goerr.V("url", rawURL),
			goerr.V("status", resp.StatusCode),
		)
	}

	return resp.Body, nil
}

// openLocal opens the file a file:// URL points at. Both file:///abs/path
// and file://relative/path (host treated as the first path element) work.
func openLocal(u *url.URL) (io.ReadCloser, error) {
	path := u.Path
	if u.Host != "" && u.Host != "localhost" {
		path = u.Host + path
	}
	f, err := os.Open(filepath.FromSlash(path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open local archive", goerr.V("path", path))
	}
	return f, nil
}

func writeAtomic(destPath string, src io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return goerr.Wrap(err, "failed to create destination directory", goerr.V("path", destPath))
	}

	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return goerr.Wrap(err, "failed to create temp file", goerr.V("path", tmpPath))
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, src); err != nil {
		return goerr.Wrap(err, "failed to write archive", goerr.V("path", tmpPath))
	}

	if err := tmpFile.Close(); err != nil {
		return goerr.Wrap(err, "failed to close temp file", goerr.V("path", tmpPath))
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return goerr.Wrap(err, "failed to move archive into place", goerr.V("path", destPath))
	}

	cleanupNeeded = false
	return nil
}
