package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Downloader fetches a remote media file into dst.
type Downloader interface {
	Download(ctx context.Context, rawURL, dst string) error
}

// HTTPDownloader streams a GET response body to disk.
type HTTPDownloader struct {
	client *http.Client
}

// NewHTTPDownloader uses client, or a client without a timeout when nil;
// large videos can take arbitrarily long and the request context bounds the
// call instead.
func NewHTTPDownloader(client *http.Client) *HTTPDownloader {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPDownloader{client: client}
}

func (d *HTTPDownloader) Download(ctx context.Context, rawURL, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s for url: %s", resp.Status, rawURL)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return out.Close()
}
