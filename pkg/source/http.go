package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/taxmagick/taxmagick/pkg/httputil"
	"github.com/taxmagick/taxmagick/pkg/observability"
)

// httpTimeout bounds a whole download; the NCBI dump is ~60 MB.
const httpTimeout = 10 * time.Minute

// NewHTTPClient creates the client used for archive downloads.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

func (f *Fetcher) downloadHTTP(ctx context.Context, u *url.URL, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)

	start := time.Now()
	resp, err := f.HTTP.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		return httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, u)
	}
	if err := httputil.CheckStatus(resp); err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	return nil
}
