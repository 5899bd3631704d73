package fetcher

import (
	"context"
	"io"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"

	"github.com/hesamz3090/fetcher/internal/network"
)

type httpFetcher struct {
	client  *network.Client  // shared across workers; nil when proxies are configured
	rotator *network.Rotator // non-nil iff proxies are configured
	timeout time.Duration
}

// NewHTTPFetcher returns the default Fetcher backed by a TLS-fingerprinting
// HTTP client with a random User-Agent per request. proxies may be empty;
// timeout <= 0 falls back to the client default.
func NewHTTPFetcher(proxies []string, timeout time.Duration) (Fetcher, error) {
	if len(proxies) > 0 {
		rotator, err := network.NewRotator(proxies, 10*time.Minute)
		if err != nil {
			return nil, err
		}
		return &httpFetcher{rotator: rotator, timeout: timeout}, nil
	}

	client, err := network.NewClient(nil, timeout)
	if err != nil {
		return nil, err
	}
	return &httpFetcher{client: client}, nil
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) (string, error) {
	// Proxy selection mutates the underlying client, so proxied fetches
	// each get a private client; the rotator itself is safe to share.
	client := f.client
	if f.rotator != nil {
		var err error
		client, err = network.NewClient(f.rotator, f.timeout)
		if err != nil {
			return "", err
		}
	}

	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// Any response the server managed to send is a success; the status
	// code is not inspected.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
